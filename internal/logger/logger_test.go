package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, debug := range []bool{true, false} {
		log, err := New(debug)
		require.NoError(t, err)
		require.NotNil(t, log)
		log.Info("startup check")
	}
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() {
		Must(true)
	})
}
