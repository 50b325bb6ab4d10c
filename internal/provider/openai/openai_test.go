// internal/provider/openai/openai_test.go
package openai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomaskal/hermes/internal/core"
)

type fakeClient struct {
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f.resp, f.err
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("", "gpt-3.5-turbo")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestInvoke_NormalizesUsage(t *testing.T) {
	a := &Adapter{
		client: &fakeClient{
			resp: openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Content: "func main() {}"}},
				},
				Usage: openai.Usage{
					PromptTokens:     100,
					CompletionTokens: 50,
					TotalTokens:      150,
				},
			},
		},
		model:     "gpt-3.5-turbo",
		maxTokens: 500,
	}

	result, err := a.Invoke(context.Background(), "write a function")
	require.NoError(t, err)

	assert.Equal(t, "func main() {}", result.Response)
	assert.Equal(t, 150, result.TokensUsed)
	assert.InDelta(t, 100*0.0000015+50*0.000002, result.Cost, 1e-12)
	assert.Equal(t, core.ProviderOpenAI, result.Provider)
}

func TestInvoke_UpstreamFailure(t *testing.T) {
	a := &Adapter{
		client:    &fakeClient{err: errors.New("429 quota exceeded")},
		model:     "gpt-3.5-turbo",
		maxTokens: 500,
	}

	result, err := a.Invoke(context.Background(), "write a function")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, core.ErrProvider))
}
