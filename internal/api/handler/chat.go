// internal/api/handler/chat.go
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tomaskal/hermes/internal/api/response"
	"github.com/tomaskal/hermes/internal/core"
)

// ChatDispatcher defines the interface needed from dispatch.Dispatcher.
type ChatDispatcher interface {
	Dispatch(ctx context.Context, req core.ChatRequest) (*core.ChatResponse, error)
}

// ChatHandler handles chat dispatch API requests.
type ChatHandler struct {
	dispatcher ChatDispatcher
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(dispatcher ChatDispatcher) *ChatHandler {
	return &ChatHandler{dispatcher: dispatcher}
}

// Chat dispatches one chat request.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, nil)
		return
	}

	var req core.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, &core.Error{
			Code:    core.ErrValidation.Code,
			Message: "Invalid request body",
			Cause:   err,
		})
		return
	}

	resp, err := h.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}
