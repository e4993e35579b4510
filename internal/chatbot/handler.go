package chatbot

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"venue/internal/api"
)

const maxMessageRunes = 500

type Transcript interface {
	Append(ctx context.Context, conversationID string, turns ...Turn) error
}

type Handler struct {
	Bot        *Bot
	Transcript Transcript
	Now        func() time.Time
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply
}

func (h Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	msg := strings.TrimSpace(req.Message)
	switch {
	case msg == "":
		api.WriteValidation(w, map[string]string{"message": "is required"})
		return
	case utf8.RuneCountInString(msg) > maxMessageRunes:
		api.WriteValidation(w, map[string]string{"message": "is too long"})
		return
	}

	convID := req.ConversationID
	if _, err := uuid.Parse(convID); err != nil {
		convID = uuid.NewString()
	}

	rep := h.Bot.Respond(msg)

	if h.Transcript != nil {
		now := time.Now()
		if h.Now != nil {
			now = h.Now()
		}
		err := h.Transcript.Append(r.Context(), convID,
			Turn{Role: "user", Text: msg, At: now},
			Turn{Role: "bot", Text: rep.Text, At: now},
		)
		if err != nil {
			api.Log(r.Context()).WithError(err).Warn("chat history append failed")
		}
	}

	api.WriteJSON(w, http.StatusOK, chatResponse{ConversationID: convID, Reply: rep})
}
