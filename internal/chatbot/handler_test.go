package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTranscript struct {
	turns map[string][]Turn
}

func (m *memTranscript) Append(_ context.Context, id string, turns ...Turn) error {
	if m.turns == nil {
		m.turns = map[string][]Turn{}
	}
	m.turns[id] = append(m.turns[id], turns...)
	return nil
}

func chat(h Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/v1/public/chat", strings.NewReader(body)))
	return rec
}

func TestChat_AssignsConversationAndRecords(t *testing.T) {
	tr := &memTranscript{}
	h := Handler{Bot: NewDefault(), Transcript: tr}

	rec := chat(h, `{"message":"what time do you open?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hours", resp.Topic)
	assert.Greater(t, resp.TypingMS, 400)
	_, err := uuid.Parse(resp.ConversationID)
	require.NoError(t, err)

	rec = chat(h, `{"message":"thanks","conversation_id":"`+resp.ConversationID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, tr.turns[resp.ConversationID], 4)
}

func TestChat_RejectsEmptyAndLong(t *testing.T) {
	h := Handler{Bot: NewDefault()}

	assert.Equal(t, http.StatusBadRequest, chat(h, `{"message":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, chat(h, `{"message":"`+strings.Repeat("a", 501)+`"}`).Code)
}

func TestHistory_NilClientIsNoop(t *testing.T) {
	h := NewHistory(nil, "venue")
	assert.NoError(t, h.Append(context.Background(), "c", Turn{Role: "user", Text: "hi"}))
	turns, err := h.Recent(context.Background(), "c")
	assert.NoError(t, err)
	assert.Empty(t, turns)
}
