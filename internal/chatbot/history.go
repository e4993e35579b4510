package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	historyTurns = 20
	historyTTL   = 30 * time.Minute
)

type Turn struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// History keeps the most recent turns of each conversation in a Redis list.
// A nil client disables it.
type History struct {
	rdb    *redis.Client
	prefix string
}

func NewHistory(rdb *redis.Client, prefix string) *History {
	return &History{rdb: rdb, prefix: prefix}
}

func (h *History) key(conversationID string) string {
	return h.prefix + ":chat:" + conversationID
}

func (h *History) Append(ctx context.Context, conversationID string, turns ...Turn) error {
	if h == nil || h.rdb == nil || len(turns) == 0 {
		return nil
	}
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		values = append(values, b)
	}
	key := h.key(conversationID)
	_, err := h.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, values...)
		p.LTrim(ctx, key, -historyTurns, -1)
		p.Expire(ctx, key, historyTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append chat history: %w", err)
	}
	return nil
}

func (h *History) Recent(ctx context.Context, conversationID string) ([]Turn, error) {
	if h == nil || h.rdb == nil {
		return nil, nil
	}
	raw, err := h.rdb.LRange(ctx, h.key(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}
	out := make([]Turn, 0, len(raw))
	for _, s := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
