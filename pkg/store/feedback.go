package store

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

type Feedback struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Rating      int        `json:"rating"`
	Message     string     `json:"message"`
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type FeedbackCreate struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Message string `json:"message" validate:"required,max=2000"`
}

type FeedbackResponse struct {
	Response string `json:"response" validate:"required,max=2000"`
}

func (c Client) ListFeedback(ctx context.Context) ([]Feedback, error) {
	items, err := decodeList[Feedback](ctx, c, "/feedback/", nil)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

func (c Client) CreateFeedback(ctx context.Context, in FeedbackCreate) (Feedback, error) {
	if err := Validate(in); err != nil {
		return Feedback{}, err
	}
	var out Feedback
	if _, err := c.doJSON(ctx, http.MethodPost, "/feedback/", nil, in, &out); err != nil {
		return Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return out, nil
}

func (c Client) DeleteFeedback(ctx context.Context, id int64) error {
	if _, err := c.doJSON(ctx, http.MethodDelete, feedbackPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	return nil
}

func (c Client) RespondToFeedback(ctx context.Context, id int64, in FeedbackResponse) (Feedback, error) {
	if err := Validate(in); err != nil {
		return Feedback{}, err
	}
	var out Feedback
	if _, err := c.doJSON(ctx, http.MethodPost, feedbackPath(id)+"response/", nil, in, &out); err != nil {
		return Feedback{}, fmt.Errorf("respond to feedback %d: %w", id, err)
	}
	return out, nil
}

func feedbackPath(id int64) string {
	return "/feedback/" + strconv.FormatInt(id, 10) + "/"
}
