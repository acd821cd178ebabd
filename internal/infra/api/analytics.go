package api_client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/burningsawals/core/internal/model"
)

type interactRequest struct {
	InteractionType model.Reaction `json:"interaction_type"`
}

func (c *Client) AddInteraction(ctx context.Context, questionID int64, kind model.Reaction) error {
	path := fmt.Sprintf("/analytics/questions/%d/interact", questionID)
	return c.do(ctx, http.MethodPost, path, interactRequest{InteractionType: kind}, nil)
}

func (c *Client) RemoveInteraction(ctx context.Context, questionID int64, kind model.Reaction) error {
	path := fmt.Sprintf("/analytics/questions/%d/interact", questionID)
	return c.do(ctx, http.MethodDelete, path, interactRequest{InteractionType: kind}, nil)
}

func (c *Client) UserStats(ctx context.Context) ([]model.UserStat, error) {
	var stats []model.UserStat
	if err := c.do(ctx, http.MethodGet, "/analytics/users", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) TopQuestions(ctx context.Context) ([]model.TopQuestion, error) {
	var top []model.TopQuestion
	if err := c.do(ctx, http.MethodGet, "/analytics/questions/top", nil, &top); err != nil {
		return nil, err
	}
	return top, nil
}

func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var h model.Health
	if err := c.do(ctx, http.MethodGet, "/analytics/health", nil, &h); err != nil {
		return model.Health{}, err
	}
	return h, nil
}
