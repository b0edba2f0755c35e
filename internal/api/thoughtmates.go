package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nikzart/HTLY/internal/model"
)

// ListThoughtmates returns the users most similar to the caller, best match
// first, capped at limit.
func (c *Client) ListThoughtmates(ctx context.Context, userID int64, limit int) ([]model.Thoughtmate, error) {
	path := fmt.Sprintf("/users/%d/thoughtmates", userID)
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var mates []model.Thoughtmate
	if err := c.getJSON(ctx, path, query, &mates); err != nil {
		return nil, err
	}
	return mates, nil
}
