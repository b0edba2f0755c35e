package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nikzart/HTLY/internal/model"
)

func userIDQuery(userID int64) url.Values {
	return url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
}

// ListThoughts returns the main feed scored against the viewer's own
// thoughts.
func (c *Client) ListThoughts(ctx context.Context, userID int64) ([]model.Thought, error) {
	var thoughts []model.Thought
	if err := c.getJSON(ctx, "/thoughts", userIDQuery(userID), &thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

// ListTrendingThoughts returns recently popular thoughts.
func (c *Client) ListTrendingThoughts(ctx context.Context, userID int64) ([]model.Thought, error) {
	var thoughts []model.Thought
	if err := c.getJSON(ctx, "/thoughts/trending", userIDQuery(userID), &thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

// ListFollowingThoughts returns thoughts from accounts the viewer follows.
func (c *Client) ListFollowingThoughts(ctx context.Context, userID int64) ([]model.Thought, error) {
	var thoughts []model.Thought
	if err := c.getJSON(ctx, "/thoughts/following", userIDQuery(userID), &thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

// ListSavedThoughts returns the viewer's saved thoughts.
func (c *Client) ListSavedThoughts(ctx context.Context, userID int64) ([]model.Thought, error) {
	path := fmt.Sprintf("/users/%d/saved", userID)
	var thoughts []model.Thought
	if err := c.getJSON(ctx, path, userIDQuery(userID), &thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

// ListUserThoughts returns every thought authored by a user, newest first.
func (c *Client) ListUserThoughts(ctx context.Context, userID int64) ([]model.Thought, error) {
	path := fmt.Sprintf("/users/%d/thoughts", userID)
	var thoughts []model.Thought
	if err := c.getJSON(ctx, path, nil, &thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

// CreateThought posts a new thought. The caller refetches the feed rather
// than inserting the response locally.
func (c *Client) CreateThought(ctx context.Context, userID int64, content string) (*model.Thought, error) {
	body := map[string]any{"user_id": userID, "content": content}
	var thought model.Thought
	if err := c.do(ctx, http.MethodPost, "/thoughts", nil, body, &thought); err != nil {
		return nil, err
	}
	return &thought, nil
}

// DeleteThought removes a single thought owned by the caller.
func (c *Client) DeleteThought(ctx context.Context, thoughtID, userID int64) error {
	path := fmt.Sprintf("/thoughts/%d", thoughtID)
	body := map[string]any{"user_id": userID}
	return c.do(ctx, http.MethodDelete, path, nil, body, nil)
}

// DeleteAllThoughts removes every thought owned by the caller and returns
// how many the backend deleted.
func (c *Client) DeleteAllThoughts(ctx context.Context, userID int64) (int, error) {
	path := fmt.Sprintf("/users/%d/thoughts", userID)
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// LikeThought records a like.
func (c *Client) LikeThought(ctx context.Context, thoughtID, userID int64) error {
	return c.reaction(ctx, thoughtID, userID, "like")
}

// UnlikeThought removes a like.
func (c *Client) UnlikeThought(ctx context.Context, thoughtID, userID int64) error {
	return c.reaction(ctx, thoughtID, userID, "unlike")
}

// SaveThought bookmarks a thought for the viewer.
func (c *Client) SaveThought(ctx context.Context, thoughtID, userID int64) error {
	return c.reaction(ctx, thoughtID, userID, "save")
}

// UnsaveThought removes a bookmark.
func (c *Client) UnsaveThought(ctx context.Context, thoughtID, userID int64) error {
	return c.reaction(ctx, thoughtID, userID, "unsave")
}

func (c *Client) reaction(ctx context.Context, thoughtID, userID int64, action string) error {
	path := fmt.Sprintf("/thoughts/%d/%s", thoughtID, action)
	body := map[string]any{"user_id": userID}
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

// ListComments returns a thought's comments, oldest first.
func (c *Client) ListComments(ctx context.Context, thoughtID int64) ([]model.Comment, error) {
	path := fmt.Sprintf("/thoughts/%d/comments", thoughtID)
	var comments []model.Comment
	if err := c.getJSON(ctx, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment. The realtime push carries the canonical
// record back, so callers ignore the returned comment for list state.
func (c *Client) CreateComment(ctx context.Context, thoughtID, userID int64, content string) (*model.Comment, error) {
	path := fmt.Sprintf("/thoughts/%d/comments", thoughtID)
	body := map[string]any{"user_id": userID, "content": content}
	var comment model.Comment
	if err := c.do(ctx, http.MethodPost, path, nil, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
