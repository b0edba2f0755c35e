package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/nikzart/HTLY/internal/model"
)

// GetUser returns a user's public profile.
func (c *Client) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	path := fmt.Sprintf("/users/%d", userID)
	var user model.User
	if err := c.getJSON(ctx, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateBio replaces the caller's bio.
func (c *Client) UpdateBio(ctx context.Context, userID int64, bio string) error {
	path := fmt.Sprintf("/users/%d/bio", userID)
	body := map[string]string{"bio": bio}
	return c.do(ctx, http.MethodPut, path, nil, body, nil)
}

// FollowUser makes the caller follow another user.
func (c *Client) FollowUser(ctx context.Context, followingID, userID int64) error {
	path := fmt.Sprintf("/users/%d/follow", followingID)
	body := map[string]any{"user_id": userID}
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

// UnfollowUser makes the caller unfollow another user.
func (c *Client) UnfollowUser(ctx context.Context, followingID, userID int64) error {
	path := fmt.Sprintf("/users/%d/unfollow", followingID)
	body := map[string]any{"user_id": userID}
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

// UploadAvatar uploads an avatar image and returns its served URL.
func (c *Client) UploadAvatar(ctx context.Context, filename string, content io.Reader) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		err = fmt.Errorf("authorize POST /upload/avatar: %w", err)
		c.noteAuthFailure(err)
		return "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("avatar", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("read avatar file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/avatar", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST /upload/avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		err := fmt.Errorf("POST /upload/avatar: %w", ErrUnauthorized)
		c.noteAuthFailure(err)
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("POST /upload/avatar: %w", decodeStatusError(resp))
	}

	var body struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := decodeJSON(resp.Body, &body); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return body.AvatarURL, nil
}
