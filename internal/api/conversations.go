package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nikzart/HTLY/internal/model"
)

// ListConversations returns the caller's conversations, most recent first.
func (c *Client) ListConversations(ctx context.Context, userID int64) ([]model.Conversation, error) {
	path := fmt.Sprintf("/users/%d/conversations", userID)
	var convs []model.Conversation
	if err := c.getJSON(ctx, path, nil, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// CreateConversation returns the id of the conversation between the caller
// and another user, creating it when none exists yet.
func (c *Client) CreateConversation(ctx context.Context, userID, otherUserID int64) (int64, error) {
	body := map[string]any{"user_id": userID, "other_user_id": otherUserID}
	var resp struct {
		ConversationID int64 `json:"conversation_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/conversations", nil, body, &resp); err != nil {
		return 0, err
	}
	return resp.ConversationID, nil
}

// ListMessages returns a conversation's messages, oldest first. Reading the
// list marks the conversation read for the caller on the backend.
func (c *Client) ListMessages(ctx context.Context, conversationID, userID int64) ([]model.Message, error) {
	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	var msgs []model.Message
	if err := c.getJSON(ctx, path, userIDQuery(userID), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage posts a message and returns the canonical record. The
// idempotency key lets the backend collapse client retries of the same send.
func (c *Client) SendMessage(ctx context.Context, conversationID, senderID int64, content, idempotencyKey string) (*model.Message, error) {
	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	body := map[string]any{
		"sender_id":       senderID,
		"content":         content,
		"idempotency_key": idempotencyKey,
	}
	var msg model.Message
	if err := c.do(ctx, http.MethodPost, path, nil, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// UnreadCount returns the caller's total unread message count.
func (c *Client) UnreadCount(ctx context.Context, userID int64) (int, error) {
	path := fmt.Sprintf("/users/%d/unread-count", userID)
	var resp struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}
