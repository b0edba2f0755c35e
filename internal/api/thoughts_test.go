package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListThoughtsByTab(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		wantPath string
	}{
		{
			name: "feed",
			call: func(c *Client) error {
				_, err := c.ListThoughts(context.Background(), 7)
				return err
			},
			wantPath: "/api/thoughts",
		},
		{
			name: "trending",
			call: func(c *Client) error {
				_, err := c.ListTrendingThoughts(context.Background(), 7)
				return err
			},
			wantPath: "/api/thoughts/trending",
		},
		{
			name: "following",
			call: func(c *Client) error {
				_, err := c.ListFollowingThoughts(context.Background(), 7)
				return err
			},
			wantPath: "/api/thoughts/following",
		},
		{
			name: "saved",
			call: func(c *Client) error {
				_, err := c.ListSavedThoughts(context.Background(), 7)
				return err
			},
			wantPath: "/api/users/7/saved",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotUserID string
			c := newTestClient(t, staticTokens("tok"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotUserID = r.URL.Query().Get("user_id")
				w.Write([]byte(`[{"id":1,"user_id":2,"username":"bo","content":"hi"}]`))
			}))

			require.NoError(t, tt.call(c))
			require.Equal(t, tt.wantPath, gotPath)
			require.Equal(t, "7", gotUserID)
		})
	}
}

func TestCreateThought(t *testing.T) {
	c := newTestClient(t, staticTokens("tok"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(7), body["user_id"])
		require.Equal(t, "late night idea", body["content"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"user_id":7,"content":"late night idea"}`))
	}))

	thought, err := c.CreateThought(context.Background(), 7, "late night idea")
	require.NoError(t, err)
	require.Equal(t, int64(42), thought.ID)
}

func TestDeleteAllThoughts(t *testing.T) {
	c := newTestClient(t, staticTokens("tok"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/users/7/thoughts", r.URL.Path)
		w.Write([]byte(`{"count":12}`))
	}))

	count, err := c.DeleteAllThoughts(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 12, count)
}

func TestReactionEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		wantPath string
	}{
		{"like", func(c *Client) error { return c.LikeThought(context.Background(), 5, 7) }, "/api/thoughts/5/like"},
		{"unlike", func(c *Client) error { return c.UnlikeThought(context.Background(), 5, 7) }, "/api/thoughts/5/unlike"},
		{"save", func(c *Client) error { return c.SaveThought(context.Background(), 5, 7) }, "/api/thoughts/5/save"},
		{"unsave", func(c *Client) error { return c.UnsaveThought(context.Background(), 5, 7) }, "/api/thoughts/5/unsave"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			c := newTestClient(t, staticTokens("tok"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				require.Equal(t, float64(7), body["user_id"])
				w.Write([]byte(`{"success":true}`))
			}))

			require.NoError(t, tt.call(c))
			require.Equal(t, tt.wantPath, gotPath)
		})
	}
}

func TestSendMessageCarriesIdempotencyKey(t *testing.T) {
	c := newTestClient(t, staticTokens("tok"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/conversations/3/messages", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "key-1", body["idempotency_key"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"conversation_id":3,"sender_id":7,"content":"hey"}`))
	}))

	msg, err := c.SendMessage(context.Background(), 3, 7, "hey", "key-1")
	require.NoError(t, err)
	require.Equal(t, int64(9), msg.ID)
}

func TestUnreadCount(t *testing.T) {
	c := newTestClient(t, staticTokens("tok"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/7/unread-count", r.URL.Path)
		w.Write([]byte(`{"unread_count":4}`))
	}))

	count, err := c.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 4, count)
}
