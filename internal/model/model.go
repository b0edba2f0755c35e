// Package model holds the client-side mirrors of backend-owned records.
// The client never persists any of these; they live in resource caches
// and are rebuilt from REST responses and push events.
package model

// User is the authenticated account record returned by the backend.
type User struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	AvatarURL        string `json:"avatar_url"`
	Bio              string `json:"bio"`
	ProfileCompleted bool   `json:"profile_completed"`
	ThoughtsCount    int    `json:"thoughts_count"`
	ThoughtmatesCnt  int    `json:"thoughtmates_count"`
	FollowersCount   int    `json:"followers_count"`
}

// Thought is a short user-authored post shown in feeds.
type Thought struct {
	ID              int64    `json:"id"`
	UserID          int64    `json:"user_id"`
	Username        string   `json:"username"`
	AvatarURL       string   `json:"avatar_url"`
	Content         string   `json:"content"`
	CreatedAt       string   `json:"created_at"`
	LikeCount       int      `json:"like_count"`
	CommentCount    int      `json:"comment_count"`
	IsLiked         bool     `json:"is_liked"`
	IsSaved         bool     `json:"is_saved"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

// Comment is a reply attached to a thought.
type Comment struct {
	ID        int64  `json:"id"`
	ThoughtID int64  `json:"thought_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Conversation is a direct-message thread with one counterpart.
type Conversation struct {
	ID             int64  `json:"id"`
	OtherUserID    int64  `json:"other_user_id"`
	OtherUsername  string `json:"other_username"`
	OtherAvatarURL string `json:"other_avatar_url"`
	LastMessage    string `json:"last_message"`
	LastMessageAt  string `json:"last_message_at"`
	UnreadCount    int    `json:"unread_count"`
}

// Message is one entry in a conversation. Append-only, ordered by sent time.
type Message struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	SenderID       int64  `json:"sender_id"`
	Content        string `json:"content"`
	SentAt         string `json:"sent_at"`
}

// Thoughtmate is a user the matching engine scored as similar to the caller.
type Thoughtmate struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	AvatarURL       string  `json:"avatar_url"`
	Bio             string  `json:"bio"`
	SimilarityScore float64 `json:"similarity_score"`
	ThoughtsCount   int     `json:"thoughts_count"`
	IsFollowing     bool    `json:"is_following"`
}
