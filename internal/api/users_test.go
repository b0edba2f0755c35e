package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadAvatar(t *testing.T) {
	c := newTestClient(t, staticTokens("tok"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload/avatar", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("avatar")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "me.png", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "png-bytes", string(data))

		w.Write([]byte(`{"avatar_url":"/uploads/avatars/me.png"}`))
	}))

	url, err := c.UploadAvatar(context.Background(), "me.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/avatars/me.png", url)
}

func TestUploadAvatarNoCredential(t *testing.T) {
	c := newTestClient(t, failingTokens{}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("request must not be sent")
	}))

	_, err := c.UploadAvatar(context.Background(), "me.png", strings.NewReader("x"))
	require.Error(t, err)
}

func TestFollowUnfollow(t *testing.T) {
	var gotPath string
	c := newTestClient(t, staticTokens("tok"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true}`))
	}))

	require.NoError(t, c.FollowUser(context.Background(), 9, 7))
	require.Equal(t, "/api/users/9/follow", gotPath)

	require.NoError(t, c.UnfollowUser(context.Background(), 9, 7))
	require.Equal(t, "/api/users/9/unfollow", gotPath)
}
