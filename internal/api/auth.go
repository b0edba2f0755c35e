package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nikzart/HTLY/internal/model"
	"github.com/nikzart/HTLY/internal/session"
)

// Me returns the backend's view of the authenticated account.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CompleteProfile submits the profile setup form and returns the updated
// user record.
func (c *Client) CompleteProfile(ctx context.Context, username, avatarURL, bio string) (*model.User, error) {
	body := map[string]string{
		"username":   username,
		"avatar_url": avatarURL,
		"bio":        bio,
	}
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// StartDeviceAuth begins the device-authorization flow at the identity
// provider.
func (c *Client) StartDeviceAuth(ctx context.Context) (*session.DeviceAuthorization, error) {
	var resp struct {
		DeviceCode      string `json:"device_code"`
		UserCode        string `json:"user_code"`
		VerificationURL string `json:"verification_url"`
		Interval        int    `json:"interval"`
		ExpiresIn       int    `json:"expires_in"`
	}
	if err := c.doUnauthenticated(ctx, http.MethodPost, "/auth/device", nil, &resp); err != nil {
		return nil, err
	}
	return &session.DeviceAuthorization{
		DeviceCode:      resp.DeviceCode,
		UserCode:        resp.UserCode,
		VerificationURL: resp.VerificationURL,
		Interval:        time.Duration(resp.Interval) * time.Second,
		ExpiresIn:       time.Duration(resp.ExpiresIn) * time.Second,
	}, nil
}

// PollDeviceToken asks the provider whether the device has been approved.
// Returns session.ErrAuthorizationPending until the user acts.
func (c *Client) PollDeviceToken(ctx context.Context, deviceCode string) (*session.TokenGrant, error) {
	body := map[string]string{"device_code": deviceCode}
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		UserID       int64  `json:"user_id"`
	}
	err := c.doUnauthenticated(ctx, http.MethodPost, "/auth/device/token", body, &resp)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Message == "authorization_pending" {
			return nil, session.ErrAuthorizationPending
		}
		return nil, err
	}
	return &session.TokenGrant{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.UserID,
	}, nil
}

// RefreshToken exchanges a refresh token for a fresh token pair.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.doUnauthenticated(ctx, http.MethodPost, "/auth/refresh", body, &resp); err != nil {
		return "", "", err
	}
	return resp.AccessToken, resp.RefreshToken, nil
}
