// Package config reads and writes the global ~/.htly/config.toml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults match the backend's development setup and the poll cadences the
// web client shipped with.
const (
	DefaultAPIBaseURL   = "http://localhost:5001/api"
	DefaultSocketURL    = "ws://localhost:5001/socket"
	DefaultFeedPoll     = 10 * time.Second
	DefaultChatListPoll = 5 * time.Second
	DefaultMessagePoll  = 3 * time.Second
)

// Config represents the global config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	APIBaseURL     string `toml:"api_base_url"`
	SocketURL      string `toml:"socket_url"`

	// Poll intervals in seconds; zero means use the default.
	FeedPollSec     int `toml:"feed_poll_sec"`
	ChatListPollSec int `toml:"chat_list_poll_sec"`
	MessagePollSec  int `toml:"message_poll_sec"`
}

// Load reads config from the given path. Returns zero config and error if
// the file is missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.SocketURL == "" {
		c.SocketURL = DefaultSocketURL
	}
}

// FeedPoll returns the feed poll interval.
func (c *Config) FeedPoll() time.Duration {
	return orDefault(c.FeedPollSec, DefaultFeedPoll)
}

// ChatListPoll returns the conversation list poll interval.
func (c *Config) ChatListPoll() time.Duration {
	return orDefault(c.ChatListPollSec, DefaultChatListPoll)
}

// MessagePoll returns the open-thread poll interval.
func (c *Config) MessagePoll() time.Duration {
	return orDefault(c.MessagePollSec, DefaultMessagePoll)
}

func orDefault(sec int, def time.Duration) time.Duration {
	if sec <= 0 {
		return def
	}
	return time.Duration(sec) * time.Second
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
