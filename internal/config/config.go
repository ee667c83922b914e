package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config represents the global ~/.ora/config.toml. Every field can be
// overridden by its ORA_* environment variable.
type Config struct {
	DefaultSession     string        `toml:"default_session" env:"ORA_SESSION"`
	ReplyDelay         time.Duration `toml:"reply_delay" env:"ORA_REPLY_DELAY"`
	WebSearchDefault   bool          `toml:"web_search_default" env:"ORA_WEB_SEARCH_DEFAULT"`
	MaxAttachmentBytes int64         `toml:"max_attachment_bytes" env:"ORA_MAX_ATTACHMENT_BYTES"`
	LogLevel           string        `toml:"log_level" env:"ORA_LOG_LEVEL"`
	MemoryStore        bool          `toml:"memory_store" env:"ORA_MEMORY_STORE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultSession:     "main",
		ReplyDelay:         650 * time.Millisecond,
		WebSearchDefault:   true,
		MaxAttachmentBytes: 5 << 20,
		LogLevel:           "warn",
	}
}

// Load reads config from the given path on top of the defaults. Returns an
// error if the file is missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads path when it exists, falls back to the defaults when it
// does not, and applies environment overrides last.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}
	return cfg, nil
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
