package model

import (
	"sync"
	"time"
)

// FlashLevel is the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// Flash holds one transient notification.
type Flash struct {
	mu      sync.RWMutex
	message string
	level   FlashLevel
	expires time.Time
}

// Info shows msg for a few seconds.
func (f *Flash) Info(msg string) { f.Set(msg, FlashInfo, 4*time.Second) }

// Warn shows msg a little longer.
func (f *Flash) Warn(msg string) { f.Set(msg, FlashWarn, 8*time.Second) }

// Err shows err until replaced or ten seconds pass.
func (f *Flash) Err(err error) { f.Set(err.Error(), FlashErr, 10*time.Second) }

// Set stores a flash message that expires after d.
func (f *Flash) Set(msg string, level FlashLevel, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = msg
	f.level = level
	f.expires = time.Now().Add(d)
}

// Get returns the current message and level, or "" once expired.
func (f *Flash) Get() (string, FlashLevel) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if time.Now().After(f.expires) {
		return "", FlashInfo
	}
	return f.message, f.level
}
