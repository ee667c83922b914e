package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Backend is a durable key-value namespace holding raw bytes.
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Validator is implemented by stored shapes that can check themselves
// after decoding.
type Validator interface {
	Validate() error
}

// CorruptionError describes a stored value that could not be used.
type CorruptionError struct {
	Key string
	Err error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("stored value %q is corrupt: %v", e.Key, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// KV serializes values as JSON over a Backend. Reads never fail: anything
// unreadable is reported to the logger and treated as absent.
type KV struct {
	backend Backend
	logger  *zap.Logger
}

// NewKV wraps backend. A nil logger discards diagnostics.
func NewKV(backend Backend, logger *zap.Logger) *KV {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KV{backend: backend, logger: logger}
}

// Backend returns the underlying backend.
func (kv *KV) Backend() Backend {
	return kv.backend
}

// Read loads the value stored under key. The second result is false when
// the key is absent or its value is corrupt.
func Read[T any](kv *KV, key string) (T, bool) {
	var zero T
	raw, ok, err := kv.backend.Get(key)
	if err != nil {
		kv.corrupt(key, fmt.Errorf("backend read: %w", err))
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		kv.corrupt(key, err)
		return zero, false
	}
	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			kv.corrupt(key, err)
			return zero, false
		}
	}
	return out, true
}

// Write stores *value under key, or removes the key when value is nil.
// Every write replaces the whole value.
func Write[T any](kv *KV, key string, value *T) error {
	if value == nil {
		if err := kv.backend.Delete(key); err != nil {
			return fmt.Errorf("delete %q: %w", key, err)
		}
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := kv.backend.Put(key, raw); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (kv *KV) corrupt(key string, err error) {
	kv.logger.Warn("treating stored value as absent", zap.Error(&CorruptionError{Key: key, Err: err}))
}
