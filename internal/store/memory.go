package store

import (
	"sort"

	"github.com/patrickmn/go-cache"
)

// MemoryBackend keeps values in process memory. Used for ephemeral
// namespaces and tests; nothing survives a restart.
type MemoryBackend struct {
	c *cache.Cache
}

// NewMemoryBackend creates an empty in-memory backend with no expiry.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{c: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryBackend) Get(key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

func (m *MemoryBackend) Put(key string, value []byte) error {
	b := make([]byte, len(value))
	copy(b, value)
	m.c.Set(key, b, cache.NoExpiration)
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.c.Delete(key)
	return nil
}

// Keys lists the stored keys in lexical order.
func (m *MemoryBackend) Keys() ([]string, error) {
	items := m.c.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
