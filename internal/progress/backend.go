package progress

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// Min and Max bound every stored progress value.
const (
	Min = 0
	Max = 100
)

// DefaultPrefix namespaces durable keys when no other prefix is configured.
const DefaultPrefix = "kpv"

// Clamp limits v to [Min, Max].
func Clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// Backend is durable key-value storage for per-topic progress.
type Backend interface {
	// LoadAll returns every stored value. Missing keys are simply absent.
	LoadAll(ctx context.Context) (map[string]int, error)

	// Put overwrites the stored value for id.
	Put(ctx context.Context, id string, progress int) error

	Close() error
}

// Keyspace maps topic ids to durable keys. Two instances with different
// prefixes never read each other's values.
type Keyspace struct {
	Prefix string
}

// NewKeyspace returns a keyspace for prefix, falling back to DefaultPrefix.
func NewKeyspace(prefix string) Keyspace {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keyspace{Prefix: prefix}
}

// Base is the portion shared by every key in this keyspace.
func (k Keyspace) Base() string {
	return k.Prefix + ":progress:"
}

// Key returns the durable key for a topic id.
func (k Keyspace) Key(id string) string {
	return k.Base() + id
}

// ID extracts the topic id from a durable key.
func (k Keyspace) ID(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, k.Base())
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// EncodeValue stringifies progress in base 10.
func EncodeValue(progress int) string {
	return strconv.Itoa(progress)
}

// DecodeValue parses a stored value. Unparsable values report false and
// are treated as absent.
func DecodeValue(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}

// MemoryBackend keeps values in process memory. It is used by tests and by
// the "memory" backend setting.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]int
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]int)}
}

func (m *MemoryBackend) LoadAll(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.values))
	for id, v := range m.values {
		out[id] = v
	}
	return out, nil
}

func (m *MemoryBackend) Put(ctx context.Context, id string, progress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[id] = progress
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
