// Package status provides the run status store: a flat key=value record that
// every stage updates and the external notifier reads after (or during) a run.
//
// Each key holds exactly one current value. A write to an existing key removes
// the old assignment and appends the new one, and FileStore persists the whole
// record after every mutation so a crash leaves the best-known partial state.
package status

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mrz1836/shipyard/internal/constants"
	shipyarderrors "github.com/mrz1836/shipyard/internal/errors"
)

// Store defines the status persistence operations used by the pipeline.
type Store interface {
	// Set upserts key and makes the change durable before returning.
	Set(ctx context.Context, key, value string) error

	// Get returns the current value for key.
	Get(key string) (string, bool)

	// Persist writes the full current record to durable storage.
	Persist(ctx context.Context) error

	// Entries returns the record in its persisted order.
	Entries() []Entry
}

// Entry is a single key=value assignment.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Key builds a per-target key such as "p2g_tests".
func Key(code, suffix string) string {
	return code + suffix
}

// PackageKey returns the bundle/package outcome key for a target.
func PackageKey(code string) string { return Key(code, constants.KeySuffixPackage) }

// TestsKey returns the test outcome key for a target.
func TestsKey(code string) string { return Key(code, constants.KeySuffixTests) }

// DocsKey returns the documentation outcome key for a target.
func DocsKey(code string) string { return Key(code, constants.KeySuffixDocs) }

// PublishedKey returns the TRUE/FALSE publish flag key for a target.
func PublishedKey(code string) string { return Key(code, constants.KeySuffixPublished) }

// ValidateKey rejects keys that cannot round-trip through a key=value line.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key %w", shipyarderrors.ErrInvalidStatusKey, shipyarderrors.ErrEmptyValue)
	}
	if strings.ContainsAny(key, "=\n\r") {
		return fmt.Errorf("%w: %q", shipyarderrors.ErrInvalidStatusKey, key)
	}
	return nil
}

// record is an insertion-ordered map. Updating a key moves it to the end.
type record struct {
	keys   []string
	values map[string]string
}

func newRecord() *record {
	return &record{values: make(map[string]string)}
}

func (r *record) set(key, value string) {
	if _, ok := r.values[key]; ok {
		for i, k := range r.keys {
			if k == key {
				r.keys = append(r.keys[:i], r.keys[i+1:]...)
				break
			}
		}
	}
	r.keys = append(r.keys, key)
	r.values[key] = value
}

func (r *record) get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *record) entries() []Entry {
	out := make([]Entry, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, Entry{Key: k, Value: r.values[k]})
	}
	return out
}

// MemoryStore is an in-process Store with no durable backing.
// Persist is a no-op; it is used by tests and by dry runs.
type MemoryStore struct {
	mu  sync.Mutex
	rec *record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rec: newRecord()}
}

// Set upserts key.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec.set(key, value)
	return nil
}

// Get returns the current value for key.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.get(key)
}

// Persist is a no-op for MemoryStore.
func (m *MemoryStore) Persist(_ context.Context) error {
	return nil
}

// Entries returns the record in insertion order.
func (m *MemoryStore) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.entries()
}

// Ensure both implementations satisfy Store.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)
