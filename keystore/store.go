package keystore

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vitalvas/pqsig/envelope"
)

// Store is a concurrency-safe envelope.Keystore. Updates replace the whole
// key map under a write lock, so readers never see a partial reload.
type Store struct {
	mu     sync.RWMutex
	keys   map[string]envelope.PublicKey
	pinned map[string]envelope.PublicKey
	path   string
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report reloads.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPinned registers a key that survives every Replace and Reload.
// Pinned keys take precedence over file entries for the same source.
func WithPinned(source string, key envelope.PublicKey) Option {
	return func(s *Store) {
		if s.pinned == nil {
			s.pinned = make(map[string]envelope.PublicKey)
		}

		s.pinned[source] = key
	}
}

// New creates a Store holding a copy of keys.
func New(keys map[string]envelope.PublicKey, opts ...Option) *Store {
	s := &Store{logger: zerolog.Nop()}

	for _, opt := range opts {
		opt(s)
	}

	s.keys = s.merge(keys)

	return s
}

// merge returns a copy of keys with the pinned keys applied.
func (s *Store) merge(keys map[string]envelope.PublicKey) map[string]envelope.PublicKey {
	next := make(map[string]envelope.PublicKey, len(keys)+len(s.pinned))
	maps.Copy(next, keys)
	maps.Copy(next, s.pinned)

	return next
}

// Load creates a Store from the keystore file at path. The file is
// re-read by Reload.
func Load(path string, opts ...Option) (*Store, error) {
	s := New(nil, opts...)
	s.path = path

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads the keystore file and swaps in the new key set. On error
// the current keys are kept. Reload is a no-op for stores created by New.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	keys, err := Parse(data, filepath.Dir(s.path))
	if err != nil {
		return err
	}

	s.Replace(keys)

	s.logger.Info().
		Str("path", s.path).
		Int("sources", len(keys)).
		Msg("keystore loaded")

	return nil
}

// Replace swaps the whole key set in one step. Pinned keys are kept.
func (s *Store) Replace(keys map[string]envelope.PublicKey) {
	next := s.merge(keys)

	s.mu.Lock()
	s.keys = next
	s.mu.Unlock()
}

// Set registers or replaces the key of one source.
func (s *Store) Set(source string, key envelope.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.keys)
	next[source] = key
	s.keys = next
}

// Lookup implements envelope.Keystore.
func (s *Store) Lookup(source string) (envelope.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[source]
	if !ok || key == nil {
		return nil, false
	}

	return key, true
}

// Sources implements envelope.Keystore.
func (s *Store) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.keys))
}
