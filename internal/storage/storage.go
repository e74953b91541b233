package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store remembers the last published fingerprint of each content item so a
// change is only announced once.
type Store interface {
	Close() error
	// Changed reports whether fingerprint differs from the one remembered for key.
	Changed(key, fingerprint string) (bool, error)
	Remember(key, fingerprint string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore remembers nothing, so every item always looks changed.
type noopStore struct{}

func (noopStore) Close() error                         { return nil }
func (noopStore) Changed(string, string) (bool, error) { return true, nil }
func (noopStore) Remember(string, string) error        { return nil }
