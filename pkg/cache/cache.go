// Package cache provides in-process result caching for the layout pipeline.
//
// Layout results are never persisted between sessions: the only real
// implementation is [MemoryCache], which lives as long as the process (one
// CLI invocation or one API server). [Disabled] turns caching off.
//
// Keys are derived by a [Keyer] from a content hash of the snapshot and the
// options that influence the result, so identical requests hit the cache and
// any change to either misses it.
package cache

import (
	"context"
	"time"
)

// Disabled returns a Cache that stores nothing: every Get misses and Set is
// dropped. It backs --no-cache and runners built without a cache.
func Disabled() Cache { return disabled{} }

type disabled struct{}

func (disabled) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (disabled) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (disabled) Delete(context.Context, string) error { return nil }

func (disabled) Close() error { return nil }

// Cache stores opaque byte payloads by key.
type Cache interface {
	// Get returns the data for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of a layout payload for a snapshot.
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of a rendered artifact for a layout payload.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the snapshot that determine a layout.
type LayoutKeyOpts struct {
	Algorithm string  `json:"algorithm"`
	Direction string  `json:"direction,omitempty"`
	Padding   float64 `json:"padding"`
	// OptionsHash covers every remaining tuning parameter.
	OptionsHash string `json:"options_hash"`
}

// ArtifactKeyOpts are the inputs besides the layout that determine an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine,omitempty"`
}
