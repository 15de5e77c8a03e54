package generation

import (
	"context"
	"fmt"
)

// Token identifies one generation of one key.
type Token struct {
	Key        string `json:"key"`
	Generation uint64 `json:"generation"`
}

func (t Token) String() string { return fmt.Sprintf("%s@%d", t.Key, t.Generation) }

// Tracker hands out tokens and guards commits against supersession.
type Tracker struct {
	Store Store
}

// NewTracker returns a Tracker over store, or over a fresh MemoryStore when
// store is nil.
func NewTracker(store Store) *Tracker {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Tracker{Store: store}
}

// Begin starts a new generation for key, making all earlier tokens stale.
func (t *Tracker) Begin(ctx context.Context, key string) (Token, error) {
	gen, err := t.Store.Next(ctx, key)
	if err != nil {
		return Token{}, err
	}
	return Token{Key: key, Generation: gen}, nil
}

// Valid reports whether tok is still the current generation of its key.
func (t *Tracker) Valid(ctx context.Context, tok Token) (bool, error) {
	cur, err := t.Store.Current(ctx, tok.Key)
	if err != nil {
		return false, err
	}
	return cur == tok.Generation, nil
}

// Commit runs fn if tok is current and returns ErrStale otherwise.
//
// The check and fn are not atomic across processes: a Begin racing with
// Commit may let one last frame through. Callers that emit frames treat that
// frame as belonging to the old run, which is harmless because the newer run
// starts emitting immediately after.
func (t *Tracker) Commit(ctx context.Context, tok Token, fn func() error) error {
	ok, err := t.Valid(ctx, tok)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStale
	}
	return fn()
}
