// Package memo caches computed signatures by input text. Signatures are a
// pure function of their input, so entries never need invalidation.
package memo

import (
	"context"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/sha3"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("memo: store closed")

// Store is a concurrent-safe text to signature cache.
type Store interface {
	// Get returns the cached signature for text and whether it was present.
	Get(ctx context.Context, text string) (string, bool, error)
	// Put stores the signature for text, overwriting any previous value.
	Put(ctx context.Context, text, signature string) error
	// Close releases resources.
	Close() error
}

// Key derives the fixed-width storage key for input text.
func Key(text string) string {
	h := sha3.NewShake128()
	h.Write([]byte(text))
	buf := make([]byte, 24)
	h.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

// Open returns a SQLite memo at path, or an in-memory memo when path is empty.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemory(), nil
	}
	s, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
