package storage

import (
	"errors"
	"io"
)

var ErrBadKey = errors.New("bad blob key")

// BlobStore keeps the raw bytes of uploaded section images.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	// DeletePrefix removes every blob under prefix. A missing prefix is not an error.
	DeletePrefix(prefix string) error
}
