package ids

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

const (
	ShortLen = 8
	digits   = "0123456789"
	letters  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Short returns an 8-character key drawn from [0-9a-zA-Z]. Each position is a
// digit or a letter with equal odds. Not collision resistant; use it only for
// keys that live inside one editing session.
func Short() string {
	b := make([]byte, ShortLen)
	for i := range b {
		if rand.IntN(2) == 0 {
			b[i] = digits[rand.IntN(len(digits))]
		} else {
			b[i] = letters[rand.IntN(len(letters))]
		}
	}
	return string(b)
}

// NewDraftID returns a random UUID for anything that gets persisted.
func NewDraftID() string { return uuid.NewString() }

// Generator produces quiz keys. Tests swap in deterministic ones.
type Generator func() string
