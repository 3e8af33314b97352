package ids_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mind-engage/mindengage-authoring/internal/ids"
)

func TestShortShapeOverSample(t *testing.T) {
	for i := 0; i < 10000; i++ {
		s := ids.Short()
		if len(s) != ids.ShortLen {
			t.Fatalf("len(%q) = %d, want %d", s, len(s), ids.ShortLen)
		}
		for _, c := range s {
			ok := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
			if !ok {
				t.Fatalf("unexpected char %q in %q", c, s)
			}
		}
	}
}

func TestShortMixesDigitsAndLetters(t *testing.T) {
	var nDigit, nLetter int
	for i := 0; i < 2000; i++ {
		for _, c := range ids.Short() {
			if c >= '0' && c <= '9' {
				nDigit++
			} else {
				nLetter++
			}
		}
	}
	// 16000 draws at p=0.5; anything outside 40-60% means the weighting broke.
	total := nDigit + nLetter
	if nDigit*10 < total*4 || nDigit*10 > total*6 {
		t.Fatalf("digit share %d/%d out of range", nDigit, total)
	}
}

func TestNewDraftIDIsUUID(t *testing.T) {
	id := ids.NewDraftID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("parse %q: %v", id, err)
	}
	if id == ids.NewDraftID() {
		t.Fatal("expected distinct ids")
	}
}
