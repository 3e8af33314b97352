package draft

import (
	"context"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-authoring/internal/content"
	"github.com/mind-engage/mindengage-authoring/internal/media"
)

// CommitFunc persists a draft after an edit. The edit is dropped if it fails.
type CommitFunc func(ctx context.Context, d Draft) error

// Session is one author's live view of a draft. Every edit replaces the whole
// form under mu; readers get immutable snapshots.
type Session struct {
	mu     sync.Mutex
	draft  Draft
	editor content.Editor
	commit CommitFunc
	closed bool

	seq   uint64
	picks map[int]uint64 // section -> newest image selection
}

func NewSession(d Draft, ed content.Editor, commit CommitFunc) *Session {
	return &Session{draft: d, editor: ed, commit: commit, picks: map[int]uint64{}}
}

func (s *Session) Snapshot() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Apply runs fn against the current form and commits its result.
func (s *Session) Apply(ctx context.Context, fn func(content.Editor, content.Form) (content.Form, error)) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Draft{}, ErrSessionClosed
	}
	next, err := fn(s.editor, s.draft.Form)
	if err != nil {
		return Draft{}, err
	}
	return s.commitLocked(ctx, next)
}

func (s *Session) commitLocked(ctx context.Context, f content.Form) (Draft, error) {
	d := s.draft
	d.Form = f
	d.UpdatedAt = time.Now().Unix()
	if s.commit != nil {
		if err := s.commit(ctx, d); err != nil {
			return Draft{}, err
		}
	}
	s.draft = d
	return d, nil
}

// Close ends the session. Image reads still in flight are discarded when they
// finish.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type CaptureResult struct {
	Section int
	DataURL string
	Err     error
}

// CaptureImage reads f through r off the caller's goroutine and stores the
// data URL as the section image. The returned channel yields exactly one
// result and is then closed. A result is committed only if the session is
// still open and no newer selection was made for the same section.
func (s *Session) CaptureImage(ctx context.Context, section int, f media.File, r media.DataURLReader) <-chan CaptureResult {
	out := make(chan CaptureResult, 1)
	done := func(res CaptureResult) {
		out <- res
		close(out)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		done(CaptureResult{Section: section, Err: ErrSessionClosed})
		return out
	}
	if _, err := content.Lookup(s.draft.Form, content.Path{section}); err != nil {
		s.mu.Unlock()
		done(CaptureResult{Section: section, Err: err})
		return out
	}
	s.seq++
	token := s.seq
	s.picks[section] = token
	s.mu.Unlock()

	go func() {
		url, err := r.ReadDataURL(ctx, f)
		if err != nil {
			done(CaptureResult{Section: section, Err: err})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case s.closed:
			err = ErrSessionClosed
		case s.picks[section] != token:
			err = ErrSuperseded
		default:
			var next content.Form
			next, err = s.editor.Update(s.draft.Form, content.Path{section}, content.FieldImage, url)
			if err == nil {
				_, err = s.commitLocked(context.WithoutCancel(ctx), next)
			}
		}
		if err != nil {
			done(CaptureResult{Section: section, Err: err})
			return
		}
		done(CaptureResult{Section: section, DataURL: url})
	}()
	return out
}
