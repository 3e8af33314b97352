package draft

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-authoring/internal/content"
	"github.com/mind-engage/mindengage-authoring/internal/ids"
	"github.com/mind-engage/mindengage-authoring/internal/logger"
	"github.com/mind-engage/mindengage-authoring/internal/media"
	syncx "github.com/mind-engage/mindengage-authoring/internal/sync"
)

const (
	EventSubmitted    = "DraftSubmitted"
	EventSubmitFailed = "DraftSubmitFailed"
)

type EventSink interface {
	Append(ctx context.Context, e syncx.Event) error
}

type Options struct {
	Store     Store
	Editor    content.Editor
	Images    media.DataURLReader // defaults to media.Encoder
	Submitter Submitter
	Events    EventSink // optional
	Log       *logger.Logger
	SiteID    string
	NewID     func() string // draft ids; defaults to ids.NewDraftID
}

// Service owns the live editing sessions and routes every edit through them.
type Service struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(o Options) *Service {
	if o.Store == nil {
		o.Store = NewMemoryStore()
	}
	if o.Images == nil {
		o.Images = media.Encoder{}
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	if o.NewID == nil {
		o.NewID = ids.NewDraftID
	}
	if o.SiteID == "" {
		o.SiteID = "local"
	}
	return &Service{opts: o, sessions: map[string]*Session{}}
}

func (s *Service) Create(ctx context.Context, owner string, seeded bool) (Draft, error) {
	now := time.Now().Unix()
	form := content.NewForm()
	if seeded {
		form = content.NewSeededForm(s.quizID())
	}
	d := Draft{ID: s.opts.NewID(), Owner: owner, Form: form, CreatedAt: now, UpdatedAt: now}
	if err := s.opts.Store.PutDraft(ctx, d); err != nil {
		return Draft{}, err
	}
	s.mu.Lock()
	s.sessions[d.ID] = NewSession(d, s.opts.Editor, s.opts.Store.PutDraft)
	s.mu.Unlock()
	s.opts.Log.Debug("draft created", "draft_id", d.ID, "owner", owner, "seeded", seeded)
	return d, nil
}

func (s *Service) quizID() string {
	if s.opts.Editor.NewID != nil {
		return s.opts.Editor.NewID()
	}
	return ids.Short()
}

// session returns the live session for id, reopening it from the store if
// needed.
func (s *Service) session(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}
	d, err := s.opts.Store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	sess = NewSession(d, s.opts.Editor, s.opts.Store.PutDraft)
	s.sessions[id] = sess
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (Draft, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		d := sess.Snapshot()
		if st, err := s.opts.Store.GetDraft(ctx, id); err == nil {
			d.SubmittedAt = st.SubmittedAt
		}
		return d, nil
	}
	return s.opts.Store.GetDraft(ctx, id)
}

func (s *Service) List(ctx context.Context, owner string) ([]Summary, error) {
	return s.opts.Store.ListDrafts(ctx, owner)
}

// Close ends the live session for id; the stored draft stays.
func (s *Service) Close(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		sess.Close()
	}
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.Close(id)
	return s.opts.Store.DeleteDraft(ctx, id)
}

func (s *Service) apply(ctx context.Context, id string, fn func(content.Editor, content.Form) (content.Form, error)) (Draft, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	return sess.Apply(ctx, fn)
}

func (s *Service) Update(ctx context.Context, id string, p content.Path, field content.Field, value string) (Draft, error) {
	return s.apply(ctx, id, func(ed content.Editor, f content.Form) (content.Form, error) {
		return ed.Update(f, p, field, value)
	})
}

// Append adds a defaulted child under parent (empty parent adds a section).
func (s *Service) Append(ctx context.Context, id string, parent content.Path) (Draft, error) {
	return s.apply(ctx, id, func(ed content.Editor, f content.Form) (content.Form, error) {
		return ed.Append(f, parent)
	})
}

func (s *Service) AppendQuestionFragment(ctx context.Context, id string, quiz content.Path) (Draft, error) {
	return s.apply(ctx, id, func(ed content.Editor, f content.Form) (content.Form, error) {
		if len(quiz) != 4 {
			return nil, content.ErrInvalidPath
		}
		return ed.AppendQuestionFragment(f, quiz[0], quiz[1], quiz[2], quiz[3])
	})
}

func (s *Service) MarkCorrect(ctx context.Context, id string, option content.Path) (Draft, error) {
	return s.apply(ctx, id, func(ed content.Editor, f content.Form) (content.Form, error) {
		return ed.MarkCorrect(f, option)
	})
}

func (s *Service) CaptureImage(ctx context.Context, id string, section int, f media.File) (<-chan CaptureResult, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.CaptureImage(ctx, section, f, s.opts.Images), nil
}

// Submit sends the current form as one request. The draft is left as is
// either way; a failure is logged, recorded and returned.
func (s *Service) Submit(ctx context.Context, id string) error {
	sess, err := s.session(ctx, id)
	if err != nil {
		return err
	}
	d := sess.Snapshot()
	log := s.opts.Log.With("draft_id", id, "sections", len(d.Form), "quizzes", d.Form.CountQuizzes())

	if err := content.ValidateCorrectness(d.Form, s.opts.Editor.Policy); err != nil {
		log.Warn("submit rejected", "error", err)
		return err
	}
	if s.opts.Submitter == nil {
		return errors.New("no submitter configured")
	}

	if err := s.opts.Submitter.Submit(ctx, d.Form); err != nil {
		log.Error("submit failed", "error", err)
		s.record(ctx, EventSubmitFailed, id, map[string]any{"error": err.Error()})
		return err
	}
	now := time.Now().Unix()
	if err := s.opts.Store.MarkSubmitted(ctx, id, now); err != nil {
		log.Warn("mark submitted", "error", err)
	}
	s.record(ctx, EventSubmitted, id, map[string]any{"quizzes": d.Form.CountQuizzes(), "submitted_at": now})
	log.Info("draft submitted")
	return nil
}

func (s *Service) record(ctx context.Context, typ, key string, data map[string]any) {
	if s.opts.Events == nil {
		return
	}
	b, _ := json.Marshal(data)
	err := s.opts.Events.Append(ctx, syncx.Event{SiteID: s.opts.SiteID, Type: typ, Key: key, DataJSON: string(b)})
	if err != nil {
		s.opts.Log.Warn("event append failed", "type", typ, "draft_id", key, "error", err)
	}
}
