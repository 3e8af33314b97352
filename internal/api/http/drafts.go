package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-authoring/internal/auth/middleware"
	"github.com/mind-engage/mindengage-authoring/internal/content"
	"github.com/mind-engage/mindengage-authoring/internal/draft"
	"github.com/mind-engage/mindengage-authoring/internal/logger"
	"github.com/mind-engage/mindengage-authoring/internal/rbac"
	"github.com/mind-engage/mindengage-authoring/internal/storage"
	syncx "github.com/mind-engage/mindengage-authoring/internal/sync"
)

// EventLister is the read side of the event log.
type EventLister interface {
	ListByKey(ctx context.Context, key string, limit int) ([]syncx.Event, error)
}

type DraftAPI struct {
	Service       *draft.Service
	Blobs         storage.BlobStore // optional; raw image bytes are archived here
	Events        EventLister       // optional
	Log           *logger.Logger
	ImageMaxBytes int64
}

// Mount registers the draft routes on r. Callers put auth in front.
func (a *DraftAPI) Mount(r chi.Router) {
	if a.Log == nil {
		a.Log = logger.Nop()
	}
	r.With(rbac.Require(rbac.PermDraftCreate)).Post("/", a.create)
	r.With(rbac.Require(rbac.PermDraftView)).Get("/", a.list)

	r.Route("/{draftID}", func(dr chi.Router) {
		dr.Use(a.ownerOnly)
		dr.With(rbac.Require(rbac.PermDraftView)).Get("/", a.get)
		dr.With(rbac.Require(rbac.PermDraftDelete)).Delete("/", a.remove)
		dr.With(rbac.RequireAny(rbac.PermDraftView, rbac.PermEventsView)).Get("/events", a.events)

		dr.Group(func(er chi.Router) {
			er.Use(rbac.Require(rbac.PermDraftEdit))
			er.Patch("/field", a.updateField)
			er.Post("/sections", a.appendAt(0))
			er.Post("/units", a.appendAt(1))
			er.Post("/levels", a.appendAt(2))
			er.Post("/quizzes", a.appendAt(3))
			er.Post("/options", a.appendAt(4))
			er.Post("/fragments", a.appendFragment)
			er.Post("/correct", a.markCorrect)
			er.Post("/sections/{section}/image", a.uploadImage)
		})
		dr.With(rbac.Require(rbac.PermDraftSubmit)).Post("/submit", a.submit)
	})
}

// ownerOnly hides other authors' drafts unless the role may see them all.
func (a *DraftAPI) ownerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rbac.Can(r.Context(), rbac.PermDraftViewAll) {
			next.ServeHTTP(w, r)
			return
		}
		d, err := a.Service.Get(r.Context(), chi.URLParam(r, "draftID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if d.Owner != auth.SubjectFromContext(r.Context()) {
			writeError(w, draft.ErrNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *DraftAPI) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seeded bool `json:"seeded"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	d, err := a.Service.Create(r.Context(), auth.SubjectFromContext(r.Context()), req.Seeded)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *DraftAPI) list(w http.ResponseWriter, r *http.Request) {
	owner := auth.SubjectFromContext(r.Context())
	if rbac.Can(r.Context(), rbac.PermDraftViewAll) {
		owner = r.URL.Query().Get("owner")
	}
	out, err := a.Service.List(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *DraftAPI) get(w http.ResponseWriter, r *http.Request) {
	d, err := a.Service.Get(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *DraftAPI) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "draftID")
	if err := a.Service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if a.Blobs != nil {
		if err := a.Blobs.DeletePrefix(blobPrefix(id)); err != nil {
			a.Log.Warn("remove archived images", "draft_id", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *DraftAPI) events(w http.ResponseWriter, r *http.Request) {
	if a.Events == nil {
		writeJSON(w, http.StatusOK, []syncx.Event{})
		return
	}
	evs, err := a.Events.ListByKey(r.Context(), chi.URLParam(r, "draftID"), 100)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evs)
}

type pathReq struct {
	Path content.Path `json:"path"`
}

func (a *DraftAPI) updateField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path  content.Path  `json:"path"`
		Field content.Field `json:"field"`
		Value string        `json:"value"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	d, err := a.Service.Update(r.Context(), chi.URLParam(r, "draftID"), req.Path, req.Field, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// appendAt adds a child under the parent named by the body path, which must
// have the given depth (0 for sections).
func (a *DraftAPI) appendAt(depth int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pathReq
		if r.ContentLength != 0 {
			if err := decode(r, &req); err != nil {
				writeError(w, err)
				return
			}
		}
		if len(req.Path) != depth {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "path must name the parent", "want_depth": depth})
			return
		}
		d, err := a.Service.Append(r.Context(), chi.URLParam(r, "draftID"), req.Path)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

func (a *DraftAPI) appendFragment(w http.ResponseWriter, r *http.Request) {
	var req pathReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	d, err := a.Service.AppendQuestionFragment(r.Context(), chi.URLParam(r, "draftID"), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *DraftAPI) markCorrect(w http.ResponseWriter, r *http.Request) {
	var req pathReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	d, err := a.Service.MarkCorrect(r.Context(), chi.URLParam(r, "draftID"), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *DraftAPI) submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "draftID")
	if err := a.Service.Submit(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	d, err := a.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submitted": true, "submitted_at": d.SubmittedAt})
}
