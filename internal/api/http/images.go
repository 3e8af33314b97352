package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-authoring/internal/content"
	"github.com/mind-engage/mindengage-authoring/internal/draft"
	"github.com/mind-engage/mindengage-authoring/internal/ids"
	"github.com/mind-engage/mindengage-authoring/internal/media"
)

// blobPrefix holds every archived blob of one draft.
func blobPrefix(draftID string) string {
	return path.Join("drafts", draftID)
}

// POST /drafts/{draftID}/sections/{section}/image  (multipart field "file")
func (a *DraftAPI) uploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "draftID")
	section, err := strconv.Atoi(chi.URLParam(r, "section"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: section %q", content.ErrInvalidPath, chi.URLParam(r, "section")))
		return
	}
	max := a.ImageMaxBytes
	if max <= 0 {
		max = media.DefaultMaxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, max+1<<20)

	f, hdr, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if int64(len(raw)) > max {
		writeError(w, fmt.Errorf("%w: %s", media.ErrTooLarge, hdr.Filename))
		return
	}

	file := media.File{Name: hdr.Filename, ContentType: hdr.Header.Get("Content-Type"), Body: bytes.NewReader(raw)}
	ch, err := a.Service.CaptureImage(r.Context(), id, section, file)
	if err != nil {
		writeError(w, err)
		return
	}

	var res draft.CaptureResult
	select {
	case res = <-ch:
	case <-r.Context().Done():
		// the capture still resolves; the session decides whether it lands
		return
	}
	if res.Err != nil {
		writeError(w, res.Err)
		return
	}

	resp := map[string]any{"section": res.Section, "bytes": len(raw)}
	if a.Blobs != nil {
		key := path.Join(blobPrefix(id), "sections", strconv.Itoa(section), ids.Short()+path.Ext(hdr.Filename))
		if _, err := a.Blobs.Put(key, bytes.NewReader(raw)); err != nil {
			a.Log.Warn("archive section image", "draft_id", id, "key", key, "error", err)
		} else {
			resp["key"] = key
		}
	}
	a.Log.Debug("section image captured", "draft_id", id, "section", section, "image", res.DataURL)
	writeJSON(w, http.StatusOK, resp)
}
