package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/mindengage-authoring/internal/content"
	"github.com/mind-engage/mindengage-authoring/internal/draft"
	"github.com/mind-engage/mindengage-authoring/internal/media"
	"github.com/mind-engage/mindengage-authoring/internal/publish"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var se *publish.SubmitError
	switch {
	case errors.Is(err, draft.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, content.ErrOutOfRange),
		errors.Is(err, content.ErrInvalidPath),
		errors.Is(err, content.ErrUnknownField),
		errors.Is(err, content.ErrInvalidInput),
		errors.Is(err, media.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, draft.ErrSessionClosed), errors.Is(err, draft.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &se):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(content.ErrInvalidInput, err)
	}
	return nil
}
