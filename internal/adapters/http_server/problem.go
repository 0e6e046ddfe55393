package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/domain"
)

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
	// ConflictingBookings lists "REF (from to to)" entries on booking clashes.
	ConflictingBookings []string `json:"conflicting_bookings,omitempty"`
}

func sendProblem(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	sendProblem(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

// writeError maps a service error onto a problem response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		de = &domain.Error{Kind: domain.KindPersistence, Code: domain.CodeStore, Err: err}
	}

	p := problem{Type: "about:blank", Code: de.Code, Detail: de.Msg}
	switch de.Kind {
	case domain.KindValidation:
		p.Status, p.Title = http.StatusBadRequest, "Bad Request"
	case domain.KindNotFound:
		p.Status, p.Title = http.StatusNotFound, "Not Found"
	case domain.KindConflict:
		p.Status, p.Title = http.StatusConflict, "Conflict"
		if de.Code == domain.CodeBookingConflict {
			p.ConflictingBookings = de.Refs
		}
	case domain.KindAuthorization:
		p.Status, p.Title = http.StatusForbidden, "Forbidden"
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		p.Status, p.Title, p.Detail = http.StatusInternalServerError, "Internal Server Error", "internal error"
	}
	sendProblem(w, p)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeJSON sends v with a weak ETag and honours If-None-Match on reads.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode response")
		return
	}
	if r.Method == http.MethodGet && etag != "" {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}
