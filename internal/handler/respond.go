package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/security/middleware"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details map[string][]string `json:"details,omitempty"`
}

// MessageResponse acknowledges a write with no entity to return.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func statusFor(e *domain.Error) int {
	if e.Status >= 400 && e.Status < 600 {
		return e.Status
	}
	switch e.Kind {
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the one place domain errors become HTTP responses. Internal
// errors are logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Internal(err)
	}
	status := statusFor(de)

	attrs := []any{
		slog.String("request_id", chimw.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	switch {
	case status >= 500:
		log.Error("request failed", attrs...)
	case status == http.StatusNotFound || status == http.StatusForbidden:
		log.Info("request rejected", attrs...)
	default:
		log.Debug("request rejected", attrs...)
	}

	resp := ErrorResponse{Error: de.Message}
	if de.Kind == domain.KindValidation || de.Kind == domain.KindConflict {
		resp.Details = de.Details
	}
	writeJSON(w, status, resp)
}

// decodeJSON strictly decodes the request body into dst. An empty body, a
// malformed document and unknown fields are all bad requests.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.BadRequest("request body must be a JSON object")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return domain.BadRequest("request body must be a JSON object")
		case errors.As(err, &maxErr):
			return domain.BadRequest("request body too large")
		default:
			return &domain.Error{Kind: domain.KindBadRequest, Message: "invalid JSON body", Err: err}
		}
	}
	if dec.More() {
		return domain.BadRequest("request body must contain a single JSON object")
	}
	return nil
}

// pathID parses a positive integer route parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.BadRequest("invalid " + name)
	}
	return id, nil
}

// currentUser returns the authenticated caller. Routes using it sit behind
// the Authenticate middleware.
func currentUser(r *http.Request) (int64, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, domain.Unauthorized("authentication required")
	}
	return id, nil
}
