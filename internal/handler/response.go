package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"error": "not_found", "message": "store not found with id 3"}
//
// Clients always know which fields to expect, whether it's a 400, 404 or 500.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/auth"
	"github.com/sakif/marketplace/internal/model"
)

// maxBodyBytes caps request bodies. Every request in this API is a handful
// of short fields.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Offending input field, if any
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be set BEFORE writing the body: once Encode calls
// w.Write, the headers are on the wire and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
// The service layer returns errors wrapping apperror sentinels and never
// knows about HTTP. This is the one place they become status codes:
//
//	ErrValidation                      → 400
//	ErrUnauthorized                    → 401
//	ErrForbidden                       → 403
//	ErrNotFound                        → 404
//	ErrConflict                        → 409
//	ErrInsufficientStock, ErrSameStore → 422
//
// errors.As walks the wrap chain built by the service's fmt.Errorf("%w")
// calls and pulls out the *AppError for its human-readable message.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		// Unknown error: never expose internals (SQL, paths) to the client.
		logger.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status := http.StatusInternalServerError
	errorType := "internal_error"

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
		errorType = "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusUnauthorized
		errorType = "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
		errorType = "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		errorType = "not_found"
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
		errorType = "conflict"
	case errors.Is(err, apperror.ErrInsufficientStock):
		status = http.StatusUnprocessableEntity
		errorType = "insufficient_stock"
	case errors.Is(err, apperror.ErrSameStore):
		status = http.StatusUnprocessableEntity
		errorType = "same_store"
	}

	writeJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}

// decodeJSON reads a JSON request body into dst. Malformed bodies and
// unknown fields come back as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("body", fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

// pathID parses the chi URL parameter name as a base-10 int64.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed(name, fmt.Sprintf("%s must be an integer, got %q", name, raw))
	}
	return id, nil
}

// sessionToken returns the token RequireSession resolved for this request.
// On routes outside that middleware it returns "", which the service
// rejects as unauthorized.
func sessionToken(r *http.Request) string {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return ""
	}
	return session.Token
}

// orEmpty keeps JSON list responses as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// storeView is the JSON shape of a store. The owner's password hash is
// already hidden by model.User's json tags; products is never null.
type storeView struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Owner     model.User      `json:"owner"`
	Products  []model.Product `json:"products"`
	CreatedAt time.Time       `json:"createdAt"`
}

func newStoreView(s model.Store) storeView {
	return storeView{
		ID:        s.ID,
		Name:      s.Name,
		Owner:     s.Owner,
		Products:  orEmpty(s.Products),
		CreatedAt: s.CreatedAt,
	}
}

func newStoreViews(stores []model.Store) []storeView {
	out := make([]storeView, 0, len(stores))
	for _, s := range stores {
		out = append(out, newStoreView(s))
	}
	return out
}
