package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"venue/pkg/store"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, APIError{Code: code, Message: message})
}

// WriteValidation reports field errors with 400 VALIDATION_FAILED.
func WriteValidation(w http.ResponseWriter, fields map[string]string) {
	writeEnvelope(w, http.StatusBadRequest, APIError{
		Code:    "VALIDATION_FAILED",
		Message: "please correct the highlighted fields",
		Fields:  fields,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, e APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Error: e})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteStoreError maps a failed call to the reservation API. Anything not
// recognised becomes the generic "try again" answer; no retry is attempted.
func WriteStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	entry := Log(r.Context()).WithError(err).WithField("op", op)

	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidation(w, verr.Fields)
	case store.IsNotFound(err):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	case store.IsRejected(err):
		entry.Warn("store rejected request")
		WriteError(w, http.StatusUnprocessableEntity, "STORE_REJECTED", "the request was rejected, check the values and try again")
	case store.IsUnauthorized(err):
		entry.Warn("store refused token")
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "store session is no longer valid, sign in again")
	case errors.Is(err, context.Canceled):
		entry.Info("client went away")
	default:
		entry.Error("store call failed")
		WriteError(w, http.StatusBadGateway, "STORE_UNAVAILABLE", "request failed, try again")
	}
}

func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

// PathID parses the {id} URL parameter. On failure it writes a 400 and
// returns false.
func PathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return 0, false
	}
	return id, true
}
