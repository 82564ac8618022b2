// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/collection"
	"github.com/kemujan/hubcms/internal/keypath"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Response is the standard success body.
type Response struct {
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response wrapping data and meta.
func WriteSuccess(w http.ResponseWriter, data, meta any) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// WriteValidationError writes a 422 response for a rejected field.
func WriteValidationError(w http.ResponseWriter, ve *apperr.ValidationError) {
	details := map[string]string{}
	if ve.Field != "" {
		details[ve.Field] = ve.Code
	}
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", ve.Error(), details)
}

// writeErr maps an engine error to an HTTP error response. Unexpected
// errors are logged and reported as 500 without detail.
func writeErr(w http.ResponseWriter, logger *slog.Logger, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		WriteValidationError(w, ve)
		return
	}
	switch {
	case errors.Is(err, keypath.ErrPathResolution), errors.Is(err, keypath.ErrInvalidPath):
		WriteError(w, http.StatusUnprocessableEntity, "invalid_path", err.Error(), nil)
	case errors.Is(err, apperr.ErrUnknownSection), errors.Is(err, apperr.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, apperr.ErrNotAuthenticated):
		WriteError(w, http.StatusUnauthorized, "not_authenticated", "Login required", nil)
	case errors.Is(err, apperr.ErrUnsupported):
		WriteError(w, http.StatusBadRequest, "unsupported", err.Error(), nil)
	case errors.Is(err, apperr.ErrRemote):
		WriteError(w, http.StatusBadGateway, "remote_error", err.Error(), nil)
	default:
		logger.Error("request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}

// decodeJSON reads a JSON body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json", fmt.Sprintf("Invalid request body: %v", err), nil)
		return false
	}
	return true
}

// parseIDParam reads the {id} URL parameter and writes a 400 on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "invalid_id", "Invalid ID", nil)
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, returning def when it is
// absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return def
}

// deleteConfirmed reports whether the request carries ?confirm=yes.
func deleteConfirmed(r *http.Request) bool {
	return r.URL.Query().Get(ParamConfirm) == confirmYes
}

// deleteResult is the body returned by delete endpoints.
type deleteResult struct {
	Deleted  bool   `json:"deleted"`
	Declined bool   `json:"declined,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// staleListWarning is reported when a change was applied but the
// collection could not be reloaded afterwards.
const staleListWarning = "change saved, but the list could not be reloaded and may be out of date"

// splitReload separates a failed reload after an applied change from a
// failed change. A non-empty warning means the change went through.
func splitReload(err error) (warning string, failure error) {
	if errors.Is(err, collection.ErrReloadFailed) {
		return staleListWarning, nil
	}
	return "", err
}
