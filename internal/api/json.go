package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/dashboard"
	"github.com/starford/fms/internal/gateway"
	"github.com/starford/fms/internal/opsservice"
)

const maxBodyBytes = 1 << 20

// writeJSON encodes v before writing the status; an unencodable value is sent
// as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"internal error"}` + "\n")
		w.Header().Del("ETag")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeTagged writes v with its ETag.
func writeTagged(w http.ResponseWriter, status int, v any) {
	w.Header().Set("ETag", `"`+opsservice.ETag(v)+`"`)
	writeJSON(w, status, v)
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

func ifMatch(r *http.Request) string {
	return strings.Trim(r.Header.Get("If-Match"), `"`)
}

// writeServiceError maps service and gateway errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var httpErr *gateway.HTTPError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("conflict"))
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, dashboard.ErrZeroPrior):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("prior period is zero"))
	case errors.Is(err, dashboard.ErrNonFinite):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("values must be finite"))
	case errors.Is(err, apperr.ErrUnsupported):
		writeJSON(w, http.StatusNotImplemented, errorBody("not available on the remote read path"))
	case errors.As(err, &httpErr), errors.Is(err, gateway.ErrUpstream):
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("upstream error"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// deliver runs a remote-capable read and writes the result only while the
// requesting client is still connected.
func deliver[T any](w http.ResponseWriter, r *http.Request, op string, fetch func(context.Context) (T, error)) {
	deliverWith(w, r, op, fetch, writeJSON)
}

// deliverTagged is deliver for single entities that carry an ETag.
func deliverTagged[T any](w http.ResponseWriter, r *http.Request, op string, fetch func(context.Context) (T, error)) {
	deliverWith(w, r, op, fetch, writeTagged)
}

func deliverWith[T any](w http.ResponseWriter, r *http.Request, op string, fetch func(context.Context) (T, error), write func(http.ResponseWriter, int, any)) {
	view := gateway.ViewFor(r.Context())
	_, err := gateway.Deliver(r.Context(), view, fetch, func(v T) {
		write(w, http.StatusOK, v)
	})
	if err != nil && view.Alive() {
		writeServiceError(w, op, err)
	}
}
