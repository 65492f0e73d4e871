package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tourism-platform/internal/apperrors"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// errNoBody is returned by decodeJSON for an empty or JSON-null body.
var errNoBody = errors.New("empty request body")

// responder holds the shared JSON and error helpers of every handler.
type responder struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// sendJSON sends a JSON response
func (h responder) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// sendMessage sends {"error": message} with the given status.
func (h responder) sendMessage(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.sendError(w, r, apperrors.New(kindForStatus(statusCode), message).WithStatus(statusCode))
}

// sendError writes err as {"error", "code", "kind", ...details}. Errors that
// are not *apperrors.Error are reported as a generic 500.
func (h responder) sendError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := apperrors.HTTPStatus(err)
	endpoint := routeTemplate(r)

	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal("Internal server error", err)
	}

	body := make(map[string]interface{}, len(appErr.Details)+3)
	for k, v := range appErr.Details {
		body[k] = v
	}
	body["error"] = appErr.Message
	body["code"] = status
	body["kind"] = appErr.Kind

	fields := logging.Fields{
		"endpoint": endpoint,
		"status":   status,
		"kind":     string(appErr.Kind),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(ctx, "[API_ERROR] Request failed", fields, err)
	} else {
		h.logger.Debug(ctx, "[API_REJECTED] Request rejected", fields)
	}
	h.metrics.RecordAPIError(string(appErr.Kind), endpoint)

	h.sendJSON(w, body, status)
}

// decodeJSON reads a JSON object body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return errNoBody
	}
	return json.Unmarshal(raw, dst)
}

// queryFloat parses an optional numeric query parameter.
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.InvalidInput(name + " must be a number").WithDetail("value", raw)
	}
	return v, nil
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func kindForStatus(status int) apperrors.Kind {
	switch status {
	case http.StatusNotFound:
		return apperrors.KindNotFound
	case http.StatusBadRequest, http.StatusMethodNotAllowed:
		return apperrors.KindInvalidInput
	case http.StatusConflict:
		return apperrors.KindConflict
	case http.StatusUnauthorized:
		return apperrors.KindUnauthorized
	case http.StatusServiceUnavailable:
		return apperrors.KindServiceUnavailable
	default:
		return apperrors.KindInternal
	}
}
