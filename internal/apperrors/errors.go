package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInvalidInput       Kind = "invalid_input"
	KindConflict           Kind = "conflict"
	KindUnauthorized       Kind = "unauthorized"
	KindServiceUnavailable Kind = "service_unavailable"
	KindUpstream           Kind = "upstream_error"
	KindInsufficientData   Kind = "insufficient_data"
	KindInternal           Kind = "internal"
)

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUpstream           = errors.New("upstream error")
	ErrInsufficientData   = errors.New("insufficient data")
	ErrInternal           = errors.New("internal error")
)

var sentinels = map[Kind]error{
	KindNotFound:           ErrNotFound,
	KindInvalidInput:       ErrInvalidInput,
	KindConflict:           ErrConflict,
	KindUnauthorized:       ErrUnauthorized,
	KindServiceUnavailable: ErrServiceUnavailable,
	KindUpstream:           ErrUpstream,
	KindInsufficientData:   ErrInsufficientData,
	KindInternal:           ErrInternal,
}

// Error is the single error type crossing the service/handler boundary.
// Message is safe to show to clients. Details are merged into the JSON body.
// Status, when non-zero, overrides the status derived from Kind.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// IsTransient reports whether retrying the operation later could succeed.
func (e *Error) IsTransient() bool {
	return e.Kind == KindServiceUnavailable || e.Kind == KindUpstream
}

// WithDetail adds a key to the response body and returns e.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithStatus overrides the HTTP status derived from the kind.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error     { return New(KindNotFound, message) }
func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func InsufficientData(message string) *Error {
	return New(KindInsufficientData, message)
}

func ServiceUnavailable(message string, err error) *Error {
	return Wrap(KindServiceUnavailable, message, err)
}

func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if appErr.Status != 0 {
		return appErr.Status
	}

	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput, KindInsufficientData:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
