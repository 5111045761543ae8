package invoice

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidInvoiceState is returned by Submit when the draft has no client or no lines.
var ErrInvalidInvoiceState = errors.New("invoice needs a client and at least one line item")

// Sentinels matched by errors.Is against an *UpstreamError.
var (
	ErrUpstreamValidation   = errors.New("upstream rejected the request")
	ErrUpstreamUnauthorized = errors.New("not permitted")
	ErrUpstreamConflict     = errors.New("already exists")
	ErrUpstreamFailure      = errors.New("upstream failure")
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// UpstreamError is a failure reported by a collaborator, classified for display.
type UpstreamError struct {
	Kind    ErrorKind
	Action  string // e.g. "create the invoice"
	Message string // upstream message, shown verbatim for validation failures
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindValidation:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("validation failed while trying to %s", e.Action)
	case KindUnauthorized:
		return fmt.Sprintf("you are not permitted to %s", e.Action)
	case KindConflict:
		if e.Message != "" {
			return fmt.Sprintf("cannot %s: %s", e.Action, e.Message)
		}
		return fmt.Sprintf("cannot %s: it already exists", e.Action)
	default:
		if e.Message != "" {
			return fmt.Sprintf("failed to %s: %s", e.Action, e.Message)
		}
		return fmt.Sprintf("failed to %s", e.Action)
	}
}

func (e *UpstreamError) Unwrap() error {
	switch e.Kind {
	case KindValidation:
		return ErrUpstreamValidation
	case KindUnauthorized:
		return ErrUpstreamUnauthorized
	case KindConflict:
		return ErrUpstreamConflict
	default:
		return ErrUpstreamFailure
	}
}

// ClassifyStatus maps an HTTP status from a collaborator to an *UpstreamError.
// 2xx returns nil.
func ClassifyStatus(status int, action, message string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	kind := KindUnknown
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindUnauthorized
	case http.StatusConflict:
		kind = KindConflict
	}
	return &UpstreamError{Kind: kind, Action: action, Message: message}
}
