package shared

import (
	"errors"
	"fmt"
)

// InternalErrorDetail is the only failure text the browser ever sees for an
// upstream problem. Everything upstream-related collapses into this one shape,
// the real cause goes to the logs.
const InternalErrorDetail = "An internal error occurred while processing the request."

// RequestError is used when we want a specific error message and StatusCode.
// Sane defaults are listed below. Error codes should be bubbled where the
// RequestError msg is expected to be returned to the user. If the user should
// see a generic error message but the error chain should include more detail
// for logging purposes, then a generic error should be added that provides
// context
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

var (
	ErrMissingAuth   = &RequestError{Err: errors.New("missing authorization header"), StatusCode: 401}
	ErrInvalidFormat = &RequestError{Err: errors.New("invalid authentication format"), StatusCode: 401}

	ErrInvalidRequest = &RequestError{Err: errors.New("invalid request body"), StatusCode: 400}
	ErrEmptyMessage   = &RequestError{Err: errors.New("message must not be empty"), StatusCode: 400}

	ErrInternalServerError = &RequestError{Err: errors.New(InternalErrorDetail), StatusCode: 500}

	ErrTokenExchange   = &UpstreamError{Msg: "failed to obtain identity token", Code: "token_exchange_err"}
	ErrUpstreamRequest = &UpstreamError{Msg: "failed to send http request to generation service", Code: "upstream_http_err"}
	ErrUpstreamStatus  = &UpstreamError{Msg: "generation service responded with non-200", Code: "upstream_status_err"}
	ErrUpstreamPayload = &UpstreamError{Msg: "failed to read generation response", Code: "upstream_payload_err"}
	ErrEmptyResults    = &UpstreamError{Msg: "generation response contained no results", Code: "upstream_empty_results"}
)

// UpstreamError classifies inference failures for logging and metrics only.
// The gateway never distinguishes between these codes at its contract
// boundary, callers see a single opaque failure.
type UpstreamError struct {
	Msg  string
	Code string
}

func (u *UpstreamError) Error() string {
	return u.String()
}

func (u *UpstreamError) String() string {
	return u.Msg
}
