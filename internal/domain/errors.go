package domain

import "errors"

// Domain errors - business errors that the handler layer translates to
// HTTP status codes. Upstream failures are never retried; each is reported
// once to the caller.

var (
	// Upstream data API errors
	ErrUpstreamUnavailable = errors.New("codeforces api unreachable")
	ErrUpstreamRejected    = errors.New("codeforces api rejected the request")

	// Catalog errors
	ErrEmptyCatalog    = errors.New("problem catalog is empty")
	ErrProblemNotFound = errors.New("problem not found")

	// Scorer errors - always degraded locally, never fatal
	ErrScorerUnavailable = errors.New("recommendation scorer unreachable")

	// General errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
)

// UpstreamError carries the comment string the Codeforces API returns
// alongside a FAILED status.
type UpstreamError struct {
	Comment string
}

func (e *UpstreamError) Error() string {
	if e.Comment != "" {
		return "codeforces api: " + e.Comment
	}
	return ErrUpstreamRejected.Error()
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamRejected
}

// NewUpstreamError creates an UpstreamError from an API comment.
func NewUpstreamError(comment string) *UpstreamError {
	return &UpstreamError{Comment: comment}
}
