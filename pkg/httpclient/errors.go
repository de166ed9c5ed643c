package httpclient

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/NozadzeJaba/restorani/pkg/errors"
)

// StatusError represents a non-2xx response from a remote API that does not
// speak a structured error format. The raw body is kept for logging.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

// Unwrap maps well-known status codes onto the shared sentinel errors so
// callers can branch with errors.Is.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.Status == http.StatusBadRequest:
		return apperrors.ErrInvalidInput
	case e.Status >= 500:
		return apperrors.ErrServiceUnavail
	default:
		return nil
	}
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into a StatusError. The caller should only invoke this when
// resp.StatusCode indicates an error. The response body is fully consumed and
// closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	return &StatusError{
		Service: serviceName,
		Status:  resp.StatusCode,
		Body:    string(bodyBytes),
	}
}
