package scraper

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Fatal pipeline error classes. Everything else degrades to absent data.
var (
	// ErrInvalidURL marks input that cannot be parsed into scheme+host.
	ErrInvalidURL = errors.New("invalid storefront url")

	// ErrSiteUnreachable marks a base URL that resolves to nothing: DNS
	// failure or a 404-class response on the homepage itself.
	ErrSiteUnreachable = errors.New("storefront unreachable")
)

// ErrNotFound classifies a 404/410 response. On secondary pages this is a
// normal negative result, never a fault.
var ErrNotFound = errors.New("resource not found")

// FetchError is the classified failure returned by the Fetcher after the
// retry budget is exhausted.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient: network errors,
// timeouts, and 5xx responses. 4xx responses are returned immediately.
func (e *FetchError) Retryable() bool {
	if e.StatusCode >= 500 {
		return true
	}
	if e.StatusCode >= 400 {
		return false
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return e.StatusCode == 0
}

func classifyFetchError(url string, statusCode int, err error) error {
	if statusCode == http.StatusNotFound || statusCode == http.StatusGone {
		return &FetchError{URL: url, StatusCode: statusCode, Err: ErrNotFound}
	}
	return &FetchError{URL: url, StatusCode: statusCode, Err: err}
}

// isUnreachable reports whether a homepage failure means the site itself is
// absent: DNS resolution failed or the base URL answered 404-class.
func isUnreachable(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// IsInputError reports whether err is the fatal input-error class.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidURL)
}

// IsUnreachableError reports whether err is the fatal target-unreachable
// class.
func IsUnreachableError(err error) bool {
	return errors.Is(err, ErrSiteUnreachable)
}
