package scraper

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFetchError(t *testing.T) {
	t.Parallel()

	err := classifyFetchError("https://example.com/missing", 404, errors.New("Not Found"))
	assert.True(t, errors.Is(err, ErrNotFound))

	err = classifyFetchError("https://example.com/gone", 410, errors.New("Gone"))
	assert.True(t, errors.Is(err, ErrNotFound))

	err = classifyFetchError("https://example.com", 500, errors.New("Internal Server Error"))
	assert.False(t, errors.Is(err, ErrNotFound))
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 500, fetchErr.StatusCode)
}

func TestFetchErrorRetryable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *FetchError
		want bool
	}{
		{"server error", &FetchError{StatusCode: 503}, true},
		{"client error", &FetchError{StatusCode: 403}, false},
		{"not found", &FetchError{StatusCode: 404, Err: ErrNotFound}, false},
		{"timeout", &FetchError{Err: &net.DNSError{IsTimeout: true}}, true},
		{"network failure", &FetchError{Err: errors.New("connection refused")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.err.Retryable())
		})
	}
}

func TestIsUnreachable(t *testing.T) {
	t.Parallel()

	assert.True(t, isUnreachable(&FetchError{StatusCode: 404, Err: ErrNotFound}))
	assert.True(t, isUnreachable(&FetchError{Err: &net.DNSError{Name: "nosuchhost.invalid"}}))
	assert.False(t, isUnreachable(&FetchError{StatusCode: 500}))
	assert.False(t, isUnreachable(errors.New("connection reset")))
}

func TestErrorClassPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, IsInputError(fmt.Errorf("%w: empty input", ErrInvalidURL)))
	assert.False(t, IsInputError(ErrSiteUnreachable))
	assert.True(t, IsUnreachableError(fmt.Errorf("%w: dns failure", ErrSiteUnreachable)))
	assert.False(t, IsUnreachableError(ErrInvalidURL))
}

func TestFetchErrorMessage(t *testing.T) {
	t.Parallel()

	withStatus := &FetchError{URL: "https://example.com", StatusCode: 502}
	assert.Contains(t, withStatus.Error(), "status 502")

	withErr := &FetchError{URL: "https://example.com", Err: errors.New("boom")}
	assert.Contains(t, withErr.Error(), "boom")
}
