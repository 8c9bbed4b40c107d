package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCallErrorMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want CallErrorKind
	}{
		{name: "nil", err: nil, want: CallErrorUnclassified},
		{name: "http 429", err: errors.New("googleapi: Error 429: Resource has been exhausted"), want: CallErrorQuota},
		{name: "quota word", err: errors.New("Quota exceeded for requests per minute"), want: CallErrorQuota},
		{name: "rate limit", err: errors.New("rate limit reached, retry later"), want: CallErrorQuota},
		{name: "resource exhausted", err: errors.New("rpc error: code = ResourceExhausted desc = resource exhausted"), want: CallErrorQuota},
		{name: "http 401", err: errors.New("401 unauthorized"), want: CallErrorAuth},
		{name: "http 403", err: errors.New("Error 403: caller does not have permission"), want: CallErrorAuth},
		{name: "forbidden", err: errors.New("request forbidden by provider"), want: CallErrorAuth},
		{name: "invalid key", err: errors.New("API key not valid. Please pass a valid API key."), want: CallErrorAuth},
		{name: "deadline", err: context.DeadlineExceeded, want: CallErrorTimeout},
		{name: "wrapped deadline", err: fmt.Errorf("generate: %w", context.DeadlineExceeded), want: CallErrorTimeout},
		{name: "generic network failure", err: errors.New("connection reset by peer"), want: CallErrorUnclassified},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ClassifyCallError(tc.err))
		})
	}
}

func TestClassifyCallErrorPrefersTypedVariants(t *testing.T) {
	t.Parallel()

	// The wrapped message mentions no marker; the type alone decides.
	quota := &QuotaError{Err: errors.New("provider said no")}
	assert.Equal(t, CallErrorQuota, ClassifyCallError(quota))
	assert.Equal(t, CallErrorQuota, ClassifyCallError(fmt.Errorf("attempt 2: %w", quota)))

	auth := &AuthError{Err: errors.New("provider said no")}
	assert.Equal(t, CallErrorAuth, ClassifyCallError(auth))
}

func TestWrapProviderError(t *testing.T) {
	t.Parallel()

	var quotaErr *QuotaError
	assert.ErrorAs(t, WrapProviderError(errors.New("429 too many requests")), &quotaErr)

	var authErr *AuthError
	assert.ErrorAs(t, WrapProviderError(errors.New("403 forbidden")), &authErr)

	plain := errors.New("connection reset by peer")
	assert.Equal(t, plain, WrapProviderError(plain))
	assert.NoError(t, WrapProviderError(nil))
}
