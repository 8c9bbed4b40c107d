package domain

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNoCredentials   = errors.New("credential pool requires at least one secret")
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrPersonaNotFound = errors.New("persona document not found")
)

// QuotaError marks a provider rejection that is transient: another
// credential, or the same one later, may succeed.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string { return "quota exhausted: " + e.Err.Error() }
func (e *QuotaError) Unwrap() error { return e.Err }

// AuthError marks a rejected secret. Unlike quota errors it does not heal
// with time, so the owning credential is blocked immediately.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "authentication rejected: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// CallErrorKind is the rotation controller's view of a failed provider call.
type CallErrorKind int

const (
	CallErrorUnclassified CallErrorKind = iota
	CallErrorQuota
	CallErrorAuth
	CallErrorTimeout
)

var quotaMarkers = []string{
	"429",
	"quota",
	"rate limit",
	"rate_limit",
	"resource exhausted",
	"resource_exhausted",
}

var authMarkers = []string{
	"401",
	"403",
	"unauthorized",
	"forbidden",
	"permission denied",
	"api key not valid",
}

// ClassifyCallError decides how a failed call is handled. Typed errors from
// the provider adapter win; the substring markers are the documented
// contract for raw provider errors that reach the controller unwrapped.
func ClassifyCallError(err error) CallErrorKind {
	if err == nil {
		return CallErrorUnclassified
	}

	var quotaErr *QuotaError
	if errors.As(err, &quotaErr) {
		return CallErrorQuota
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return CallErrorAuth
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CallErrorTimeout
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return CallErrorQuota
		}
	}
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return CallErrorAuth
		}
	}

	return CallErrorUnclassified
}

// WrapProviderError converts a raw provider SDK error into the typed
// variant matching its markers. This is the only boundary where the
// provider's error strings are consulted.
func WrapProviderError(err error) error {
	if err == nil {
		return nil
	}

	switch ClassifyCallError(err) {
	case CallErrorQuota:
		return &QuotaError{Err: err}
	case CallErrorAuth:
		return &AuthError{Err: err}
	default:
		return err
	}
}
