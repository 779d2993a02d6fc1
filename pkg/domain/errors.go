package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrRouteNotFound       = errors.New("route not found")
	ErrReleaseNotFound     = errors.New("release not found")
	ErrDuplicateRelease    = errors.New("release already exists")
	ErrExternalAPIFailure  = errors.New("external API failure")
	ErrUpstreamUnavailable = errors.New("upstream temporarily unavailable")
	ErrImageHostNotAllowed = errors.New("image host not allowed")
)

// UpstreamKind classifies why a call to a third-party API failed.
type UpstreamKind string

const (
	UpstreamTransport UpstreamKind = "transport"
	UpstreamStatus    UpstreamKind = "status"
	UpstreamMalformed UpstreamKind = "malformed"
	UpstreamAPI       UpstreamKind = "api"
)

type UpstreamError struct {
	Kind       UpstreamKind
	StatusCode int
	Code       int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case UpstreamStatus:
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	case UpstreamAPI:
		return fmt.Sprintf("upstream error %d: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("upstream %s error: %s", e.Kind, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets callers match any upstream failure with ErrExternalAPIFailure.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrExternalAPIFailure
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
