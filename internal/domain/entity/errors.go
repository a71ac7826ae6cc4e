package entity

import (
	"errors"
	"fmt"
)

// Standard domain errors
var (
	ErrInvalidInput      = errors.New("invalid request parameters")
	ErrNotConfigured     = errors.New("required configuration is missing")
	ErrUpstream          = errors.New("upstream service failed")
	ErrMalformedUpstream = errors.New("upstream response malformed")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Kind classifies a RelayError so the delivery layer can pick a status code.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindNotConfigured     Kind = "not_configured"
	KindUpstream          Kind = "upstream"
	KindMalformedUpstream Kind = "malformed_upstream"
	KindRateLimited       Kind = "rate_limited"
)

var kindSentinels = map[Kind]error{
	KindInvalidInput:      ErrInvalidInput,
	KindNotConfigured:     ErrNotConfigured,
	KindUpstream:          ErrUpstream,
	KindMalformedUpstream: ErrMalformedUpstream,
	KindRateLimited:       ErrRateLimitExceeded,
}

// RelayError is the typed result of every outbound call wrapper.
// Message is safe to show to the caller; Details is optional diagnostic
// payload (raw upstream body, error text).
type RelayError struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUpstream) match any RelayError of that kind.
func (e *RelayError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func NewInvalidInput(msg string) *RelayError {
	return &RelayError{Kind: KindInvalidInput, Message: msg}
}

func NewNotConfigured(msg string) *RelayError {
	return &RelayError{Kind: KindNotConfigured, Message: msg}
}

func NewUpstream(msg string, err error) *RelayError {
	re := &RelayError{Kind: KindUpstream, Message: msg, Err: err}
	if err != nil {
		re.Details = err.Error()
	}
	return re
}

func NewMalformedUpstream(payload any) *RelayError {
	return &RelayError{Kind: KindMalformedUpstream, Message: ErrMalformedUpstream.Error(), Details: payload}
}

func NewRateLimited() *RelayError {
	return &RelayError{Kind: KindRateLimited, Message: ErrRateLimitExceeded.Error()}
}

// KindOf reports the kind of a RelayError anywhere in err's chain.
// Anything else is treated as an upstream failure.
func KindOf(err error) Kind {
	var re *RelayError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUpstream
}
