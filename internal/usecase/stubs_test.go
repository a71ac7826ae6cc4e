package usecase

import (
	"context"
	"pbasc-assistant/internal/domain/entity"
)

type stubMailer struct {
	err   error
	sent  []entity.EmailMessage
	calls int
}

func (s *stubMailer) Send(_ context.Context, msg entity.EmailMessage) error {
	s.calls++
	s.sent = append(s.sent, msg)
	return s.err
}

type stubTextGen struct {
	out   string
	err   error
	got   []string
	calls int
}

func (s *stubTextGen) Generate(_ context.Context, message string) (string, error) {
	s.calls++
	s.got = append(s.got, message)
	return s.out, s.err
}

type stubImageGen struct {
	out   string
	err   error
	got   []string
	calls int
}

func (s *stubImageGen) GenerateImage(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.got = append(s.got, prompt)
	return s.out, s.err
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, clientKey string) (bool, error) {
	s.keys = append(s.keys, clientKey)
	return s.allowed, s.err
}

var testOptions = Options{Sender: "bot@pbasc.test", Recipient: "owner@pbasc.test"}
