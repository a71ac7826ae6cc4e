package usecase

import (
	"context"
	"errors"
	"pbasc-assistant/internal/domain/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_SendsTrimmedSuggestion(t *testing.T) {
	m := &stubMailer{}
	o := NewOrchestrator(m, nil, nil, nil, nil, testOptions)

	err := o.Suggest(context.Background(), entity.SuggestionRequest{Suggestion: "  Offer payroll services  "})
	require.NoError(t, err)
	require.Len(t, m.sent, 1)

	msg := m.sent[0]
	assert.Equal(t, "bot@pbasc.test", msg.From)
	assert.Equal(t, "owner@pbasc.test", msg.To)
	assert.Equal(t, SuggestionSubject, msg.Subject)
	assert.Contains(t, msg.HTMLBody, `"Offer payroll services"`)
}

func TestSuggest_EmptySuggestionStillSent(t *testing.T) {
	m := &stubMailer{}
	o := NewOrchestrator(m, nil, nil, nil, nil, testOptions)

	require.NoError(t, o.Suggest(context.Background(), entity.SuggestionRequest{Suggestion: "   "}))
	assert.Equal(t, 1, m.calls)
}

func TestSuggest_MailerFailurePropagates(t *testing.T) {
	cause := entity.NewUpstream("Failed to send the suggestion", errors.New("535 authentication failed"))
	m := &stubMailer{err: cause}
	o := NewOrchestrator(m, nil, nil, nil, nil, testOptions)

	err := o.Suggest(context.Background(), entity.SuggestionRequest{Suggestion: "x"})
	require.ErrorIs(t, err, entity.ErrUpstream)
}

func TestSuggest_NoMailer(t *testing.T) {
	o := NewOrchestrator(nil, nil, nil, nil, nil, testOptions)

	err := o.Suggest(context.Background(), entity.SuggestionRequest{Suggestion: "x"})
	require.ErrorIs(t, err, entity.ErrNotConfigured)
}

func TestRenderSuggestionHTML_EscapesMarkup(t *testing.T) {
	body, err := RenderSuggestionHTML(`<script>alert("x")</script> & more`)
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "&amp; more")
	assert.Contains(t, body, "New Service Suggestion")
}
