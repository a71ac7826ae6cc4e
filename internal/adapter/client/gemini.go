package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"pbasc-assistant/internal/domain/entity"
	"time"

	"google.golang.org/genai"
)

// ChatFailureMessage is what callers see when the text API cannot be reached
// or answers with a non-2xx status.
const ChatFailureMessage = "Failed to connect to AI service"

type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	models geminiModels
	model  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the SDK's default endpoint. Empty keeps the default.
	BaseURL string
	Timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, entity.NewNotConfigured("text generation is not configured")
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: recordingTransport{base: http.DefaultTransport},
		},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return NewGeminiClientFromClient(c, cfg.Model), nil
}

func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	return &GeminiClient{
		models: c.Models,
		model:  model,
	}
}

// Generate sends message as the sole user part and returns
// candidates[0].content.parts[0].text.
func (g *GeminiClient) Generate(ctx context.Context, message string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(message, genai.RoleUser),
	}

	rec := &payloadRecorder{}
	result, err := g.models.GenerateContent(withPayloadRecorder(ctx, rec), g.model, contents, nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			re := entity.NewUpstream(ChatFailureMessage, err)
			re.Details = apiErr
			return "", re
		}
		// A 2xx whose body the SDK could not decode.
		var netErr net.Error
		if rec.ok() && ctx.Err() == nil && !errors.As(err, &netErr) {
			return "", entity.NewMalformedUpstream(rec.payload())
		}
		return "", entity.NewUpstream(ChatFailureMessage, err)
	}

	text, ok := firstCandidateText(result)
	if !ok {
		if rec.status != 0 {
			return "", entity.NewMalformedUpstream(rec.payload())
		}
		return "", entity.NewMalformedUpstream(stripHTTPResponse(result))
	}
	return text, nil
}

// stripHTTPResponse drops the SDK's copy of the upstream headers so they
// never reach the caller.
func stripHTTPResponse(result *genai.GenerateContentResponse) *genai.GenerateContentResponse {
	if result == nil {
		return nil
	}
	clean := *result
	clean.SDKHTTPResponse = nil
	return &clean
}

func firstCandidateText(result *genai.GenerateContentResponse) (string, bool) {
	if result == nil || len(result.Candidates) == 0 {
		return "", false
	}
	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", false
	}
	part := candidate.Content.Parts[0]
	if part == nil || part.Text == "" {
		return "", false
	}
	return part.Text, true
}

type payloadRecorderKey struct{}

// payloadRecorder keeps the status and raw body of the upstream response
// for a single Generate call.
type payloadRecorder struct {
	status int
	body   bytes.Buffer
}

func withPayloadRecorder(ctx context.Context, rec *payloadRecorder) context.Context {
	return context.WithValue(ctx, payloadRecorderKey{}, rec)
}

func (r *payloadRecorder) ok() bool {
	return r.status >= 200 && r.status < 300
}

// payload returns the body as JSON when it parses, otherwise as text.
func (r *payloadRecorder) payload() any {
	raw := bytes.TrimSpace(r.body.Bytes())
	if json.Valid(raw) {
		return json.RawMessage(bytes.Clone(raw))
	}
	return string(raw)
}

// recordingTransport tees response bodies into the payloadRecorder carried
// by the request context, if any.
type recordingTransport struct {
	base http.RoundTripper
}

func (t recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp == nil {
		return resp, err
	}
	rec, ok := req.Context().Value(payloadRecorderKey{}).(*payloadRecorder)
	if !ok {
		return resp, nil
	}
	rec.status = resp.StatusCode
	rec.body.Reset()
	resp.Body = teeReadCloser{Reader: io.TeeReader(resp.Body, &rec.body), Closer: resp.Body}
	return resp, nil
}

type teeReadCloser struct {
	io.Reader
	io.Closer
}
