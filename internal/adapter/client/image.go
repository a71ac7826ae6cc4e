package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"pbasc-assistant/internal/domain/entity"
	"time"
)

const ImageFailureMessage = "Failed to generate image"

// Fixed generation parameters sent with every prompt.
const (
	imageCFGScale = 7
	imageHeight   = 1024
	imageWidth    = 1024
	imageSamples  = 1
	imageSteps    = 30
)

type textPrompt struct {
	Text string `json:"text"`
}

type imageRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CFGScale    float64      `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type imageArtifact struct {
	Base64       string `json:"base64"`
	Seed         int64  `json:"seed,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
}

type imageResponse struct {
	Artifacts []imageArtifact `json:"artifacts"`
}

// ImageClient talks to a Stability-style text-to-image endpoint.
type ImageClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func NewImageClient(apiKey, url string, timeout time.Duration) *ImageClient {
	return &ImageClient{
		apiKey:     apiKey,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", entity.NewNotConfigured("image generation is not configured")
	}

	payload, err := json.Marshal(imageRequest{
		TextPrompts: []textPrompt{{Text: prompt}},
		CFGScale:    imageCFGScale,
		Height:      imageHeight,
		Width:       imageWidth,
		Samples:     imageSamples,
		Steps:       imageSteps,
	})
	if err != nil {
		return "", fmt.Errorf("marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", entity.NewUpstream(ImageFailureMessage, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", entity.NewUpstream(ImageFailureMessage, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", entity.NewUpstream(ImageFailureMessage, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", entity.NewUpstream(ImageFailureMessage, fmt.Errorf("image API returned %d: %s", resp.StatusCode, bytes.TrimSpace(body)))
	}

	var decoded imageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", entity.NewMalformedUpstream(string(body))
	}
	if len(decoded.Artifacts) == 0 || decoded.Artifacts[0].Base64 == "" {
		return "", entity.NewMalformedUpstream(json.RawMessage(body))
	}

	return decoded.Artifacts[0].Base64, nil
}
