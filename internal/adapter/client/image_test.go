package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"pbasc-assistant/internal/domain/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedImageRequest struct {
	Auth   string
	Accept string
	Body   imageRequest
}

func imageStub(t *testing.T, status int, body string, got *capturedImageRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.Auth = r.Header.Get("Authorization")
			got.Accept = r.Header.Get("Accept")
			_ = json.NewDecoder(r.Body).Decode(&got.Body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateImage_ReturnsFirstArtifact(t *testing.T) {
	var got capturedImageRequest
	srv := imageStub(t, http.StatusOK, `{"artifacts":[{"base64":"QUJD","seed":1,"finishReason":"SUCCESS"},{"base64":"REVG"}]}`, &got)
	c := NewImageClient("img-key", srv.URL, 5*time.Second)

	b64, err := c.GenerateImage(context.Background(), "a red cat")
	require.NoError(t, err)
	assert.Equal(t, "QUJD", b64)

	assert.Equal(t, "Bearer img-key", got.Auth)
	assert.Equal(t, "application/json", got.Accept)
	require.Len(t, got.Body.TextPrompts, 1)
	assert.Equal(t, "a red cat", got.Body.TextPrompts[0].Text)
	assert.Equal(t, float64(imageCFGScale), got.Body.CFGScale)
	assert.Equal(t, imageHeight, got.Body.Height)
	assert.Equal(t, imageWidth, got.Body.Width)
	assert.Equal(t, imageSamples, got.Body.Samples)
	assert.Equal(t, imageSteps, got.Body.Steps)
}

func TestGenerateImage_MissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	c := NewImageClient("", srv.URL, time.Second)
	_, err := c.GenerateImage(context.Background(), "a red cat")
	require.ErrorIs(t, err, entity.ErrNotConfigured)
	assert.False(t, called)
}

func TestGenerateImage_NonOKStatus(t *testing.T) {
	srv := imageStub(t, http.StatusUnauthorized, `{"message":"invalid key"}`, nil)
	c := NewImageClient("img-key", srv.URL, time.Second)

	_, err := c.GenerateImage(context.Background(), "a red cat")
	require.ErrorIs(t, err, entity.ErrUpstream)

	var re *entity.RelayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ImageFailureMessage, re.Message)
	assert.Contains(t, re.Details, "401")
	assert.Contains(t, re.Details, "invalid key")
}

func TestGenerateImage_Malformed(t *testing.T) {
	for _, body := range []string{`{"artifacts":[]}`, `{"artifacts":[{"base64":""}]}`, `not json`} {
		srv := imageStub(t, http.StatusOK, body, nil)
		c := NewImageClient("img-key", srv.URL, time.Second)

		_, err := c.GenerateImage(context.Background(), "a red cat")
		require.ErrorIs(t, err, entity.ErrMalformedUpstream, "body=%s", body)
	}
}

func TestGenerateImage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewImageClient("img-key", url, time.Second)
	_, err := c.GenerateImage(context.Background(), "a red cat")
	require.ErrorIs(t, err, entity.ErrUpstream)
}
