package stampgen_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripstamp-microservice/internal/config"
	"github.com/tripstamp-microservice/internal/infrastructure/stampgen"
	"github.com/tripstamp-microservice/internal/pkg/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestGenerateStampImage(t *testing.T) {
	t.Run("success returns data uri", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/images/stamp", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req struct {
				PlaceName        string `json:"place_name"`
				StyleDescription string `json:"style_description"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Paris", req.PlaceName)
			assert.Equal(t, "vintage watercolor", req.StyleDescription)

			_, _ = w.Write([]byte(`{"image_base64":"QUJD","mime_type":"image/png"}`))
		})

		cfg := &config.ImageGenConfig{BaseURL: server.URL, RequestTimeout: 5}
		client := stampgen.NewStampGenClient(cfg, "test-key", zap.NewNop())

		url, err := client.GenerateStampImage(context.Background(), "Paris", "vintage watercolor")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,QUJD", url)
	})

	t.Run("defaults mime type to png", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"image_base64":"QUJD","mime_type":""}`))
		})

		cfg := &config.ImageGenConfig{BaseURL: server.URL, RequestTimeout: 5}
		client := stampgen.NewStampGenClient(cfg, "test-key", zap.NewNop())

		url, err := client.GenerateStampImage(context.Background(), "Paris", "retro")
		require.NoError(t, err)
		assert.Contains(t, url, "data:image/png;base64,")
	})

	t.Run("empty payload is an error", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"image_base64":"","mime_type":"image/png"}`))
		})

		cfg := &config.ImageGenConfig{BaseURL: server.URL, RequestTimeout: 5}
		client := stampgen.NewStampGenClient(cfg, "test-key", zap.NewNop())

		_, err := client.GenerateStampImage(context.Background(), "Paris", "retro")
		assert.ErrorIs(t, err, errors.ErrImageGenerationFailed)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		cfg := &config.ImageGenConfig{BaseURL: server.URL, RequestTimeout: 5}
		client := stampgen.NewStampGenClient(cfg, "test-key", zap.NewNop())

		_, err := client.GenerateStampImage(context.Background(), "Paris", "retro")
		assert.ErrorIs(t, err, errors.ErrServiceQuotaExceeded)
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := &config.ImageGenConfig{BaseURL: "http://localhost:1", RequestTimeout: 5}
		client := stampgen.NewStampGenClient(cfg, "", zap.NewNop())

		_, err := client.GenerateStampImage(context.Background(), "Paris", "retro")
		assert.ErrorIs(t, err, errors.ErrAPIKeyMissing)
	})
}

func TestDeriveIcon(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		imageData := []byte{0x89, 0x50, 0x4e, 0x47}

		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/images/icon", r.URL.Path)

			var req struct {
				ImageBase64 string `json:"image_base64"`
				MimeType    string `json:"mime_type"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, base64.StdEncoding.EncodeToString(imageData), req.ImageBase64)
			assert.Equal(t, "image/png", req.MimeType)

			_, _ = w.Write([]byte(`{"image_base64":"SUNPTg==","mime_type":"image/png"}`))
		})

		cfg := &config.ImageGenConfig{BaseURL: server.URL, RequestTimeout: 5}
		client := stampgen.NewStampGenClient(cfg, "test-key", zap.NewNop())

		url, err := client.DeriveIcon(context.Background(), imageData, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,SUNPTg==", url)
	})

	t.Run("empty image data", func(t *testing.T) {
		cfg := &config.ImageGenConfig{BaseURL: "http://localhost:1", RequestTimeout: 5}
		client := stampgen.NewStampGenClient(cfg, "test-key", zap.NewNop())

		_, err := client.DeriveIcon(context.Background(), nil, "image/png")
		assert.Error(t, err)
	})
}
