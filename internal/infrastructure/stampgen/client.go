package stampgen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tripstamp-microservice/internal/config"
	"github.com/tripstamp-microservice/internal/domain/repository"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewStampGenClient создает новый клиент внешнего сервиса генерации картинок
func NewStampGenClient(cfg *config.ImageGenConfig, apiKey string, logger *zap.Logger) repository.StampImageRepository {
	if apiKey == "" {
		logger.Warn("AI API key is not configured, image generation requests will be rejected")
	}
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

type generateRequest struct {
	PlaceName        string `json:"place_name"`
	StyleDescription string `json:"style_description"`
}

type deriveIconRequest struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

type imageResponse struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// GenerateStampImage запрашивает генерацию картинки штампа для места.
// Ровно одна попытка; ретраев нет.
func (c *client) GenerateStampImage(ctx context.Context, placeName, styleDescription string) (string, error) {
	body := generateRequest{
		PlaceName:        placeName,
		StyleDescription: styleDescription,
	}
	return c.requestImage(ctx, "/v1/images/stamp", body)
}

// DeriveIcon превращает загруженную пользователем картинку в круглую
// иконку маркера
func (c *client) DeriveIcon(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}
	body := deriveIconRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(imageData),
		MimeType:    mimeType,
	}
	return c.requestImage(ctx, "/v1/images/icon", body)
}

func (c *client) requestImage(ctx context.Context, path string, payload interface{}) (string, error) {
	if c.apiKey == "" {
		return "", errors.ErrAPIKeyMissing
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + path

	c.logger.Debug("Calling image generation API", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return "", errors.ErrImageGenerationFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("Image generation API quota exceeded")
		return "", errors.ErrServiceQuotaExceeded
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("Image generation API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return "", errors.ErrImageGenerationFailed
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.DisallowUnknownFields()

	var result imageResponse
	if err := decoder.Decode(&result); err != nil {
		c.logger.Error("Failed to decode image response", zap.Error(err))
		return "", errors.ErrImageGenerationFailed
	}

	if result.ImageBase64 == "" {
		c.logger.Error("Image generation API returned empty payload")
		return "", errors.ErrImageGenerationFailed
	}

	mime := result.MimeType
	if mime == "" {
		mime = "image/png"
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, result.ImageBase64), nil
}
