package geocoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tripstamp-microservice/internal/config"
	"github.com/tripstamp-microservice/internal/domain"
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

// NewGeocoderClient создает новый клиент внешнего сервиса геокодирования
func NewGeocoderClient(cfg *config.GeocoderConfig, apiKey string, logger *zap.Logger) repository.GeocodingRepository {
	if apiKey == "" {
		logger.Warn("AI API key is not configured, geocoding requests will be rejected")
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

type resolveRequest struct {
	Places []string `json:"places"`
}

type resolveResponse struct {
	Results []domain.ResolvedPlace `json:"results"`
}

// ResolvePlaces разрешает упорядоченный список названий в координаты.
// Контракт: ответ той же длины и в том же порядке, что и запрос;
// ненайденные места приходят с nil lat/lng.
func (c *client) ResolvePlaces(ctx context.Context, names []string) ([]domain.ResolvedPlace, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("names cannot be empty")
	}
	if c.apiKey == "" {
		return nil, errors.ErrAPIKeyMissing
	}

	body, err := json.Marshal(resolveRequest{Places: names})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/geocode", c.baseURL)

	c.logger.Debug("Calling geocoding API",
		zap.String("url", url),
		zap.Int("places_count", len(names)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, errors.ErrGeocodingFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("Geocoding API quota exceeded")
		return nil, errors.ErrServiceQuotaExceeded
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("Geocoding API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, errors.ErrGeocodingFailed
	}

	// Строгий разбор: лишние поля и расхождение формы - ошибка
	decoder := json.NewDecoder(resp.Body)
	decoder.DisallowUnknownFields()

	var result resolveResponse
	if err := decoder.Decode(&result); err != nil {
		c.logger.Error("Failed to decode geocoding response", zap.Error(err))
		return nil, errors.ErrGeocodingFailed
	}

	if len(result.Results) != len(names) {
		c.logger.Error("Geocoding response length mismatch",
			zap.Int("requested", len(names)),
			zap.Int("returned", len(result.Results)))
		return nil, errors.ErrGeocodingFailed
	}

	c.logger.Debug("Geocoding API call successful",
		zap.Int("results_count", len(result.Results)))

	return result.Results, nil
}
