package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tripstamp-microservice/internal/domain"
)

// MockGeocodingRepository - мок внешнего геокодера
type MockGeocodingRepository struct {
	mock.Mock
}

func (m *MockGeocodingRepository) ResolvePlaces(ctx context.Context, names []string) ([]domain.ResolvedPlace, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResolvedPlace), args.Error(1)
}

// MockCacheRepository - мок кеша
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockTripStoreRepository - мок долговременного хранилища поездок
type MockTripStoreRepository struct {
	mock.Mock
}

func (m *MockTripStoreRepository) GetTrips(ctx context.Context, owner string) ([]domain.SavedTrip, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedTrip), args.Error(1)
}

func (m *MockTripStoreRepository) PutTrips(ctx context.Context, owner string, trips []domain.SavedTrip) error {
	args := m.Called(ctx, owner, trips)
	return args.Error(0)
}

// MockStampImageRepository - мок генератора картинок
type MockStampImageRepository struct {
	mock.Mock
}

func (m *MockStampImageRepository) GenerateStampImage(ctx context.Context, placeName, styleDescription string) (string, error) {
	args := m.Called(ctx, placeName, styleDescription)
	return args.String(0), args.Error(1)
}

func (m *MockStampImageRepository) DeriveIcon(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	args := m.Called(ctx, imageData, mimeType)
	return args.String(0), args.Error(1)
}

func resolved(name string, lat, lng float64) domain.ResolvedPlace {
	return domain.ResolvedPlace{Name: name, Lat: &lat, Lng: &lng}
}

func unresolved(name string) domain.ResolvedPlace {
	return domain.ResolvedPlace{Name: name}
}
