package errors

import "net/http"

var (
	ErrEmptyLocations = New(
		"EMPTY_LOCATIONS",
		"No place names provided",
		http.StatusBadRequest,
	)

	ErrNoLocationsResolved = New(
		"NO_LOCATIONS_RESOLVED",
		"None of the requested places could be found",
		http.StatusUnprocessableEntity,
	)

	ErrServiceQuotaExceeded = New(
		"SERVICE_QUOTA_EXCEEDED",
		"External service quota exceeded, try again later",
		http.StatusTooManyRequests,
	)

	ErrGeocodingFailed = New(
		"GEOCODING_FAILED",
		"Geocoding service request failed",
		http.StatusBadGateway,
	)

	ErrImageGenerationFailed = New(
		"IMAGE_GENERATION_FAILED",
		"Image generation request failed",
		http.StatusBadGateway,
	)

	ErrAPIKeyMissing = New(
		"API_KEY_MISSING",
		"External API credential is not configured",
		http.StatusServiceUnavailable,
	)

	ErrTripNotFound = New(
		"TRIP_NOT_FOUND",
		"Trip not found",
		http.StatusNotFound,
	)

	ErrStampNotFound = New(
		"STAMP_NOT_FOUND",
		"Stamp not found",
		http.StatusNotFound,
	)

	ErrInvalidTripFormat = New(
		"INVALID_TRIP_FORMAT",
		"Invalid trip file: coordinates and stamps collections are required",
		http.StatusBadRequest,
	)

	ErrRequestSuperseded = New(
		"REQUEST_SUPERSEDED",
		"A newer route request replaced this one",
		http.StatusConflict,
	)

	ErrNoPendingDelete = New(
		"NO_PENDING_DELETE",
		"No trip is pending deletion",
		http.StatusConflict,
	)

	ErrStorageWriteFailed = New(
		"STORAGE_WRITE_FAILED",
		"Durable storage write failed",
		http.StatusInsufficientStorage,
	)

	ErrStorageError = New(
		"STORAGE_ERROR",
		"Durable storage operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
