package dto

import "github.com/tripstamp-microservice/internal/domain"

// RouteResponse - активное состояние маршрута
type RouteResponse struct {
	Coordinates      []domain.Coordinate `json:"coordinates"`
	MissingLocations []string            `json:"missingLocations"`
	Stamps           []domain.Stamp      `json:"stamps"`
	Status           string              `json:"status"`
}

// NewRouteResponse строит ответ из снимка состояния
func NewRouteResponse(route domain.RouteState) RouteResponse {
	return RouteResponse{
		Coordinates:      route.Coordinates,
		MissingLocations: route.MissingLocations,
		Stamps:           route.Stamps,
		Status:           route.Status,
	}
}

// StyleResponse - примененный стиль и план перерисовки слоев
type StyleResponse struct {
	Style domain.StyleConfig `json:"style"`
	Plan  domain.RenderPlan  `json:"plan"`
}

// MapViewResponse - описание карты для рендерера
type MapViewResponse struct {
	View         domain.MapView `json:"view"`
	RefitPending bool           `json:"refitPending"`
}

// TripListResponse - список сохраненных поездок (свежие сверху)
type TripListResponse struct {
	Trips []domain.SavedTrip `json:"trips"`
	Total int                `json:"total"`
}

// SaveTripResponse - результат сохранения; Warning не пуст, если запись
// в долговременное хранилище не удалась и поездка живет только в сессии
type SaveTripResponse struct {
	Trip    domain.SavedTrip `json:"trip"`
	Warning string           `json:"warning,omitempty"`
}

// ImportTripResponse - результат импорта: поездка добавлена в список
// и сразу загружена в активный маршрут
type ImportTripResponse struct {
	Trip    domain.SavedTrip `json:"trip"`
	Route   RouteResponse    `json:"route"`
	Warning string           `json:"warning,omitempty"`
}

// LoadTripResponse - активное состояние после загрузки поездки
type LoadTripResponse struct {
	Route RouteResponse      `json:"route"`
	Style domain.StyleConfig `json:"style"`
}

// DeleteStateResponse - состояние двухфазного удаления
type DeleteStateResponse struct {
	PendingDeleteID string `json:"pendingDeleteId,omitempty"`
	Deleted         bool   `json:"deleted"`
	Warning         string `json:"warning,omitempty"`
}

// StampExportResponse - выбранные штампы, собранные последовательно
type StampExportResponse struct {
	Stamps []domain.Stamp `json:"stamps"`
	Total  int            `json:"total"`
}
