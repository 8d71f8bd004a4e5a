package domain

import "fmt"

// ResolvedPlace - ответ геокодера на одно название; nil lat/lng означает,
// что место не найдено
type ResolvedPlace struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

// IsMissing сообщает, что место не разрешено. Координата ровно (0,0)
// трактуется как сентинел "не найдено" - известное ограничение:
// реальную точку (0,0) представить нельзя.
func (p ResolvedPlace) IsMissing() bool {
	if p.Lat == nil || p.Lng == nil {
		return true
	}
	return *p.Lat == 0 && *p.Lng == 0
}

// RouteState - активное состояние маршрута сессии. Единственный писатель -
// use case слой; наружу отдаются только копии.
type RouteState struct {
	Coordinates      []Coordinate `json:"coordinates"`
	MissingLocations []string     `json:"missingLocations"`
	Stamps           []Stamp      `json:"stamps"`
	Status           string       `json:"status"`
}

// cloneSlice копирует срез, сохраняя различие nil/пустой,
// чтобы сериализация не превращала [] в null
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Clone возвращает глубокую копию состояния маршрута
func (r RouteState) Clone() RouteState {
	out := r
	out.Coordinates = cloneSlice(r.Coordinates)
	out.MissingLocations = cloneSlice(r.MissingLocations)
	out.Stamps = cloneSlice(r.Stamps)
	return out
}

// RouteStatusMessage формирует итоговое сообщение генерации маршрута
func RouteStatusMessage(found, missing int) string {
	if missing == 0 {
		return fmt.Sprintf("Found %d places.", found)
	}
	return fmt.Sprintf("Found %d places. %d missing.", found, missing)
}
