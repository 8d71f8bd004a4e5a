package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Coordinate - успешно разрешенная точка маршрута.
// Создается только геокодером, после создания не изменяется.
type Coordinate struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Stamp - декоративный "паспортный штамп" одной посещенной точки
type Stamp struct {
	ID          TripID  `json:"id"`
	Name        string  `json:"name"`
	Rotation    float64 `json:"rotation"` // degrees, -15..15
	Color       string  `json:"color"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Description string  `json:"description,omitempty"`
	Selected    bool    `json:"selected"`
}

// StyleConfig - визуальные параметры карты и маршрута
type StyleConfig struct {
	Style         string `json:"style"` // standard | vintage | neon
	Color         string `json:"color"`
	Weight        int    `json:"weight"`
	CustomIconURL string `json:"customIconUrl,omitempty"`
	MapHeight     string `json:"mapHeight"` // small | medium | large
}

// SavedTrip - сохраненный снимок маршрута со штампами и стилем.
// Всегда передается глубокими копиями, активное состояние никогда
// не разделяет ссылки с сохраненным списком.
type SavedTrip struct {
	ID          TripID       `json:"id"`
	Name        string       `json:"name"`
	Date        int64        `json:"date"` // unix milliseconds
	Locations   string       `json:"locations"`
	Coordinates []Coordinate `json:"coordinates"`
	Stamps      []Stamp      `json:"stamps"`
	StyleConfig *StyleConfig `json:"styleConfig,omitempty"`
}

// TripID - строковый идентификатор, терпимый к легаси-данным,
// где id мог быть записан числом
type TripID string

func (id *TripID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TripID(s)
		return nil
	}
	// Легаси: числовой id приводим к строке
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("trip id must be a string or number: %w", err)
	}
	*id = TripID(n.String())
	return nil
}

func NewTripID() TripID {
	return TripID(uuid.NewString())
}

// StampPalette - фиксированная палитра цветовых токенов штампов,
// выбирается по кругу по индексу координаты
var StampPalette = []string{"red", "blue", "green", "purple", "orange", "teal"}

const (
	StyleStandard = "standard"
	StyleVintage  = "vintage"
	StyleNeon     = "neon"

	MapHeightSmall  = "small"
	MapHeightMedium = "medium"
	MapHeightLarge  = "large"
)

// DefaultIndigo - цвет маршрута по умолчанию
const DefaultIndigo = "#4f46e5"

// DefaultStyleConfig возвращает стиль по умолчанию; применяется и к
// легаси-поездкам, сохраненным до появления настроек стиля
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		Style:     StyleStandard,
		Color:     DefaultIndigo,
		Weight:    4,
		MapHeight: MapHeightSmall,
	}
}

// NewDefaultStamp создает штамп по умолчанию для i-й координаты маршрута:
// цвет по кругу из палитры, поворот псевдослучайный в пределах [-15, 15]
func NewDefaultStamp(name string, index int, now time.Time) Stamp {
	return Stamp{
		ID:       NewTripID(),
		Name:     name,
		Rotation: rand.Float64()*30 - 15,
		Color:    StampPalette[index%len(StampPalette)],
		Date:     now.Format("Jan 2, 2006"),
		Time:     now.Format("3:04 PM"),
	}
}

// Clone возвращает глубокую копию поездки
func (t SavedTrip) Clone() SavedTrip {
	out := t
	out.Coordinates = cloneSlice(t.Coordinates)
	out.Stamps = cloneSlice(t.Stamps)
	if t.StyleConfig != nil {
		sc := *t.StyleConfig
		out.StyleConfig = &sc
	}
	return out
}

// CloneTrips возвращает глубокую копию списка поездок
func CloneTrips(trips []SavedTrip) []SavedTrip {
	out := make([]SavedTrip, len(trips))
	for i, t := range trips {
		out[i] = t.Clone()
	}
	return out
}
