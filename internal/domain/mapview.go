package domain

// TilePreset - источник тайлов с обязательной аттрибуцией
type TilePreset struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// Три фиксированных пресета тайлов, по одному на каждый стиль
var tilePresets = map[string]TilePreset{
	StyleStandard: {
		Name:        StyleStandard,
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
	},
	StyleVintage: {
		Name:        StyleVintage,
		URL:         "https://tiles.stadiamaps.com/tiles/stamen_watercolor/{z}/{x}/{y}.jpg",
		Attribution: "&copy; Stadia Maps &copy; Stamen Design &copy; OpenStreetMap contributors",
	},
	StyleNeon: {
		Name:        StyleNeon,
		URL:         "https://basemaps.cartocdn.com/dark_all/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
	},
}

// TilePresetFor возвращает пресет тайлов для стиля;
// неизвестный стиль откатывается к standard
func TilePresetFor(style string) TilePreset {
	if p, ok := tilePresets[style]; ok {
		return p
	}
	return tilePresets[StyleStandard]
}

const (
	MarkerKindPin  = "pin"
	MarkerKindIcon = "icon"
)

// Marker - маркер одной координаты маршрута
type Marker struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Kind    string  `json:"kind"` // pin | icon
	IconURL string  `json:"iconUrl,omitempty"`
}

// PathSpec - линия маршрута; строится только при двух и более координатах
type PathSpec struct {
	Color  string       `json:"color"`
	Weight int          `json:"weight"`
	Points []Coordinate `json:"points"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// MapView - полное описание карты для клиента-рендерера
type MapView struct {
	Tiles     TilePreset   `json:"tiles"`
	Path      *PathSpec    `json:"path,omitempty"`
	Markers   []Marker     `json:"markers"`
	Bounds    *BoundingBox `json:"bounds,omitempty"`
	Padding   int          `json:"padding"`
	MapHeight string       `json:"mapHeight"`
	Revision  uint64       `json:"revision"`
}

// RenderPlan - какие слои карты нужно перерисовать после изменения
// состояния; полная пересборка только при смене набора координат
type RenderPlan struct {
	RebuildAll bool `json:"rebuildAll"`
	Tiles      bool `json:"tiles"`
	Path       bool `json:"path"`
	Markers    bool `json:"markers"`
	Refit      bool `json:"refit"`
}

// ComputeBounds возвращает охватывающий прямоугольник всех координат
// или nil, если координат нет
func ComputeBounds(coords []Coordinate) *BoundingBox {
	if len(coords) == 0 {
		return nil
	}
	b := &BoundingBox{
		MinLat: coords[0].Lat,
		MaxLat: coords[0].Lat,
		MinLng: coords[0].Lng,
		MaxLng: coords[0].Lng,
	}
	for _, c := range coords[1:] {
		if c.Lat < b.MinLat {
			b.MinLat = c.Lat
		}
		if c.Lat > b.MaxLat {
			b.MaxLat = c.Lat
		}
		if c.Lng < b.MinLng {
			b.MinLng = c.Lng
		}
		if c.Lng > b.MaxLng {
			b.MaxLng = c.Lng
		}
	}
	return b
}

// ComputeRenderPlan сравнивает стили и решает, какие слои трогать.
// coordsChanged перекрывает все остальное полной пересборкой.
func ComputeRenderPlan(prev, next StyleConfig, coordsChanged bool) RenderPlan {
	if coordsChanged {
		return RenderPlan{RebuildAll: true, Refit: true}
	}
	var plan RenderPlan
	if prev.Style != next.Style {
		plan.Tiles = true
	}
	if prev.Color != next.Color || prev.Weight != next.Weight {
		plan.Path = true
	}
	if prev.CustomIconURL != next.CustomIconURL {
		plan.Markers = true
	}
	if prev.MapHeight != next.MapHeight {
		plan.Refit = true
	}
	return plan
}
