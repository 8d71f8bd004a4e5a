package dto

// GenerateRouteRequest - запрос на построение маршрута из строки мест
type GenerateRouteRequest struct {
	Locations string `json:"locations" validate:"required,min=1,max=2000"`
}

// StyleUpdateRequest - полная замена настроек стиля (кроме кастомной
// иконки, она управляется отдельной загрузкой)
type StyleUpdateRequest struct {
	Style     string `json:"style" validate:"required,oneof=standard vintage neon"`
	Color     string `json:"color" validate:"required,hexcolor"`
	Weight    int    `json:"weight" validate:"required,min=1,max=20"`
	MapHeight string `json:"mapHeight" validate:"required,oneof=small medium large"`
}

// GenerateStampImageRequest - запрос генерации AI-картинки одного штампа
type GenerateStampImageRequest struct {
	StyleDescription string `json:"style_description" validate:"required,min=3,max=500"`
}

// StampSelectionRequest - переключение выбора штампа для пакетного экспорта
type StampSelectionRequest struct {
	Selected *bool `json:"selected" validate:"required"`
}

// SaveTripRequest - запрос на сохранение текущего маршрута
type SaveTripRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// UploadIconRequest - загрузка картинки для кастомной иконки маркеров
type UploadIconRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	MimeType    string `json:"mime_type" validate:"required,oneof=image/png image/jpeg image/webp"`
}

// RefitRequest - запрос на пересчет границ после изменения layout
type RefitRequest struct {
	Reason string `json:"reason" validate:"omitempty,oneof=resize height"`
}
