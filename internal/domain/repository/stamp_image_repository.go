package repository

import "context"

// StampImageRepository определяет контракт внешнего генератора картинок.
// Ровно одна попытка на вызов; при отказе вызывающая сторона оставляет
// прежний вид штампа без изменений.
type StampImageRepository interface {
	// GenerateStampImage возвращает data-URI сгенерированного штампа
	GenerateStampImage(ctx context.Context, placeName, styleDescription string) (string, error)

	// DeriveIcon превращает загруженную картинку в круглую иконку маркера
	// и возвращает ее data-URI
	DeriveIcon(ctx context.Context, imageData []byte, mimeType string) (string, error)
}
