package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/domain/repository"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"github.com/tripstamp-microservice/internal/usecase/dto"
)

// StampUseCase - независимые побочные потоки штампов: AI-генерация
// картинки одного штампа, загрузка кастомной иконки и выбор штампов
// для пакетного экспорта. Ничто из этого не перезапускает геокодирование.
type StampUseCase struct {
	imageRepo repository.StampImageRepository
	logger    *zap.Logger
}

// NewStampUseCase - создание нового StampUseCase
func NewStampUseCase(imageRepo repository.StampImageRepository, logger *zap.Logger) *StampUseCase {
	return &StampUseCase{
		imageRepo: imageRepo,
		logger:    logger,
	}
}

// GenerateImage делает ровно одну попытку генерации картинки штампа.
// При отказе штамп сохраняет прежний CSS-вид - это политика отката,
// а не ретрай.
func (uc *StampUseCase) GenerateImage(ctx context.Context, sess *Session, id domain.TripID, styleDescription string) (*domain.Stamp, error) {
	stamp, ok := sess.Stamp(id)
	if !ok {
		return nil, errors.ErrStampNotFound
	}

	imageURL, err := uc.imageRepo.GenerateStampImage(ctx, stamp.Name, styleDescription)
	if err != nil {
		uc.logger.Warn("Stamp image generation failed, keeping default appearance",
			zap.String("session_id", sess.ID),
			zap.String("stamp_id", string(id)),
			zap.Error(err))
		return nil, err
	}

	if !sess.SetStampImage(id, imageURL, styleDescription) {
		// Маршрут сменился, пока шла генерация
		return nil, errors.ErrStampNotFound
	}

	updated, _ := sess.Stamp(id)
	uc.logger.Info("Stamp image generated",
		zap.String("session_id", sess.ID),
		zap.String("stamp_id", string(id)))
	return &updated, nil
}

// UploadIcon превращает загруженную картинку в круглую иконку маркеров.
// Мутирует только StyleConfig; маршрут не трогается.
func (uc *StampUseCase) UploadIcon(ctx context.Context, sess *Session, imageData []byte, mimeType string) (domain.StyleConfig, domain.RenderPlan, error) {
	iconURL, err := uc.imageRepo.DeriveIcon(ctx, imageData, mimeType)
	if err != nil {
		uc.logger.Warn("Icon derivation failed",
			zap.String("session_id", sess.ID), zap.Error(err))
		return domain.StyleConfig{}, domain.RenderPlan{}, err
	}

	sess.SetCustomIcon(iconURL)
	_, style := sess.Snapshot()

	// Меняется только слой маркеров
	return style, domain.RenderPlan{Markers: true}, nil
}

// SetSelection переключает эфемерный флаг выбора штампа
func (uc *StampUseCase) SetSelection(sess *Session, id domain.TripID, selected bool) (*domain.Stamp, error) {
	if !sess.SetStampSelected(id, selected) {
		return nil, errors.ErrStampNotFound
	}
	stamp, _ := sess.Stamp(id)
	return &stamp, nil
}

// ExportSelected собирает выбранные штампы строго по одному, не
// параллельно - захват картинки на стороне рендерера не терпит
// конкуренции. Флаг экспорта снимается на любом исходе.
func (uc *StampUseCase) ExportSelected(sess *Session) (*dto.StampExportResponse, error) {
	sess.SetExporting(true)
	defer sess.SetExporting(false)

	selected := sess.SelectedStamps()
	out := make([]domain.Stamp, 0, len(selected))
	for _, st := range selected {
		out = append(out, st)
	}

	uc.logger.Debug("Stamps exported",
		zap.String("session_id", sess.ID),
		zap.Int("count", len(out)))

	return &dto.StampExportResponse{
		Stamps: out,
		Total:  len(out),
	}, nil
}
