package repositories

import (
	"context"
	"errors"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IMaterialRepository materyal meta verisi için arayüz.
type IMaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	FindByID(ctx context.Context, id uint) (*models.Material, error)
	FindByEvent(ctx context.Context, eventID uint) ([]models.Material, error)
	Delete(ctx context.Context, material *models.Material) error
}

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) IMaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	if material == nil || material.EventID == 0 || material.FilePath == "" {
		return errors.New("etkinliği veya dosya yolu olmayan materyal oluşturulamaz")
	}
	return r.getDB(ctx).Omit("Event").Create(material).Error
}

// FindByID materyali bağlı olduğu etkinlikle birlikte getirir.
func (r *MaterialRepository) FindByID(ctx context.Context, id uint) (*models.Material, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var material models.Material
	if err := r.getDB(ctx).Preload("Event").First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("MaterialRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) FindByEvent(ctx context.Context, eventID uint) ([]models.Material, error) {
	materials := make([]models.Material, 0)
	err := r.getDB(ctx).Where("event_id = ?", eventID).Order("id asc").Find(&materials).Error
	if err != nil {
		configslog.Log.Error("MaterialRepository.FindByEvent: DB error", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return materials, nil
}

func (r *MaterialRepository) Delete(ctx context.Context, material *models.Material) error {
	if material == nil || material.ID == 0 {
		return errors.New("silinecek materyal geçerli değil")
	}
	result := r.getDB(ctx).Delete(&models.Material{}, material.ID)
	if result.Error != nil {
		configslog.Log.Error("MaterialRepository.Delete: DB error", zap.Uint("id", material.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IMaterialRepository = (*MaterialRepository)(nil)
