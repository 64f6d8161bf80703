package repositories

import (
	"context"
	"errors"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IEventRepository etkinlik veritabanı işlemleri için arayüz.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindByIDWithRelations(ctx context.Context, id uint) (*models.Event, error)
	FindAllByOwner(ctx context.Context, ownerID uint) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event, fields map[string]interface{}) error
	DeleteCascade(ctx context.Context, event *models.Event) ([]string, error)
}

// EventRepository IEventRepository arayüzünü uygular.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) IEventRepository {
	return &EventRepository{db: db}
}

// Transaction'lı Repository için yardımcı constructor
func NewEventRepositoryTx(tx *gorm.DB) IEventRepository {
	return &EventRepository{db: tx}
}

func (r *EventRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil || event.OwnerID == 0 {
		return errors.New("sahibi olmayan etkinlik oluşturulamaz")
	}
	return r.getDB(ctx).Omit("Owner", "Participants", "Materials", "Feedback").Create(event).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	if err := r.getDB(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// FindByIDWithRelations etkinliği katılımcı ve materyalleriyle birlikte getirir.
// Geri bildirimler kendi servisi üzerinden ayrıca yüklenir.
func (r *EventRepository) FindByIDWithRelations(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	err := r.getDB(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("participants.id asc") }).
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("materials.id asc") }).
		First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByIDWithRelations: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// FindAllByOwner kullanıcının etkinliklerini en yeni oluşturulan başta olacak şekilde getirir.
func (r *EventRepository) FindAllByOwner(ctx context.Context, ownerID uint) ([]models.Event, error) {
	events := make([]models.Event, 0)
	if ownerID == 0 {
		return events, nil
	}
	err := r.getDB(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").Order("id desc").
		Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindAllByOwner: DB error", zap.Uint("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return events, nil
}

// Update yalnızca verilen sütunları günceller.
func (r *EventRepository) Update(ctx context.Context, event *models.Event, fields map[string]interface{}) error {
	if event == nil || event.ID == 0 {
		return errors.New("güncellenecek etkinlik geçerli değil")
	}
	if len(fields) == 0 {
		return nil
	}
	result := r.getDB(ctx).Model(event).Updates(fields)
	if result.Error != nil {
		configslog.Log.Error("EventRepository.Update: DB error", zap.Uint("id", event.ID), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

// DeleteCascade etkinliği ve bağlı tüm kayıtları (geri bildirim, materyal, katılımcı)
// tek transaction içinde, önce çocuklar olacak şekilde siler. Silinen materyallerin
// dosya yollarını döndürür; dosyaların kendisi çağıranın sorumluluğundadır.
func (r *EventRepository) DeleteCascade(ctx context.Context, event *models.Event) ([]string, error) {
	if event == nil || event.ID == 0 {
		return nil, errors.New("silinecek etkinlik geçerli değil")
	}
	var paths []string
	err := r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Material{}).Where("event_id = ?", event.ID).Pluck("file_path", &paths).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Material{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Event{}, event.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		err = translateNotFound(err)
		if !errors.Is(err, ErrNotFound) {
			configslog.Log.Error("EventRepository.DeleteCascade: transaction hatası", zap.Uint("id", event.ID), zap.Error(err))
		}
		return nil, err
	}
	return paths, nil
}

var _ IEventRepository = (*EventRepository)(nil)
