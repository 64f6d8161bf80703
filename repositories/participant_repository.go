package repositories

import (
	"context"
	"errors"
	"strings"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IParticipantRepository katılımcı veritabanı işlemleri için arayüz.
type IParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	CreateMany(ctx context.Context, participants []*models.Participant) error
	FindByID(ctx context.Context, id uint) (*models.Participant, error)
	FindByEvent(ctx context.Context, eventID uint) ([]models.Participant, error)
	FindByEventAndStatuses(ctx context.Context, eventID uint, statuses []models.ParticipantStatus) ([]models.Participant, error)
	ExistsByEventAndEmail(ctx context.Context, eventID uint, email string) (bool, error)
	UpdateStatus(ctx context.Context, participant *models.Participant, status models.ParticipantStatus) error
	Delete(ctx context.Context, participant *models.Participant) error
}

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) IParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Transaction'lı Repository için yardımcı constructor
func NewParticipantRepositoryTx(tx *gorm.DB) IParticipantRepository {
	return &ParticipantRepository{db: tx}
}

func (r *ParticipantRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant == nil || participant.EventID == 0 {
		return errors.New("etkinliği olmayan katılımcı oluşturulamaz")
	}
	return r.getDB(ctx).Omit("Event").Create(participant).Error
}

// CreateMany katılımcıları tek transaction içinde oluşturur; biri başarısız olursa hiçbiri kalmaz.
func (r *ParticipantRepository) CreateMany(ctx context.Context, participants []*models.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	for _, p := range participants {
		if p == nil || p.EventID == 0 {
			return errors.New("etkinliği olmayan katılımcı oluşturulamaz")
		}
	}
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range participants {
			if err := tx.Omit("Event").Create(p).Error; err != nil {
				configslog.Log.Error("ParticipantRepository.CreateMany: DB error",
					zap.Uint("event_id", p.EventID), zap.String("email", p.Email), zap.Error(err))
				return err
			}
		}
		return nil
	})
}

// FindByID katılımcıyı bağlı olduğu etkinlikle birlikte getirir.
func (r *ParticipantRepository) FindByID(ctx context.Context, id uint) (*models.Participant, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var participant models.Participant
	if err := r.getDB(ctx).Preload("Event").First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ParticipantRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &participant, nil
}

func (r *ParticipantRepository) FindByEvent(ctx context.Context, eventID uint) ([]models.Participant, error) {
	participants := make([]models.Participant, 0)
	err := r.getDB(ctx).Where("event_id = ?", eventID).Order("id asc").Find(&participants).Error
	if err != nil {
		configslog.Log.Error("ParticipantRepository.FindByEvent: DB error", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return participants, nil
}

func (r *ParticipantRepository) FindByEventAndStatuses(ctx context.Context, eventID uint, statuses []models.ParticipantStatus) ([]models.Participant, error) {
	participants := make([]models.Participant, 0)
	if len(statuses) == 0 {
		return participants, nil
	}
	err := r.getDB(ctx).
		Where("event_id = ? AND status IN ?", eventID, statuses).
		Order("id asc").
		Find(&participants).Error
	if err != nil {
		configslog.Log.Error("ParticipantRepository.FindByEventAndStatuses: DB error", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return participants, nil
}

// ExistsByEventAndEmail etkinlikte bu e-posta ile (harf duyarsız) bir katılımcı var mı?
func (r *ParticipantRepository) ExistsByEventAndEmail(ctx context.Context, eventID uint, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if eventID == 0 || email == "" {
		return false, nil
	}
	var count int64
	err := r.getDB(ctx).Model(&models.Participant{}).
		Where("event_id = ? AND LOWER(email) = ?", eventID, email).
		Count(&count).Error
	if err != nil {
		configslog.Log.Error("ParticipantRepository.ExistsByEventAndEmail: DB error", zap.Uint("event_id", eventID), zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

func (r *ParticipantRepository) UpdateStatus(ctx context.Context, participant *models.Participant, status models.ParticipantStatus) error {
	if participant == nil || participant.ID == 0 {
		return errors.New("güncellenecek katılımcı geçerli değil")
	}
	result := r.getDB(ctx).Model(participant).Omit("Event").Update("status", status)
	if result.Error != nil {
		configslog.Log.Error("ParticipantRepository.UpdateStatus: DB error", zap.Uint("id", participant.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	participant.Status = status
	return nil
}

// Delete katılımcıyı ve ona ait geri bildirimi siler.
func (r *ParticipantRepository) Delete(ctx context.Context, participant *models.Participant) error {
	if participant == nil || participant.ID == 0 {
		return errors.New("silinecek katılımcı geçerli değil")
	}
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", participant.ID).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Participant{}, participant.ID)
		if result.Error != nil {
			configslog.Log.Error("ParticipantRepository.Delete: DB error", zap.Uint("id", participant.ID), zap.Error(result.Error))
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

var _ IParticipantRepository = (*ParticipantRepository)(nil)
