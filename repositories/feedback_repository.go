package repositories

import (
	"context"
	"errors"
	"time"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedbackFields upsert sırasında hangi alanların yazılacağını belirtir.
// İşaretlenmeyen alanlar mevcut kayıtta olduğu gibi kalır.
type FeedbackFields struct {
	Rating   bool
	Comments bool
}

// IFeedbackRepository geri bildirim veritabanı işlemleri için arayüz.
type IFeedbackRepository interface {
	Upsert(ctx context.Context, feedback *models.Feedback, fields FeedbackFields) (*models.Feedback, bool, error)
	FindByEvent(ctx context.Context, eventID uint) ([]models.Feedback, error)
	FindByEventAndParticipant(ctx context.Context, eventID, participantID uint) (*models.Feedback, error)
}

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) IFeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Upsert (event_id, participant_id) için kaydı tek bir atomik
// INSERT ... ON CONFLICT DO UPDATE ile oluşturur veya günceller.
// Çakışmada sadece fields ile işaretlenen sütunlar üzerine yazılır.
// Dönen bool kaydın yeni oluşturulup oluşturulmadığını belirtir.
func (r *FeedbackRepository) Upsert(ctx context.Context, feedback *models.Feedback, fields FeedbackFields) (*models.Feedback, bool, error) {
	if feedback == nil || feedback.EventID == 0 || feedback.ParticipantID == 0 {
		return nil, false, errors.New("geçersiz geri bildirim verisi (EventID veya ParticipantID eksik)")
	}

	now := time.Now().UTC()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	updates := []string{"updated_at", "updated_by"}
	if fields.Rating {
		updates = append(updates, "rating")
	}
	if fields.Comments {
		updates = append(updates, "comments")
	}

	db := r.getDB(ctx)
	err := db.Omit("Participant").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "participant_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(feedback).Error
	if err != nil {
		configslog.Log.Error("FeedbackRepository.Upsert: DB error",
			zap.Uint("event_id", feedback.EventID), zap.Uint("participant_id", feedback.ParticipantID), zap.Error(err))
		return nil, false, err
	}

	stored, err := r.FindByEventAndParticipant(ctx, feedback.EventID, feedback.ParticipantID)
	if err != nil {
		return nil, false, err
	}
	// Yeni kayıtta created_at ve updated_at aynı "now" değerini taşır;
	// güncellemede created_at eski değerinde kalır.
	created := stored.CreatedAt.Equal(stored.UpdatedAt)
	return stored, created, nil
}

func (r *FeedbackRepository) FindByEventAndParticipant(ctx context.Context, eventID, participantID uint) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.getDB(ctx).
		Where("event_id = ? AND participant_id = ?", eventID, participantID).
		First(&feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("FeedbackRepository.FindByEventAndParticipant: DB error",
			zap.Uint("event_id", eventID), zap.Uint("participant_id", participantID), zap.Error(err))
		return nil, err
	}
	return &feedback, nil
}

// FindByEvent etkinliğe ait geri bildirimleri katılımcı bilgisiyle getirir.
func (r *FeedbackRepository) FindByEvent(ctx context.Context, eventID uint) ([]models.Feedback, error) {
	feedback := make([]models.Feedback, 0)
	err := r.getDB(ctx).
		Where("event_id = ?", eventID).
		Preload("Participant").
		Order("created_at asc").Order("id asc").
		Find(&feedback).Error
	if err != nil {
		configslog.Log.Error("FeedbackRepository.FindByEvent: DB error", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return feedback, nil
}

var _ IFeedbackRepository = (*FeedbackRepository)(nil)
