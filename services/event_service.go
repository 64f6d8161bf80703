package services

import (
	"context"
	"errors"
	"strings"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"
	"etkinlik.link/pkg/filestore"
	"etkinlik.link/pkg/metrics"
	"etkinlik.link/pkg/validation"
	"etkinlik.link/repositories"

	"go.uber.org/zap"
)

// EventServiceError özel servis hataları
type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound        EventServiceError = "etkinlik bulunamadı"
	ErrEventCreationFailed  EventServiceError = "etkinlik oluşturulamadı"
	ErrEventUpdateFailed    EventServiceError = "etkinlik güncellenemedi"
	ErrEventDeletionFailed  EventServiceError = "etkinlik silinemedi"
	ErrEventRetrievalFailed EventServiceError = "etkinlik bilgileri alınamadı"
)

const (
	msgEndBeforeStart = "The end date field must be a date after or equal to start date."
	msgStartAfterEnd  = "The start date field must be a date before or equal to end date."
)

// CreateEventInput yeni etkinlik isteği.
type CreateEventInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
	StartDate   string  `json:"start_date" validate:"required,datetime_any"`
	EndDate     string  `json:"end_date" validate:"required,datetime_any"`
}

// UpdateEventInput kısmi güncelleme; nil alanlar değişmez.
type UpdateEventInput struct {
	Title       *string `json:"title" validate:"omitnil,max=255"`
	Description *string `json:"description"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
	StartDate   *string `json:"start_date" validate:"omitnil,datetime_any"`
	EndDate     *string `json:"end_date" validate:"omitnil,datetime_any"`
}

// IEventService etkinlik işlemleri için arayüz.
type IEventService interface {
	List(ctx context.Context, actor Actor) ([]models.Event, error)
	Create(ctx context.Context, actor Actor, input CreateEventInput) (*models.Event, error)
	Get(ctx context.Context, actor Actor, id uint) (*models.Event, error)
	Update(ctx context.Context, actor Actor, id uint, input UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

// EventService IEventService arayüzünü uygular.
type EventService struct {
	repo  repositories.IEventRepository
	gate  *Gate
	store filestore.Store
}

func NewEventService(repo repositories.IEventRepository, gate *Gate, store filestore.Store) IEventService {
	return &EventService{repo: repo, gate: gate, store: store}
}

// findAuthorized etkinliği bulur ve sahiplik kontrolü yapar.
func (s *EventService) findAuthorized(ctx context.Context, actor Actor, id uint) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, ErrEventRetrievalFailed
	}
	if err := s.gate.AuthorizeOwner(actor, event, "event"); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context, actor Actor) ([]models.Event, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	events, err := s.repo.FindAllByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, ErrEventRetrievalFailed
	}
	return events, nil
}

func (s *EventService) Create(ctx context.Context, actor Actor, input CreateEventInput) (*models.Event, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	input.Title = strings.TrimSpace(input.Title)
	if err := validate(input, nil); err != nil {
		return nil, err
	}
	start, _ := validation.ParseDateTime(input.StartDate)
	end, _ := validation.ParseDateTime(input.EndDate)
	if end.Before(start) {
		return nil, newValidationError(map[string]string{"end_date": msgEndBeforeStart})
	}

	event := &models.Event{
		OwnerID:     actor.UserID,
		Title:       input.Title,
		Description: nullableString(input.Description),
		Location:    nullableString(input.Location),
		StartDate:   start,
		EndDate:     end,
	}
	if err := s.repo.Create(actor.context(ctx), event); err != nil {
		configslog.Log.Error("Etkinlik oluşturulamadı", zap.Uint("owner_id", actor.UserID), zap.Error(err))
		return nil, ErrEventCreationFailed
	}
	configslog.SLog.Infof("Etkinlik oluşturuldu: ID %d, sahip %d", event.ID, actor.UserID)
	return event, nil
}

// Get etkinliği katılımcı ve materyalleriyle döndürür.
func (s *EventService) Get(ctx context.Context, actor Actor, id uint) (*models.Event, error) {
	if _, err := s.findAuthorized(ctx, actor, id); err != nil {
		return nil, err
	}
	event, err := s.repo.FindByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, ErrEventRetrievalFailed
	}
	return event, nil
}

// Update yalnızca gönderilen alanları doğrular ve yazar. Tarih kontrolü
// gönderilen ve mevcut değerlerin birleşimi üzerinden yapılır.
func (s *EventService) Update(ctx context.Context, actor Actor, id uint, input UpdateEventInput) (*models.Event, error) {
	event, err := s.findAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	extra := map[string]string{}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
		if trimmed == "" {
			extra["title"] = "The title field is required."
		}
	}
	if input.StartDate != nil && strings.TrimSpace(*input.StartDate) == "" {
		extra["start_date"] = "The start date field is required."
	}
	if input.EndDate != nil && strings.TrimSpace(*input.EndDate) == "" {
		extra["end_date"] = "The end date field is required."
	}
	if err := validate(input, extra); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	start, end := event.StartDate, event.EndDate
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = nullableString(input.Description)
	}
	if input.Location != nil {
		fields["location"] = nullableString(input.Location)
	}
	if input.StartDate != nil {
		start, _ = validation.ParseDateTime(*input.StartDate)
		fields["start_date"] = start
	}
	if input.EndDate != nil {
		end, _ = validation.ParseDateTime(*input.EndDate)
		fields["end_date"] = end
	}
	if end.Before(start) {
		if input.EndDate != nil {
			return nil, newValidationError(map[string]string{"end_date": msgEndBeforeStart})
		}
		return nil, newValidationError(map[string]string{"start_date": msgStartAfterEnd})
	}

	if err := s.repo.Update(actor.context(ctx), event, fields); err != nil {
		return nil, ErrEventUpdateFailed
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrEventRetrievalFailed
	}
	configslog.SLog.Infof("Etkinlik güncellendi: ID %d", id)
	return updated, nil
}

// Delete etkinliği ve bağlı kayıtları tek transaction içinde siler, ardından
// materyal dosyalarını depodan kaldırır. Dosya silme hataları kayıtları geri
// getirmez; loglanır ve metriklere yansır.
func (s *EventService) Delete(ctx context.Context, actor Actor, id uint) error {
	event, err := s.findAuthorized(ctx, actor, id)
	if err != nil {
		return err
	}
	paths, err := s.repo.DeleteCascade(actor.context(ctx), event)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return ErrEventDeletionFailed
	}
	s.releaseBlobs(ctx, event.ID, paths)
	configslog.SLog.Infof("Etkinlik silindi: ID %d (%d materyal dosyası)", id, len(paths))
	return nil
}

func (s *EventService) releaseBlobs(ctx context.Context, eventID uint, paths []string) {
	for _, path := range paths {
		err := s.store.Delete(ctx, path)
		switch {
		case err == nil:
		case errors.Is(err, filestore.ErrObjectNotFound):
			configslog.Log.Warn("Silinen etkinliğin materyal dosyası zaten yok",
				zap.Uint("event_id", eventID), zap.String("path", path))
		default:
			metrics.OrphanedBlobs.Inc()
			configslog.Log.Error("Materyal dosyası silinemedi, depoda sahipsiz kaldı",
				zap.Uint("event_id", eventID), zap.String("path", path), zap.Error(err))
		}
	}
}

// nullableString boş veya sadece boşluk içeren değerleri NULL'a çevirir.
func nullableString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

var _ IEventService = (*EventService)(nil)
