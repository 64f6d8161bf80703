package services

import (
	"context"
	"errors"
	"strings"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"
	"etkinlik.link/repositories"

	"go.uber.org/zap"
)

// FeedbackServiceError özel servis hataları
type FeedbackServiceError string

func (e FeedbackServiceError) Error() string { return string(e) }

const (
	ErrFeedbackSaveFailed      FeedbackServiceError = "geri bildirim kaydedilemedi"
	ErrFeedbackRetrievalFailed FeedbackServiceError = "geri bildirimler alınamadı"
)

const msgFeedbackEmpty = "Either rating or comments must be provided"

// FeedbackPolicy geri bildirim gönderiminde kimlik kuralını belirler.
type FeedbackPolicy string

const (
	// FeedbackPolicyPublic geçerli bir participant_id bilen herkes gönderebilir.
	FeedbackPolicyPublic FeedbackPolicy = "public"
	// FeedbackPolicyParticipant oturum açmış ve e-postası katılımcıyla eşleşen kullanıcı gerekir.
	FeedbackPolicyParticipant FeedbackPolicy = "participant"
)

// ParseFeedbackPolicy bilinmeyen değerlerde public'e döner.
func ParseFeedbackPolicy(value string) FeedbackPolicy {
	if FeedbackPolicy(strings.ToLower(strings.TrimSpace(value))) == FeedbackPolicyParticipant {
		return FeedbackPolicyParticipant
	}
	return FeedbackPolicyPublic
}

// SubmitFeedbackInput geri bildirim gönderimi. Sadece gönderilen alanlar yazılır.
type SubmitFeedbackInput struct {
	ParticipantID *uint   `json:"participant_id" validate:"required"`
	Rating        *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	Comments      *string `json:"comments"`
}

// FeedbackRequestResult geri bildirim isteği yayınının sonucu.
type FeedbackRequestResult struct {
	Message  string            `json:"message"`
	Dispatch []DispatchOutcome `json:"dispatch"`
}

// IFeedbackService geri bildirim işlemleri için arayüz.
type IFeedbackService interface {
	List(ctx context.Context, actor Actor, eventID uint) ([]models.Feedback, error)
	Submit(ctx context.Context, actor Actor, eventID uint, input SubmitFeedbackInput) (*models.Feedback, bool, error)
	RequestFeedback(ctx context.Context, actor Actor, eventID uint) (*FeedbackRequestResult, error)
}

// FeedbackService IFeedbackService arayüzünü uygular.
type FeedbackService struct {
	repo         repositories.IFeedbackRepository
	events       repositories.IEventRepository
	participants repositories.IParticipantRepository
	gate         *Gate
	notifier     Notifier
	policy       FeedbackPolicy
}

func NewFeedbackService(repo repositories.IFeedbackRepository, events repositories.IEventRepository, participants repositories.IParticipantRepository, gate *Gate, notifier Notifier, policy FeedbackPolicy) IFeedbackService {
	return &FeedbackService{
		repo:         repo,
		events:       events,
		participants: participants,
		gate:         gate,
		notifier:     notifier,
		policy:       policy,
	}
}

func (s *FeedbackService) findEvent(ctx context.Context, eventID uint) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, ErrEventRetrievalFailed
	}
	return event, nil
}

func (s *FeedbackService) List(ctx context.Context, actor Actor, eventID uint) ([]models.Feedback, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeOwner(actor, event, "feedback"); err != nil {
		return nil, err
	}
	feedback, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, ErrFeedbackRetrievalFailed
	}
	return feedback, nil
}

// Submit geri bildirimi (event, participant) için oluşturur veya günceller.
// Dönen bool kaydın yeni oluşturulduğunu belirtir.
func (s *FeedbackService) Submit(ctx context.Context, actor Actor, eventID uint, input SubmitFeedbackInput) (*models.Feedback, bool, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	if err := validate(input, nil); err != nil {
		return nil, false, err
	}

	participant, err := s.participants.FindByID(ctx, *input.ParticipantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, newValidationError(map[string]string{"participant_id": "The selected participant id is invalid."})
		}
		return nil, false, ErrParticipantRetrievalFailed
	}

	comments := nullableString(input.Comments)
	if input.Rating == nil && comments == nil {
		return nil, false, &ValidationError{Message: msgFeedbackEmpty}
	}

	if s.policy == FeedbackPolicyParticipant {
		if !actor.Authenticated() {
			return nil, false, ErrUnauthenticated
		}
		if participant.EventID != event.ID || !strings.EqualFold(strings.TrimSpace(actor.Email), participant.Email) {
			return nil, false, s.gate.deny(actor, event, "feedback")
		}
	}

	feedback := &models.Feedback{
		EventID:       event.ID,
		ParticipantID: participant.ID,
		Rating:        input.Rating,
		Comments:      comments,
	}
	fields := repositories.FeedbackFields{Rating: input.Rating != nil, Comments: comments != nil}
	stored, created, err := s.repo.Upsert(actor.context(ctx), feedback, fields)
	if err != nil {
		configslog.Log.Error("Geri bildirim kaydedilemedi",
			zap.Uint("event_id", event.ID), zap.Uint("participant_id", participant.ID), zap.Error(err))
		return nil, false, ErrFeedbackSaveFailed
	}
	return stored, created, nil
}

// RequestFeedback onaylamış veya katılmış herkese geri bildirim isteği gönderir.
func (s *FeedbackService) RequestFeedback(ctx context.Context, actor Actor, eventID uint) (*FeedbackRequestResult, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeOwner(actor, event, "feedback"); err != nil {
		return nil, err
	}
	participants, err := s.participants.FindByEventAndStatuses(ctx, eventID, []models.ParticipantStatus{
		models.ParticipantStatusConfirmed,
		models.ParticipantStatusAttended,
	})
	if err != nil {
		return nil, ErrParticipantRetrievalFailed
	}

	report := &DispatchReport{Outcomes: make([]DispatchOutcome, 0, len(participants))}
	for i := range participants {
		p := &participants[i]
		report.record(p, s.notifier.SendFeedbackRequest(ctx, event, p))
	}
	if err := report.Err(); err != nil {
		configslog.Log.Warn("Bazı geri bildirim istekleri kuyruğa alınamadı",
			zap.Uint("event_id", eventID), zap.Int("failed", report.Failed()), zap.Error(err))
	}
	return &FeedbackRequestResult{
		Message:  "Feedback requests sent successfully",
		Dispatch: report.Outcomes,
	}, nil
}

var _ IFeedbackService = (*FeedbackService)(nil)
