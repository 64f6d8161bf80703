package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"
	"etkinlik.link/repositories"

	"go.uber.org/zap"
)

// ParticipantServiceError özel servis hataları
type ParticipantServiceError string

func (e ParticipantServiceError) Error() string { return string(e) }

const (
	ErrParticipantNotFound        ParticipantServiceError = "katılımcı bulunamadı"
	ErrParticipantCreationFailed  ParticipantServiceError = "katılımcı oluşturulamadı"
	ErrParticipantUpdateFailed    ParticipantServiceError = "katılımcı güncellenemedi"
	ErrParticipantDeletionFailed  ParticipantServiceError = "katılımcı silinemedi"
	ErrParticipantRetrievalFailed ParticipantServiceError = "katılımcı bilgileri alınamadı"
	ErrInvalidRSVPToken           ParticipantServiceError = "davet bağlantısı geçersiz veya süresi dolmuş"
	ErrInvalidRSVPStatus          ParticipantServiceError = "davet yanıtı sadece onay veya ret olabilir"
)

// CreateParticipantInput tek katılımcı ekleme isteği.
type CreateParticipantInput struct {
	Email  string  `json:"email" validate:"required,email,max=255"`
	Name   string  `json:"name" validate:"required,max=255"`
	Status *string `json:"status" validate:"omitnil,oneof=invited confirmed declined attended"`
}

// InviteInput toplu davet isteği; emails[i] ile names[i] aynı kişiye aittir.
type InviteInput struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,required,email,max=255"`
	Names  []string `json:"names" validate:"required,min=1,dive,required,max=255"`
}

// UpdateParticipantInput durum güncellemesi; status verilmezse kayıt değişmez.
type UpdateParticipantInput struct {
	Status *string `json:"status" validate:"omitnil,oneof=invited confirmed declined attended"`
}

// InviteResult toplu davet sonucu.
type InviteResult struct {
	Participants []models.Participant `json:"participants"`
	Dispatch     []DispatchOutcome    `json:"dispatch"`
}

// RSVPTokenParser davet bağlantısındaki token'ı çözer.
type RSVPTokenParser interface {
	ParseRSVP(raw string) (uint, error)
}

// IParticipantService katılımcı işlemleri için arayüz.
type IParticipantService interface {
	List(ctx context.Context, actor Actor, eventID uint) ([]models.Participant, error)
	Create(ctx context.Context, actor Actor, eventID uint, input CreateParticipantInput) (*models.Participant, error)
	Invite(ctx context.Context, actor Actor, eventID uint, input InviteInput) (*InviteResult, error)
	UpdateStatus(ctx context.Context, actor Actor, participantID uint, input UpdateParticipantInput) (*models.Participant, error)
	Delete(ctx context.Context, actor Actor, participantID uint) error
	RespondToInvitation(ctx context.Context, token string, status models.ParticipantStatus) (*models.Participant, error)
}

// ParticipantService IParticipantService arayüzünü uygular.
type ParticipantService struct {
	repo     repositories.IParticipantRepository
	events   repositories.IEventRepository
	gate     *Gate
	notifier Notifier
	tokens   RSVPTokenParser
}

func NewParticipantService(repo repositories.IParticipantRepository, events repositories.IEventRepository, gate *Gate, notifier Notifier, tokens RSVPTokenParser) IParticipantService {
	return &ParticipantService{repo: repo, events: events, gate: gate, notifier: notifier, tokens: tokens}
}

func (s *ParticipantService) authorizedEvent(ctx context.Context, actor Actor, eventID uint) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, ErrEventRetrievalFailed
	}
	if err := s.gate.AuthorizeOwner(actor, event, "participant"); err != nil {
		return nil, err
	}
	return event, nil
}

// authorizedParticipant katılımcıyı bulur ve bağlı olduğu etkinlik üzerinden yetki kontrolü yapar.
func (s *ParticipantService) authorizedParticipant(ctx context.Context, actor Actor, participantID uint) (*models.Participant, error) {
	participant, err := s.repo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, ErrParticipantRetrievalFailed
	}
	if err := s.gate.AuthorizeOwner(actor, participant.Event, "participant"); err != nil {
		return nil, err
	}
	return participant, nil
}

func (s *ParticipantService) List(ctx context.Context, actor Actor, eventID uint) ([]models.Participant, error) {
	if _, err := s.authorizedEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}
	participants, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, ErrParticipantRetrievalFailed
	}
	return participants, nil
}

func (s *ParticipantService) Create(ctx context.Context, actor Actor, eventID uint, input CreateParticipantInput) (*models.Participant, error) {
	if _, err := s.authorizedEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := validate(input, nil); err != nil {
		return nil, err
	}

	status := models.ParticipantStatusInvited
	if input.Status != nil {
		status = models.ParticipantStatus(*input.Status)
	}
	participant := &models.Participant{
		EventID: eventID,
		Email:   input.Email,
		Name:    input.Name,
		Status:  status,
	}
	if err := s.repo.Create(actor.context(ctx), participant); err != nil {
		configslog.Log.Error("Katılımcı oluşturulamadı", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, ErrParticipantCreationFailed
	}
	return participant, nil
}

// Invite katılımcıları tek transaction'da oluşturur, ardından her biri için
// davet e-postasını kuyruğa alır. Bir alıcının hatası diğerlerini etkilemez;
// sonuçlar alıcı bazında döndürülür.
func (s *ParticipantService) Invite(ctx context.Context, actor Actor, eventID uint, input InviteInput) (*InviteResult, error) {
	event, err := s.authorizedEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	for i := range input.Emails {
		input.Emails[i] = strings.TrimSpace(input.Emails[i])
	}
	for i := range input.Names {
		input.Names[i] = strings.TrimSpace(input.Names[i])
	}
	var extra map[string]string
	if len(input.Emails) != len(input.Names) {
		extra = map[string]string{"names": fmt.Sprintf("The names field must contain %d items.", len(input.Emails))}
	}
	if err := validate(input, extra); err != nil {
		return nil, err
	}

	participants := make([]*models.Participant, len(input.Emails))
	for i := range input.Emails {
		participants[i] = &models.Participant{
			EventID: eventID,
			Email:   input.Emails[i],
			Name:    input.Names[i],
			Status:  models.ParticipantStatusInvited,
		}
	}
	if err := s.repo.CreateMany(actor.context(ctx), participants); err != nil {
		configslog.Log.Error("Toplu davet katılımcıları oluşturulamadı", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, ErrParticipantCreationFailed
	}

	report := &DispatchReport{}
	result := &InviteResult{Participants: make([]models.Participant, 0, len(participants))}
	for _, p := range participants {
		result.Participants = append(result.Participants, *p)
		report.record(p, s.notifier.SendInvitation(ctx, event, p))
	}
	result.Dispatch = report.Outcomes
	if err := report.Err(); err != nil {
		configslog.Log.Warn("Bazı davet e-postaları kuyruğa alınamadı",
			zap.Uint("event_id", eventID), zap.Int("failed", report.Failed()), zap.Error(err))
	}
	configslog.SLog.Infof("Etkinlik %d için %d davet oluşturuldu", eventID, len(participants))
	return result, nil
}

func (s *ParticipantService) UpdateStatus(ctx context.Context, actor Actor, participantID uint, input UpdateParticipantInput) (*models.Participant, error) {
	participant, err := s.authorizedParticipant(ctx, actor, participantID)
	if err != nil {
		return nil, err
	}
	if err := validate(input, nil); err != nil {
		return nil, err
	}
	if input.Status == nil {
		return participant, nil
	}
	if err := s.repo.UpdateStatus(actor.context(ctx), participant, models.ParticipantStatus(*input.Status)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, ErrParticipantUpdateFailed
	}
	return participant, nil
}

func (s *ParticipantService) Delete(ctx context.Context, actor Actor, participantID uint) error {
	participant, err := s.authorizedParticipant(ctx, actor, participantID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, participant); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrParticipantNotFound
		}
		return ErrParticipantDeletionFailed
	}
	return nil
}

// RespondToInvitation davet e-postasındaki bağlantıdan gelen onay/ret yanıtını kaydeder.
// Kimlik doğrulaması token'ın imzasıyla yapılır.
func (s *ParticipantService) RespondToInvitation(ctx context.Context, token string, status models.ParticipantStatus) (*models.Participant, error) {
	if status != models.ParticipantStatusConfirmed && status != models.ParticipantStatusDeclined {
		return nil, ErrInvalidRSVPStatus
	}
	participantID, err := s.tokens.ParseRSVP(token)
	if err != nil {
		return nil, ErrInvalidRSVPToken
	}
	participant, err := s.repo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, ErrParticipantRetrievalFailed
	}
	if participant.Status == status {
		return participant, nil
	}
	if err := s.repo.UpdateStatus(ctx, participant, status); err != nil {
		return nil, ErrParticipantUpdateFailed
	}
	configslog.SLog.Infof("Katılımcı %d davete yanıt verdi: %s", participant.ID, status)
	return participant, nil
}

var _ IParticipantService = (*ParticipantService)(nil)
