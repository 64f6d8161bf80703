package services

import (
	"context"
	"fmt"
	"strings"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"
	"etkinlik.link/pkg/mailer"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	mailTagInvitation      = "event_invitation"
	mailTagFeedbackRequest = "feedback_request"
)

// Notifier katılımcılara giden e-postaları kuyruğa bırakır.
// Dönen hata sadece kuyruğa alma aşamasına aittir; teslimat arka planda yapılır.
type Notifier interface {
	SendInvitation(ctx context.Context, event *models.Event, participant *models.Participant) error
	SendFeedbackRequest(ctx context.Context, event *models.Event, participant *models.Participant) error
}

// MailRenderer e-posta şablonlarını işler.
type MailRenderer interface {
	Render(name string, data interface{}) (string, error)
}

// MailQueue bloklamayan e-posta kuyruğu.
type MailQueue interface {
	Enqueue(msg mailer.Message) error
}

// RSVPTokenIssuer davet bağlantıları için imzalı token üretir.
type RSVPTokenIssuer interface {
	IssueRSVP(participantID uint) (string, error)
}

// NotificationService Notifier'ı şablon + kuyruk ile uygular.
type NotificationService struct {
	renderer MailRenderer
	queue    MailQueue
	tokens   RSVPTokenIssuer
	appURL   string
	appName  string
}

func NewNotificationService(renderer MailRenderer, queue MailQueue, tokens RSVPTokenIssuer, appURL, appName string) *NotificationService {
	return &NotificationService{
		renderer: renderer,
		queue:    queue,
		tokens:   tokens,
		appURL:   strings.TrimRight(appURL, "/"),
		appName:  appName,
	}
}

// SendInvitation onay/ret bağlantılarını içeren davet e-postasını kuyruğa alır.
func (s *NotificationService) SendInvitation(ctx context.Context, event *models.Event, participant *models.Participant) error {
	token, err := s.tokens.IssueRSVP(participant.ID)
	if err != nil {
		return fmt.Errorf("lcv token üretilemedi: %w", err)
	}
	html, err := s.renderer.Render(mailTagInvitation, map[string]interface{}{
		"Event":       event,
		"Participant": participant,
		"ConfirmURL":  fmt.Sprintf("%s/rsvp/%s/confirm", s.appURL, token),
		"DeclineURL":  fmt.Sprintf("%s/rsvp/%s/decline", s.appURL, token),
	})
	if err != nil {
		configslog.Log.Error("Davet e-postası şablonu işlenemedi", zap.Uint("event_id", event.ID), zap.Error(err))
		return err
	}
	return s.queue.Enqueue(mailer.Message{
		To:      participant.Email,
		Subject: fmt.Sprintf("Invitation: %s", event.Title),
		HTML:    html,
		Tag:     mailTagInvitation,
	})
}

// SendFeedbackRequest geri bildirim isteği e-postasını kuyruğa alır.
func (s *NotificationService) SendFeedbackRequest(ctx context.Context, event *models.Event, participant *models.Participant) error {
	html, err := s.renderer.Render(mailTagFeedbackRequest, map[string]interface{}{
		"Event":       event,
		"Participant": participant,
		"FeedbackURL": fmt.Sprintf("%s/events/%d/feedback?participant_id=%d", s.appURL, event.ID, participant.ID),
	})
	if err != nil {
		configslog.Log.Error("Geri bildirim e-postası şablonu işlenemedi", zap.Uint("event_id", event.ID), zap.Error(err))
		return err
	}
	return s.queue.Enqueue(mailer.Message{
		To:      participant.Email,
		Subject: fmt.Sprintf("Feedback Request: %s", event.Title),
		HTML:    html,
		Tag:     mailTagFeedbackRequest,
	})
}

// DispatchOutcome tek alıcı için kuyruğa alma sonucu.
type DispatchOutcome struct {
	ParticipantID uint   `json:"participant_id"`
	Email         string `json:"email"`
	Queued        bool   `json:"queued"`
	Error         string `json:"error,omitempty"`
}

// DispatchReport toplu gönderimlerde alıcı bazlı sonuçları toplar.
// Bir alıcının hatası diğerlerinin gönderimini durdurmaz.
type DispatchReport struct {
	Outcomes []DispatchOutcome
	err      error
}

func (r *DispatchReport) record(participant *models.Participant, err error) {
	outcome := DispatchOutcome{ParticipantID: participant.ID, Email: participant.Email, Queued: err == nil}
	if err != nil {
		outcome.Error = err.Error()
		r.err = multierr.Append(r.err, fmt.Errorf("%s: %w", participant.Email, err))
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// Err başarısız alıcıların hatalarını birleşik olarak döndürür.
func (r *DispatchReport) Err() error {
	return r.err
}

// Failed kuyruğa alınamayan alıcı sayısı.
func (r *DispatchReport) Failed() int {
	return len(multierr.Errors(r.err))
}

var _ Notifier = (*NotificationService)(nil)
