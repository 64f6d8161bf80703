package services

import (
	"context"
	"strings"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"
	"etkinlik.link/pkg/metrics"
	"etkinlik.link/repositories"

	"go.uber.org/zap"
)

// GateError yetkilendirme hataları.
type GateError string

func (e GateError) Error() string { return string(e) }

const (
	ErrForbidden       GateError = "bu işlem için yetkiniz yok"
	ErrUnauthenticated GateError = "kimlik doğrulaması gerekli"
)

// Gate etkinlik ve alt kaynaklarına erişimi tek noktadan denetler.
// Kural: işlemi yapan etkinliğin sahibi olmalı. Materyal indirmede
// etkinliğe e-postasıyla davet edilmiş katılımcılar da kabul edilir.
type Gate struct {
	participants repositories.IParticipantRepository
}

func NewGate(participants repositories.IParticipantRepository) *Gate {
	return &Gate{participants: participants}
}

// AuthorizeOwner actor etkinliğin sahibi değilse ErrForbidden döner.
func (g *Gate) AuthorizeOwner(actor Actor, event *models.Event, resource string) error {
	if event != nil && event.IsOwnedBy(actor.UserID) {
		return nil
	}
	return g.deny(actor, event, resource)
}

// AuthorizeOwnerOrParticipant sahibe veya e-postası etkinlikte katılımcı olarak kayıtlı kullanıcıya izin verir.
func (g *Gate) AuthorizeOwnerOrParticipant(ctx context.Context, actor Actor, event *models.Event, resource string) error {
	if event == nil {
		return g.deny(actor, event, resource)
	}
	if event.IsOwnedBy(actor.UserID) {
		return nil
	}
	email := strings.TrimSpace(actor.Email)
	if actor.Authenticated() && email != "" {
		ok, err := g.participants.ExistsByEventAndEmail(ctx, event.ID, email)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return g.deny(actor, event, resource)
}

func (g *Gate) deny(actor Actor, event *models.Event, resource string) error {
	metrics.AuthorizationDenied.WithLabelValues(resource).Inc()
	var eventID uint
	if event != nil {
		eventID = event.ID
	}
	configslog.Log.Info("Yetkisiz erişim reddedildi",
		zap.Uint("user_id", actor.UserID), zap.Uint("event_id", eventID), zap.String("resource", resource))
	return ErrForbidden
}
