package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"etkinlik.link/database/testdb"
	"etkinlik.link/models"
	"etkinlik.link/pkg/filestore"
	"etkinlik.link/pkg/tokens"
	"etkinlik.link/repositories"

	"gorm.io/gorm"
)

const testMaxBytes = 10 << 20

type fakeNotifier struct {
	mu        sync.Mutex
	fail      map[string]bool
	invites   []string
	feedbacks []string
}

func (n *fakeNotifier) SendInvitation(_ context.Context, _ *models.Event, p *models.Participant) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invites = append(n.invites, p.Email)
	if n.fail[p.Email] {
		return errors.New("queue full")
	}
	return nil
}

func (n *fakeNotifier) SendFeedbackRequest(_ context.Context, _ *models.Event, p *models.Participant) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.feedbacks = append(n.feedbacks, p.Email)
	if n.fail[p.Email] {
		return errors.New("queue full")
	}
	return nil
}

type env struct {
	db       *gorm.DB
	store    *filestore.LocalStore
	notifier *fakeNotifier
	issuer   *tokens.Issuer

	users        repositories.IUserRepository
	eventRepo    repositories.IEventRepository
	participants repositories.IParticipantRepository
	materialRepo repositories.IMaterialRepository
	feedbackRepo repositories.IFeedbackRepository

	gate         *Gate
	events       IEventService
	participant  IParticipantService
	materials    IMaterialService
	feedback     IFeedbackService
	feedbackOpts FeedbackPolicy
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testdb.New(t)
	store, err := filestore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	e := &env{
		db:           db,
		store:        store,
		notifier:     &fakeNotifier{fail: map[string]bool{}},
		issuer:       tokens.NewIssuer("test-secret", "etkinlik-test", time.Hour, time.Hour),
		users:        repositories.NewUserRepository(db),
		eventRepo:    repositories.NewEventRepository(db),
		participants: repositories.NewParticipantRepository(db),
		materialRepo: repositories.NewMaterialRepository(db),
		feedbackRepo: repositories.NewFeedbackRepository(db),
	}
	e.gate = NewGate(e.participants)
	e.events = NewEventService(e.eventRepo, e.gate, e.store)
	e.participant = NewParticipantService(e.participants, e.eventRepo, e.gate, e.notifier, e.issuer)
	e.materials = NewMaterialService(e.materialRepo, e.eventRepo, e.gate, e.store, testMaxBytes)
	e.feedback = NewFeedbackService(e.feedbackRepo, e.eventRepo, e.participants, e.gate, e.notifier, FeedbackPolicyPublic)
	return e
}

func (e *env) user(t *testing.T, email string) Actor {
	t.Helper()
	u := &models.User{Name: strings.Split(email, "@")[0], Email: email, PasswordHash: "x"}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return Actor{UserID: u.ID, Email: u.Email}
}

func (e *env) event(t *testing.T, owner Actor) *models.Event {
	t.Helper()
	event, err := e.events.Create(context.Background(), owner, CreateEventInput{
		Title:     "Go Meetup",
		StartDate: "2026-05-01T18:00:00Z",
		EndDate:   "2026-05-01T21:00:00Z",
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func (e *env) addParticipant(t *testing.T, owner Actor, eventID uint, email string, status models.ParticipantStatus) *models.Participant {
	t.Helper()
	s := string(status)
	p, err := e.participant.Create(context.Background(), owner, eventID, CreateParticipantInput{
		Email:  email,
		Name:   strings.Split(email, "@")[0],
		Status: &s,
	})
	if err != nil {
		t.Fatalf("create participant %s: %v", email, err)
	}
	return p
}

func (e *env) count(t *testing.T, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func uintPtr(u uint) *uint    { return &u }

func requireValidation(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if field != "" {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected validation error on %q, got %v", field, verr.Fields)
		}
	}
	return verr
}

func requireForbidden(t *testing.T, err error, op string) {
	t.Helper()
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("%s: expected ErrForbidden, got %v", op, err)
	}
}

func must(t *testing.T, err error, format string, args ...interface{}) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", fmt.Sprintf(format, args...), err)
	}
}
