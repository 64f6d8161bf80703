package services

import (
	"context"
	"errors"
	"testing"

	"etkinlik.link/models"
)

func TestInviteCreatesEveryParticipantDespiteDispatchFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	e.notifier.fail["e1@example.com"] = true

	result, err := e.participant.Invite(ctx, owner, event.ID, InviteInput{
		Emails: []string{"e1@example.com", "e2@example.com"},
		Names:  []string{"One", "Two"},
	})
	must(t, err, "Invite")

	if len(result.Participants) != 2 {
		t.Fatalf("got %d participants, want 2", len(result.Participants))
	}
	for _, p := range result.Participants {
		if p.Status != models.ParticipantStatusInvited || p.ID == 0 {
			t.Errorf("unexpected participant %+v", p)
		}
	}
	if n := e.count(t, &models.Participant{}, "event_id = ?", event.ID); n != 2 {
		t.Fatalf("stored %d participants, want 2", n)
	}
	if len(e.notifier.invites) != 2 {
		t.Fatalf("dispatched %d invitations, want 2", len(e.notifier.invites))
	}
	if len(result.Dispatch) != 2 || result.Dispatch[0].Queued || !result.Dispatch[1].Queued {
		t.Fatalf("unexpected dispatch report: %+v", result.Dispatch)
	}
	if result.Dispatch[0].Error == "" {
		t.Fatal("failed dispatch should carry an error message")
	}
}

func TestInviteValidatesArrays(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)

	_, err := e.participant.Invite(ctx, owner, event.ID, InviteInput{
		Emails: []string{"a@example.com", "b@example.com"},
		Names:  []string{"A"},
	})
	requireValidation(t, err, "names")

	_, err = e.participant.Invite(ctx, owner, event.ID, InviteInput{})
	requireValidation(t, err, "emails")

	_, err = e.participant.Invite(ctx, owner, event.ID, InviteInput{
		Emails: []string{"a@example.com", "not-an-email"},
		Names:  []string{"A", "B"},
	})
	requireValidation(t, err, "emails.1")

	if n := e.count(t, &models.Participant{}, "event_id = ?", event.ID); n != 0 {
		t.Fatalf("invalid invites must not create participants, got %d", n)
	}
	if len(e.notifier.invites) != 0 {
		t.Fatalf("invalid invites must not dispatch mail, got %v", e.notifier.invites)
	}
}

func TestCreateParticipantDefaultsToInvited(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)

	p, err := e.participant.Create(ctx, owner, event.ID, CreateParticipantInput{Email: "p@example.com", Name: "P"})
	must(t, err, "Create")
	if p.Status != models.ParticipantStatusInvited {
		t.Fatalf("status = %q, want invited", p.Status)
	}

	_, err = e.participant.Create(ctx, owner, event.ID, CreateParticipantInput{Email: "nope", Name: ""})
	verr := requireValidation(t, err, "email")
	if _, ok := verr.Fields["name"]; !ok {
		t.Fatalf("expected name error, got %v", verr.Fields)
	}
}

func TestUpdateStatusAnyToAny(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	stranger := e.user(t, "stranger@example.com")
	event := e.event(t, owner)
	p := e.addParticipant(t, owner, event.ID, "p@example.com", models.ParticipantStatusAttended)

	for _, status := range []string{"invited", "declined", "confirmed", "attended", "invited"} {
		got, err := e.participant.UpdateStatus(ctx, owner, p.ID, UpdateParticipantInput{Status: strPtr(status)})
		must(t, err, "UpdateStatus(%s)", status)
		if string(got.Status) != status {
			t.Fatalf("status = %q, want %q", got.Status, status)
		}
	}

	_, err := e.participant.UpdateStatus(ctx, owner, p.ID, UpdateParticipantInput{Status: strPtr("maybe")})
	requireValidation(t, err, "status")

	_, err = e.participant.UpdateStatus(ctx, stranger, p.ID, UpdateParticipantInput{Status: strPtr("declined")})
	requireForbidden(t, err, "UpdateStatus")
	requireForbidden(t, e.participant.Delete(ctx, stranger, p.ID), "Delete")

	must(t, e.participant.Delete(ctx, owner, p.ID), "Delete")
	if err := e.participant.Delete(ctx, owner, p.ID); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("second Delete = %v, want ErrParticipantNotFound", err)
	}
}

func TestRespondToInvitation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	p := e.addParticipant(t, owner, event.ID, "p@example.com", models.ParticipantStatusInvited)

	token, err := e.issuer.IssueRSVP(p.ID)
	must(t, err, "IssueRSVP")

	got, err := e.participant.RespondToInvitation(ctx, token, models.ParticipantStatusConfirmed)
	must(t, err, "confirm")
	if got.Status != models.ParticipantStatusConfirmed || got.Event == nil || got.Event.ID != event.ID {
		t.Fatalf("unexpected participant after confirm: %+v", got)
	}

	if _, err := e.participant.RespondToInvitation(ctx, token, models.ParticipantStatusAttended); !errors.Is(err, ErrInvalidRSVPStatus) {
		t.Fatalf("attended via link = %v, want ErrInvalidRSVPStatus", err)
	}
	if _, err := e.participant.RespondToInvitation(ctx, "garbage", models.ParticipantStatusDeclined); !errors.Is(err, ErrInvalidRSVPToken) {
		t.Fatalf("garbage token = %v, want ErrInvalidRSVPToken", err)
	}
}
