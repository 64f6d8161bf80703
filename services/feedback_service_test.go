package services

import (
	"context"
	"errors"
	"testing"

	"etkinlik.link/models"
)

func TestFeedbackUpsertOverwritesOnlyProvidedFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	p := e.addParticipant(t, owner, event.ID, "p@example.com", models.ParticipantStatusAttended)

	first, created, err := e.feedback.Submit(ctx, Actor{}, event.ID, SubmitFeedbackInput{ParticipantID: uintPtr(p.ID), Rating: intPtr(4)})
	must(t, err, "first submit")
	if !created {
		t.Fatal("first submission should create the row")
	}

	second, created, err := e.feedback.Submit(ctx, Actor{}, event.ID, SubmitFeedbackInput{ParticipantID: uintPtr(p.ID), Comments: strPtr("great")})
	must(t, err, "second submit")
	if created {
		t.Fatal("second submission should update the existing row")
	}
	if second.ID != first.ID {
		t.Fatalf("row id changed: %d -> %d", first.ID, second.ID)
	}
	if second.Rating == nil || *second.Rating != 4 {
		t.Fatalf("rating = %v, want 4 retained", second.Rating)
	}
	if second.Comments == nil || *second.Comments != "great" {
		t.Fatalf("comments = %v, want great", second.Comments)
	}
	if n := e.count(t, &models.Feedback{}, "event_id = ? AND participant_id = ?", event.ID, p.ID); n != 1 {
		t.Fatalf("found %d feedback rows, want exactly 1", n)
	}

	third, _, err := e.feedback.Submit(ctx, Actor{}, event.ID, SubmitFeedbackInput{ParticipantID: uintPtr(p.ID), Rating: intPtr(2)})
	must(t, err, "third submit")
	if *third.Rating != 2 || third.Comments == nil || *third.Comments != "great" {
		t.Fatalf("unexpected row after rating overwrite: %+v", third)
	}

	list, err := e.feedback.List(ctx, owner, event.ID)
	must(t, err, "List")
	if len(list) != 1 || list[0].Participant == nil || list[0].Participant.Email != "p@example.com" {
		t.Fatalf("unexpected feedback list: %+v", list)
	}
}

func TestFeedbackRequiresRatingOrComments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	p := e.addParticipant(t, owner, event.ID, "p@example.com", models.ParticipantStatusAttended)

	_, _, err := e.feedback.Submit(ctx, Actor{}, event.ID, SubmitFeedbackInput{ParticipantID: uintPtr(p.ID), Comments: strPtr("")})
	verr := requireValidation(t, err, "")
	if verr.Message != msgFeedbackEmpty {
		t.Fatalf("message = %q", verr.Message)
	}

	_, _, err = e.feedback.Submit(ctx, Actor{}, event.ID, SubmitFeedbackInput{ParticipantID: uintPtr(p.ID), Rating: intPtr(6)})
	requireValidation(t, err, "rating")

	_, _, err = e.feedback.Submit(ctx, Actor{}, event.ID, SubmitFeedbackInput{ParticipantID: uintPtr(9999), Rating: intPtr(3)})
	requireValidation(t, err, "participant_id")

	_, _, err = e.feedback.Submit(ctx, Actor{}, event.ID, SubmitFeedbackInput{Rating: intPtr(3)})
	requireValidation(t, err, "participant_id")

	if n := e.count(t, &models.Feedback{}, "event_id = ?", event.ID); n != 0 {
		t.Fatalf("rejected submissions stored %d rows", n)
	}
}

func TestFeedbackParticipantPolicy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	guest := e.user(t, "guest@example.com")
	stranger := e.user(t, "stranger@example.com")
	event := e.event(t, owner)
	p := e.addParticipant(t, owner, event.ID, "guest@example.com", models.ParticipantStatusAttended)
	svc := NewFeedbackService(e.feedbackRepo, e.eventRepo, e.participants, e.gate, e.notifier, ParseFeedbackPolicy("participant"))
	input := SubmitFeedbackInput{ParticipantID: uintPtr(p.ID), Rating: intPtr(5)}

	if _, _, err := svc.Submit(ctx, Actor{}, event.ID, input); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous submit = %v, want ErrUnauthenticated", err)
	}
	_, _, err := svc.Submit(ctx, stranger, event.ID, input)
	requireForbidden(t, err, "stranger submit")

	_, created, err := svc.Submit(ctx, guest, event.ID, input)
	must(t, err, "participant submit")
	if !created {
		t.Fatal("expected a new row")
	}
}

func TestRequestFeedbackTargetsConfirmedAndAttended(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	e.addParticipant(t, owner, event.ID, "invited@example.com", models.ParticipantStatusInvited)
	e.addParticipant(t, owner, event.ID, "declined@example.com", models.ParticipantStatusDeclined)
	e.addParticipant(t, owner, event.ID, "confirmed@example.com", models.ParticipantStatusConfirmed)
	e.addParticipant(t, owner, event.ID, "attended@example.com", models.ParticipantStatusAttended)
	e.notifier.fail["confirmed@example.com"] = true

	result, err := e.feedback.RequestFeedback(ctx, owner, event.ID)
	must(t, err, "RequestFeedback")

	if len(e.notifier.feedbacks) != 2 {
		t.Fatalf("dispatched to %v, want confirmed and attended only", e.notifier.feedbacks)
	}
	if len(result.Dispatch) != 2 || result.Dispatch[0].Queued || !result.Dispatch[1].Queued {
		t.Fatalf("unexpected dispatch report: %+v", result.Dispatch)
	}
}

func TestParseFeedbackPolicy(t *testing.T) {
	cases := map[string]FeedbackPolicy{
		"":            FeedbackPolicyPublic,
		"public":      FeedbackPolicyPublic,
		"Participant": FeedbackPolicyParticipant,
		"bogus":       FeedbackPolicyPublic,
	}
	for in, want := range cases {
		if got := ParseFeedbackPolicy(in); got != want {
			t.Errorf("ParseFeedbackPolicy(%q) = %q, want %q", in, got, want)
		}
	}
}
