package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"etkinlik.link/models"
)

func TestNonOwnerCannotTouchEvent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	stranger := e.user(t, "stranger@example.com")
	event := e.event(t, owner)

	_, err := e.events.Get(ctx, stranger, event.ID)
	requireForbidden(t, err, "Get")

	_, err = e.events.Update(ctx, stranger, event.ID, UpdateEventInput{Title: strPtr("Hijacked")})
	requireForbidden(t, err, "Update")

	requireForbidden(t, e.events.Delete(ctx, stranger, event.ID), "Delete")

	_, err = e.participant.List(ctx, stranger, event.ID)
	requireForbidden(t, err, "participants.List")
	_, err = e.materials.List(ctx, stranger, event.ID)
	requireForbidden(t, err, "materials.List")
	_, err = e.feedback.List(ctx, stranger, event.ID)
	requireForbidden(t, err, "feedback.List")
	_, err = e.feedback.RequestFeedback(ctx, stranger, event.ID)
	requireForbidden(t, err, "feedback.RequestFeedback")

	stored, err := e.eventRepo.FindByID(ctx, event.ID)
	must(t, err, "reload event")
	if stored.Title != "Go Meetup" || !stored.UpdatedAt.Equal(event.UpdatedAt) {
		t.Fatalf("event was modified by a non-owner: %+v", stored)
	}
	if len(e.notifier.feedbacks) != 0 {
		t.Fatalf("denied request must not dispatch mail, got %v", e.notifier.feedbacks)
	}
}

func TestCreateEventDateOrdering(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")

	_, err := e.events.Create(ctx, owner, CreateEventInput{
		Title:     "Backwards",
		StartDate: "2026-05-02 10:00",
		EndDate:   "2026-05-01 10:00",
	})
	requireValidation(t, err, "end_date")

	event, err := e.events.Create(ctx, owner, CreateEventInput{
		Title:     "Instant",
		StartDate: "2026-05-02T10:00",
		EndDate:   "2026-05-02T10:00",
	})
	must(t, err, "equal dates should be accepted")
	if !event.StartDate.Equal(event.EndDate) {
		t.Fatalf("start %v != end %v", event.StartDate, event.EndDate)
	}
}

func TestCreateEventValidatesFields(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")

	_, err := e.events.Create(context.Background(), owner, CreateEventInput{
		Title:     "   ",
		Location:  strPtr(strings.Repeat("x", 256)),
		StartDate: "not a date",
	})
	verr := requireValidation(t, err, "title")
	for _, field := range []string{"location", "start_date", "end_date"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("expected error on %s, got %v", field, verr.Fields)
		}
	}
}

func TestUpdateEventRechecksAgainstStoredDates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner) // 18:00 - 21:00

	_, err := e.events.Update(ctx, owner, event.ID, UpdateEventInput{EndDate: strPtr("2026-05-01T17:00:00Z")})
	requireValidation(t, err, "end_date")

	_, err = e.events.Update(ctx, owner, event.ID, UpdateEventInput{StartDate: strPtr("2026-05-01T22:00:00Z")})
	requireValidation(t, err, "start_date")

	updated, err := e.events.Update(ctx, owner, event.ID, UpdateEventInput{
		Title:     strPtr("Go Meetup #2"),
		StartDate: strPtr("2026-05-01T22:00:00Z"),
		EndDate:   strPtr("2026-05-01T23:00:00Z"),
		Location:  strPtr("Istanbul"),
	})
	must(t, err, "valid update")
	if updated.Title != "Go Meetup #2" || updated.Location == nil || *updated.Location != "Istanbul" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if want := time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC); !updated.StartDate.Equal(want) {
		t.Fatalf("start = %v, want %v", updated.StartDate, want)
	}

	_, err = e.events.Update(ctx, owner, event.ID, UpdateEventInput{Title: strPtr("")})
	requireValidation(t, err, "title")
}

func TestListReturnsOwnEventsNewestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	other := e.user(t, "other@example.com")

	first := e.event(t, owner)
	second := e.event(t, owner)
	e.event(t, other)

	events, err := e.events.List(ctx, owner)
	must(t, err, "List")
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID != second.ID || events[1].ID != first.ID {
		t.Fatalf("unexpected order: %d, %d", events[0].ID, events[1].ID)
	}
}

func TestGetEventLoadsParticipantsAndMaterials(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	e.addParticipant(t, owner, event.ID, "p@example.com", models.ParticipantStatusInvited)
	_, err := e.materials.Create(ctx, owner, event.ID, MaterialUpload{
		Name: "Slides", Filename: "slides.pdf", Reader: strings.NewReader("pdf"),
	})
	must(t, err, "upload")

	got, err := e.events.Get(ctx, owner, event.ID)
	must(t, err, "Get")
	if len(got.Participants) != 1 || len(got.Materials) != 1 {
		t.Fatalf("participants=%d materials=%d, want 1/1", len(got.Participants), len(got.Materials))
	}
}

func TestDeleteEventRemovesChildrenAndBlobs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	keep := e.event(t, owner)

	p := e.addParticipant(t, owner, event.ID, "p@example.com", models.ParticipantStatusAttended)
	e.addParticipant(t, owner, keep.ID, "p@example.com", models.ParticipantStatusAttended)
	material, err := e.materials.Create(ctx, owner, event.ID, MaterialUpload{
		Name: "Notes", Filename: "notes.txt", Reader: strings.NewReader("notes"),
	})
	must(t, err, "upload")
	_, _, err = e.feedback.Submit(ctx, Actor{}, event.ID, SubmitFeedbackInput{ParticipantID: uintPtr(p.ID), Rating: intPtr(5)})
	must(t, err, "feedback")

	must(t, e.events.Delete(ctx, owner, event.ID), "Delete")

	if _, err := e.eventRepo.FindByID(ctx, event.ID); err == nil {
		t.Fatal("event still exists")
	}
	for name, model := range map[string]interface{}{
		"participants": &models.Participant{},
		"materials":    &models.Material{},
		"feedback":     &models.Feedback{},
	} {
		if n := e.count(t, model, "event_id = ?", event.ID); n != 0 {
			t.Errorf("%d orphaned %s rows remain", n, name)
		}
	}
	if ok, _ := e.store.Exists(ctx, material.FilePath); ok {
		t.Fatal("material blob was not released")
	}
	if n := e.count(t, &models.Participant{}, "event_id = ?", keep.ID); n != 1 {
		t.Fatalf("other event lost its participants: %d", n)
	}
}

func TestDeleteEventToleratesMissingBlob(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	material, err := e.materials.Create(ctx, owner, event.ID, MaterialUpload{
		Name: "Notes", Filename: "notes.txt", Reader: strings.NewReader("notes"),
	})
	must(t, err, "upload")
	must(t, e.store.Delete(ctx, material.FilePath), "out-of-band delete")

	if err := e.events.Delete(ctx, owner, event.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := e.events.Delete(ctx, owner, event.ID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("second Delete = %v, want ErrEventNotFound", err)
	}
}
