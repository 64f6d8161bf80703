package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"etkinlik.link/models"
	"etkinlik.link/pkg/filestore"
	"etkinlik.link/repositories"
)

func TestMaterialDownloadAuthorization(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	guest := e.user(t, "Guest@Example.com")
	stranger := e.user(t, "stranger@example.com")
	event := e.event(t, owner)
	e.addParticipant(t, owner, event.ID, "guest@example.com", models.ParticipantStatusInvited)

	material, err := e.materials.Create(ctx, owner, event.ID, MaterialUpload{
		Name: "Agenda", Filename: "agenda.txt", ContentType: "text/plain", Reader: strings.NewReader("agenda"),
	})
	must(t, err, "upload")
	if material.FileSize == nil || *material.FileSize != 6 || material.FileType == nil || *material.FileType != "text/plain" {
		t.Fatalf("unexpected metadata: %+v", material)
	}

	_, err = e.materials.Download(ctx, stranger, material.ID)
	requireForbidden(t, err, "stranger download")

	for _, actor := range []Actor{owner, guest} {
		download, err := e.materials.Download(ctx, actor, material.ID)
		must(t, err, "download by %s", actor.Email)
		body, _ := io.ReadAll(download.Body)
		download.Body.Close()
		if string(body) != "agenda" {
			t.Fatalf("body = %q", body)
		}
	}

	must(t, e.store.Delete(ctx, material.FilePath), "out-of-band delete")
	if _, err := e.materials.Download(ctx, owner, material.ID); !errors.Is(err, ErrBlobMissing) || !IsNotFound(err) {
		t.Fatalf("download after blob removal = %v, want ErrBlobMissing", err)
	}
}

func TestMaterialUploadRespectsSizeCap(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	small := NewMaterialService(e.materialRepo, e.eventRepo, e.gate, e.store, 8)

	// Bildirilen boyut yanlış olsa bile okuma sırasında sınır uygulanır.
	_, err := small.Create(ctx, owner, event.ID, MaterialUpload{
		Name: "Big", Filename: "big.bin", Reader: strings.NewReader(strings.Repeat("x", 16)),
	})
	requireValidation(t, err, "file")

	_, err = small.Create(ctx, owner, event.ID, MaterialUpload{
		Name: "Declared", Filename: "big.bin", Size: 9, Reader: strings.NewReader("x"),
	})
	requireValidation(t, err, "file")

	exact, err := small.Create(ctx, owner, event.ID, MaterialUpload{
		Name: "Exact", Filename: "ok.bin", Reader: strings.NewReader(strings.Repeat("x", 8)),
	})
	must(t, err, "upload at the cap")
	if *exact.FileSize != 8 {
		t.Fatalf("size = %d, want 8", *exact.FileSize)
	}
	if n := e.count(t, &models.Material{}, "event_id = ?", event.ID); n != 1 {
		t.Fatalf("stored %d materials, want 1", n)
	}

	_, err = small.Create(ctx, owner, event.ID, MaterialUpload{Name: "No file"})
	requireValidation(t, err, "file")
}

type failingMaterialRepo struct {
	repositories.IMaterialRepository
}

func (failingMaterialRepo) Create(context.Context, *models.Material) error {
	return errors.New("insert failed")
}

type recordingStore struct {
	filestore.Store
	deleteErr error
	puts      []string
	deletes   []string
}

func (s *recordingStore) Put(ctx context.Context, dir, filename, contentType string, r io.Reader) (string, int64, error) {
	key, size, err := s.Store.Put(ctx, dir, filename, contentType, r)
	if err == nil {
		s.puts = append(s.puts, key)
	}
	return key, size, err
}

func (s *recordingStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Store.Delete(ctx, key)
}

func TestMaterialCreateRemovesBlobWhenRowFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	event := e.event(t, owner)
	store := &recordingStore{Store: e.store}
	svc := NewMaterialService(failingMaterialRepo{e.materialRepo}, e.eventRepo, e.gate, store, testMaxBytes)

	_, err := svc.Create(ctx, owner, event.ID, MaterialUpload{Name: "Doc", Filename: "doc.txt", Reader: strings.NewReader("doc")})
	if !errors.Is(err, ErrMaterialCreationFailed) {
		t.Fatalf("Create = %v, want ErrMaterialCreationFailed", err)
	}
	if len(store.puts) != 1 || len(store.deletes) != 1 || store.puts[0] != store.deletes[0] {
		t.Fatalf("expected the written blob to be removed: puts=%v deletes=%v", store.puts, store.deletes)
	}
	if ok, _ := e.store.Exists(ctx, store.puts[0]); ok {
		t.Fatal("blob still exists after compensation")
	}
}

func TestMaterialDeleteOrdering(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	stranger := e.user(t, "stranger@example.com")
	event := e.event(t, owner)
	store := &recordingStore{Store: e.store}
	svc := NewMaterialService(e.materialRepo, e.eventRepo, e.gate, store, testMaxBytes)

	material, err := svc.Create(ctx, owner, event.ID, MaterialUpload{Name: "Doc", Filename: "doc.txt", Reader: strings.NewReader("doc")})
	must(t, err, "upload")

	requireForbidden(t, svc.Delete(ctx, stranger, material.ID), "stranger delete")
	if len(store.deletes) != 0 {
		t.Fatal("denied delete must not touch the store")
	}

	store.deleteErr = errors.New("storage unavailable")
	if err := svc.Delete(ctx, owner, material.ID); !errors.Is(err, ErrBlobDeleteFailed) {
		t.Fatalf("Delete = %v, want ErrBlobDeleteFailed", err)
	}
	if n := e.count(t, &models.Material{}, "id = ?", material.ID); n != 1 {
		t.Fatal("row must be kept when blob deletion fails")
	}

	store.deleteErr = filestore.ErrObjectNotFound
	must(t, svc.Delete(ctx, owner, material.ID), "delete with missing blob")
	if n := e.count(t, &models.Material{}, "id = ?", material.ID); n != 0 {
		t.Fatal("row should be removed when the blob is already gone")
	}
	if err := svc.Delete(ctx, owner, material.ID); !errors.Is(err, ErrMaterialNotFound) {
		t.Fatalf("second Delete = %v, want ErrMaterialNotFound", err)
	}
}
