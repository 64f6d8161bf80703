package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"
	"etkinlik.link/pkg/filestore"
	"etkinlik.link/pkg/metrics"
	"etkinlik.link/repositories"

	"go.uber.org/zap"
)

// MaterialServiceError özel servis hataları
type MaterialServiceError string

func (e MaterialServiceError) Error() string { return string(e) }

const (
	ErrMaterialNotFound        MaterialServiceError = "materyal bulunamadı"
	ErrMaterialCreationFailed  MaterialServiceError = "materyal kaydı oluşturulamadı"
	ErrMaterialDeletionFailed  MaterialServiceError = "materyal kaydı silinemedi"
	ErrMaterialRetrievalFailed MaterialServiceError = "materyal bilgileri alınamadı"
	ErrBlobWriteFailed         MaterialServiceError = "materyal dosyası depoya yazılamadı"
	ErrBlobDeleteFailed        MaterialServiceError = "materyal dosyası depodan silinemedi"
	ErrBlobMissing             MaterialServiceError = "materyal dosyası depoda bulunamadı"
)

// MaterialUpload yüklenen dosya ve görünen adı.
type MaterialUpload struct {
	Name        string `json:"name" validate:"required,max=255"`
	Filename    string `json:"-"`
	ContentType string `json:"-"`
	// Size istemcinin bildirdiği boyut; bilinmiyorsa 0.
	Size   int64     `json:"-"`
	Reader io.Reader `json:"-"`
}

// MaterialDownload indirilecek dosya. Body çağıran tarafından kapatılmalıdır.
type MaterialDownload struct {
	Material *models.Material
	Body     io.ReadCloser
}

// IMaterialService materyal işlemleri için arayüz.
type IMaterialService interface {
	List(ctx context.Context, actor Actor, eventID uint) ([]models.Material, error)
	Create(ctx context.Context, actor Actor, eventID uint, upload MaterialUpload) (*models.Material, error)
	Delete(ctx context.Context, actor Actor, materialID uint) error
	Download(ctx context.Context, actor Actor, materialID uint) (*MaterialDownload, error)
}

// MaterialService IMaterialService arayüzünü uygular.
type MaterialService struct {
	repo     repositories.IMaterialRepository
	events   repositories.IEventRepository
	gate     *Gate
	store    filestore.Store
	maxBytes int64
}

func NewMaterialService(repo repositories.IMaterialRepository, events repositories.IEventRepository, gate *Gate, store filestore.Store, maxBytes int64) IMaterialService {
	return &MaterialService{repo: repo, events: events, gate: gate, store: store, maxBytes: maxBytes}
}

func (s *MaterialService) authorizedEvent(ctx context.Context, actor Actor, eventID uint) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, ErrEventRetrievalFailed
	}
	if err := s.gate.AuthorizeOwner(actor, event, "material"); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *MaterialService) find(ctx context.Context, materialID uint) (*models.Material, error) {
	material, err := s.repo.FindByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, ErrMaterialRetrievalFailed
	}
	return material, nil
}

func (s *MaterialService) List(ctx context.Context, actor Actor, eventID uint) ([]models.Material, error) {
	if _, err := s.authorizedEvent(ctx, actor, eventID); err != nil {
		return nil, err
	}
	materials, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, ErrMaterialRetrievalFailed
	}
	return materials, nil
}

func (s *MaterialService) tooLargeMessage() string {
	return fmt.Sprintf("The file field must not be greater than %d kilobytes.", s.maxBytes/1024)
}

// Create önce dosyayı depoya, sonra meta veriyi veritabanına yazar. Kayıt
// başarısız olursa yazılan dosya silinir.
func (s *MaterialService) Create(ctx context.Context, actor Actor, eventID uint, upload MaterialUpload) (*models.Material, error) {
	event, err := s.authorizedEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}

	upload.Name = strings.TrimSpace(upload.Name)
	extra := map[string]string{}
	switch {
	case upload.Reader == nil:
		extra["file"] = "The file field is required."
	case upload.Size > s.maxBytes:
		extra["file"] = s.tooLargeMessage()
	}
	if err := validate(upload, extra); err != nil {
		return nil, err
	}

	limited := &capReader{r: upload.Reader, remaining: s.maxBytes}
	key, size, err := s.store.Put(ctx, filestore.MaterialDir(event.ID), upload.Filename, upload.ContentType, limited)
	if err != nil {
		if limited.exceeded {
			return nil, newValidationError(map[string]string{"file": s.tooLargeMessage()})
		}
		configslog.Log.Error("Materyal dosyası depoya yazılamadı", zap.Uint("event_id", event.ID), zap.Error(err))
		return nil, ErrBlobWriteFailed
	}

	material := &models.Material{
		EventID:  event.ID,
		Name:     upload.Name,
		FilePath: key,
		FileType: nullableString(&upload.ContentType),
		FileSize: &size,
	}
	if err := s.repo.Create(actor.context(ctx), material); err != nil {
		configslog.Log.Error("Materyal kaydı oluşturulamadı, dosya geri alınıyor",
			zap.Uint("event_id", event.ID), zap.String("path", key), zap.Error(err))
		if delErr := s.store.Delete(ctx, key); delErr != nil && !errors.Is(delErr, filestore.ErrObjectNotFound) {
			metrics.OrphanedBlobs.Inc()
			configslog.Log.Error("Geri alma sırasında dosya silinemedi", zap.String("path", key), zap.Error(delErr))
		}
		return nil, ErrMaterialCreationFailed
	}
	metrics.MaterialBytes.Add(float64(size))
	configslog.SLog.Infof("Materyal yüklendi: ID %d, etkinlik %d, %d bayt", material.ID, event.ID, size)
	return material, nil
}

// Delete önce dosyayı siler. Dosya zaten yoksa kayıt yine silinir; başka bir
// depo hatasında kayıt korunur ve ErrBlobDeleteFailed döner.
func (s *MaterialService) Delete(ctx context.Context, actor Actor, materialID uint) error {
	material, err := s.find(ctx, materialID)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeOwner(actor, material.Event, "material"); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, material.FilePath); err != nil {
		if !errors.Is(err, filestore.ErrObjectNotFound) {
			configslog.Log.Error("Materyal dosyası silinemedi, kayıt korunuyor",
				zap.Uint("material_id", material.ID), zap.String("path", material.FilePath), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrBlobDeleteFailed, err)
		}
		configslog.Log.Warn("Materyal dosyası depoda yoktu, sadece kayıt siliniyor",
			zap.Uint("material_id", material.ID), zap.String("path", material.FilePath))
	}

	if err := s.repo.Delete(actor.context(ctx), material); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMaterialNotFound
		}
		return ErrMaterialDeletionFailed
	}
	return nil
}

// Download etkinlik sahibine veya etkinliğe davetli katılımcıya dosyayı açar.
// Kayıt var ama dosya yoksa ErrBlobMissing döner.
func (s *MaterialService) Download(ctx context.Context, actor Actor, materialID uint) (*MaterialDownload, error) {
	material, err := s.find(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeOwnerOrParticipant(ctx, actor, material.Event, "material"); err != nil {
		return nil, err
	}
	body, err := s.store.Open(ctx, material.FilePath)
	if err != nil {
		if errors.Is(err, filestore.ErrObjectNotFound) {
			configslog.Log.Warn("Materyal kaydı var ama dosya depoda yok",
				zap.Uint("material_id", material.ID), zap.String("path", material.FilePath))
			return nil, ErrBlobMissing
		}
		return nil, fmt.Errorf("%w: %v", ErrMaterialRetrievalFailed, err)
	}
	return &MaterialDownload{Material: material, Body: body}, nil
}

var errFileTooLarge = errors.New("dosya boyutu sınırı aşıldı")

// capReader en fazla remaining bayt okur; fazlası gelirse hata döner.
type capReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		c.exceeded = true
		return 0, errFileTooLarge
	}
	// Sınırı aştığını anlamak için bir bayt fazlasına izin verilir.
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		c.exceeded = true
		return n, errFileTooLarge
	}
	return n, err
}

var _ IMaterialService = (*MaterialService)(nil)
