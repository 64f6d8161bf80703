// Package filestore materyal dosyalarının (blob) saklandığı depoyu soyutlar.
// Anahtarlar "materials/{event_id}/{uuid}{ext}" biçimindedir ve her anahtar tek bir dosyaya karşılık gelir.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"etkinlik.link/configs/configsstorage"

	"github.com/google/uuid"
)

// ErrObjectNotFound istenen anahtarda dosya yoksa döner.
var ErrObjectNotFound = errors.New("dosya depoda bulunamadı")

// Store dosya deposu sözleşmesi.
type Store interface {
	// Put r'nin içeriğini dir altında yeni bir anahtarla saklar, anahtarı ve yazılan bayt sayısını döndürür.
	Put(ctx context.Context, dir, filename, contentType string, r io.Reader) (string, int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MaterialDir etkinliğe ait materyallerin anahtar önekini döndürür.
func MaterialDir(eventID uint) string {
	return fmt.Sprintf("materials/%d", eventID)
}

// New ayarlardaki sürücüye göre depoyu oluşturur.
func New(cfg configsstorage.Config) (Store, error) {
	switch cfg.Driver {
	case "", configsstorage.DriverLocal:
		return NewLocalStore(cfg.LocalRoot)
	case configsstorage.DriverOSS:
		return NewOSSStore(cfg)
	default:
		return nil, fmt.Errorf("bilinmeyen depolama sürücüsü: %q", cfg.Driver)
	}
}

// newKey dosya adından yalnızca uzantıyı alır; kullanıcı girdisi anahtara taşınmaz.
func newKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 16 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return path.Join(strings.Trim(dir, "/"), uuid.NewString()+ext)
}

// validKey "../" içeren veya mutlak anahtarları reddeder.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	clean := path.Clean(key)
	return clean == key && clean != "." && !strings.HasPrefix(clean, "../") && clean != ".."
}

// countingReader okunan bayt sayısını tutar.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
