package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/configs/configsstorage"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"
)

// OSSStore dosyaları Aliyun OSS bucket'ında saklar.
type OSSStore struct {
	bucket *oss.Bucket
	prefix string
}

func NewOSSStore(cfg configsstorage.Config) (*OSSStore, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSBucket == "" {
		return nil, errors.New("OSS_ENDPOINT ve OSS_BUCKET zorunludur")
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKeyID, cfg.OSSAccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}
	return &OSSStore{bucket: bucket, prefix: strings.Trim(cfg.OSSPrefix, "/")}, nil
}

// objectKey uygulama anahtarını bucket içindeki nesne adına çevirir.
func (s *OSSStore) objectKey(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("geçersiz dosya anahtarı: %q", key)
	}
	if s.prefix == "" {
		return key, nil
	}
	return path.Join(s.prefix, key), nil
}

func (s *OSSStore) Put(ctx context.Context, dir, filename, contentType string, r io.Reader) (string, int64, error) {
	key := newKey(dir, filename)
	objectKey, err := s.objectKey(key)
	if err != nil {
		return "", 0, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	counter := &countingReader{r: r}
	if err := s.bucket.PutObject(objectKey, counter, oss.WithContext(ctx), oss.ContentType(contentType)); err != nil {
		return "", 0, fmt.Errorf("oss put: %w", err)
	}
	configslog.Log.Debug("OSSStore.Put", zap.String("key", objectKey), zap.Int64("size", counter.n))
	return key, counter.n, nil
}

func (s *OSSStore) Exists(ctx context.Context, key string) (bool, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return false, err
	}
	return s.bucket.IsObjectExist(objectKey, oss.WithContext(ctx))
}

// Delete OSS'de olmayan nesneyi silmek hata vermediği için önce varlık kontrol edilir.
func (s *OSSStore) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	exists, err := s.bucket.IsObjectExist(objectKey, oss.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("oss head: %w", err)
	}
	if !exists {
		return ErrObjectNotFound
	}
	if err := s.bucket.DeleteObject(objectKey, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("oss delete: %w", err)
	}
	return nil
}

func (s *OSSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	body, err := s.bucket.GetObject(objectKey, oss.WithContext(ctx))
	if err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("oss get: %w", err)
	}
	return body, nil
}

var _ Store = (*OSSStore)(nil)
