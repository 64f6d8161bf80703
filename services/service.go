package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"etkinlik.link/models"
	"etkinlik.link/pkg/validation"
	"etkinlik.link/repositories"
)

// Actor isteği yapan kimliği doğrulanmış kullanıcı. Her servis çağrısına açıkça geçirilir.
type Actor struct {
	UserID uint
	Email  string
}

// Authenticated actor gerçek bir kullanıcıyı temsil ediyor mu?
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// context CreatedBy/UpdatedBy hook'ları için kullanıcı ID'sini context'e ekler.
func (a Actor) context(ctx context.Context) context.Context {
	if !a.Authenticated() {
		return ctx
	}
	return models.ContextWithUserID(ctx, a.UserID)
}

// ValidationError alan bazlı doğrulama hatası (HTTP 422).
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// newValidationError alan hatalarından ilkini özet mesaj yapar.
func newValidationError(fields map[string]string) *ValidationError {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := "The given data was invalid."
	if len(keys) > 0 {
		msg = fields[keys[0]]
		if len(keys) == 2 {
			msg = fmt.Sprintf("%s (and 1 more error)", msg)
		} else if len(keys) > 2 {
			msg = fmt.Sprintf("%s (and %d more errors)", msg, len(keys)-1)
		}
	}
	return &ValidationError{Message: msg, Fields: fields}
}

// validate dto'yu doğrular ve ek alan hatalarıyla birleştirir.
func validate(dto interface{}, extra map[string]string) error {
	fields := validation.Struct(dto)
	for k, v := range extra {
		if fields == nil {
			fields = map[string]string{}
		}
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return newValidationError(fields)
}

// IsNotFound hata, bir kaynağın bulunamadığını mı belirtiyor?
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrParticipantNotFound) ||
		errors.Is(err, ErrMaterialNotFound) ||
		errors.Is(err, ErrBlobMissing) ||
		errors.Is(err, repositories.ErrNotFound)
}
