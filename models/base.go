package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

const contextUserIDKey contextKey = "user_id"

// ContextWithUserID işlemi yapan kullanıcıyı context'e ekler.
// BaseModel hook'ları CreatedBy/UpdatedBy alanlarını buradan doldurur.
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, contextUserIDKey, userID)
}

// UserIDFromContext context'teki kullanıcı ID'sini döndürür.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(contextUserIDKey).(uint)
	return id, ok && id != 0
}

// BaseModel tüm tablolarda ortak alanlar.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy *uint     `gorm:"index" json:"-"`
	UpdatedBy *uint     `json:"-"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if userID, ok := UserIDFromContext(tx.Statement.Context); ok {
		b.CreatedBy = &userID
		b.UpdatedBy = &userID
	}
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if userID, ok := UserIDFromContext(tx.Statement.Context); ok {
		b.UpdatedBy = &userID
		tx.Statement.SetColumn("updated_by", userID)
	}
	return nil
}
