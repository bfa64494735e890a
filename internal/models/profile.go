package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Profile is an optional 1:1 extension of a User, created lazily on the
// first profile write and removed with its owner (ON DELETE CASCADE).
type Profile struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	DisplayName *string   `json:"display_name"`
	Email       *string   `json:"email"`
	Bio         *string   `json:"bio"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfilePatch carries the client-settable profile fields. Nil means the
// field was not supplied and keeps its stored value.
type ProfilePatch struct {
	DisplayName *string `json:"display_name" binding:"omitnil,max=100"`
	Email       *string `json:"email" binding:"omitnil,email"`
	Bio         *string `json:"bio" binding:"omitnil,max=500"`
	AvatarURL   *string `json:"avatar_url" binding:"omitnil,url"`
}
