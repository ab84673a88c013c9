package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values form a closed set; the capability table in internal/authz is
// keyed by them.
const (
	RoleSuperAdmin  = "superAdmin"
	RoleSchoolAdmin = "schoolAdmin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;index" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
