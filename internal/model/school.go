package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type School struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"size:100;not null" json:"name"`
	Email   string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Address string    `gorm:"size:500;not null" json:"address"`
	Phone   string    `gorm:"size:20;not null" json:"phone"`
	// Admins is treated as a set for membership checks and is only ever
	// replaced wholesale, never patched element-wise.
	Admins    []User    `gorm:"many2many:school_admins;constraint:OnDelete:CASCADE" json:"schoolAdmins"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *School) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// AdminIDs returns the canonical string ids of the school's admins.
func (s *School) AdminIDs() []string {
	ids := make([]string, 0, len(s.Admins))
	for _, admin := range s.Admins {
		ids = append(ids, admin.ID.String())
	}
	return ids
}
