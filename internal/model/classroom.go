package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Classroom struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Capacity int       `gorm:"not null" json:"capacity"`
	// SchoolID is immutable after creation; there is no move-between-schools
	// operation.
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;index" json:"school"`
	School    *School   `gorm:"constraint:OnUpdate:CASCADE" json:"schoolInfo,omitempty"`
	Students  []Student `gorm:"many2many:student_classrooms" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Classroom) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
