package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:100;not null" json:"studentName"`
	Birth time.Time `gorm:"not null" json:"studentBirth"`
	// SchoolID changes only through the transfer operation, never through a
	// generic update.
	SchoolID uuid.UUID `gorm:"type:uuid;not null;index" json:"school"`
	School   *School   `gorm:"constraint:OnUpdate:CASCADE" json:"schoolInfo,omitempty"`
	// Classrooms must all belong to SchoolID at the time they were last
	// written. A transfer clears the list unconditionally.
	Classrooms []Classroom `gorm:"many2many:student_classrooms" json:"classrooms"`
	Pic        *string     `gorm:"size:300" json:"studentPic,omitempty"`
	EnrolledAt time.Time   `gorm:"autoCreateTime" json:"enrolledAt"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
