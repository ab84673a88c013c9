package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/schoolhub/internal/model"
)

type SchoolRepository interface {
	Create(ctx context.Context, school *model.School) error
	// FindByID returns (nil, nil) when the school does not exist. The admin
	// list is always preloaded so ownership checks can run on the document.
	FindByID(ctx context.Context, id uuid.UUID) (*model.School, error)
	FindAll(ctx context.Context) ([]model.School, error)
	FindByAdmin(ctx context.Context, userID uuid.UUID) ([]model.School, error)
	// Update applies the field delta and, when admins is non-nil, replaces
	// the whole admin list. Returns (nil, nil) when the school is missing.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any, admins *[]model.User) (*model.School, error)
	// Delete removes the school and returns the deleted document, or
	// (nil, nil) when it did not exist. Classrooms and students are left
	// untouched.
	Delete(ctx context.Context, id uuid.UUID) (*model.School, error)
}

type schoolRepository struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Create(ctx context.Context, school *model.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *schoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).Preload("Admins").First(&school, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepository) FindAll(ctx context.Context) ([]model.School, error) {
	var schools []model.School
	if err := r.db.WithContext(ctx).Preload("Admins").Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *schoolRepository) FindByAdmin(ctx context.Context, userID uuid.UUID) ([]model.School, error) {
	var schools []model.School
	err := r.db.WithContext(ctx).
		Preload("Admins").
		Joins("JOIN school_admins ON school_admins.school_id = schools.id").
		Where("school_admins.user_id = ?", userID).
		Find(&schools).Error
	if err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *schoolRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any, admins *[]model.User) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&school, "id = ?", id).Error; err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.Model(&school).Updates(fields).Error; err != nil {
				return err
			}
		}
		if admins != nil {
			if err := tx.Model(&school).Association("Admins").Replace(*admins); err != nil {
				return err
			}
		}

		school.Admins = nil
		return tx.Preload("Admins").First(&school, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepository) Delete(ctx context.Context, id uuid.UUID) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Admins").First(&school, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&school).Association("Admins").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.School{}, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &school, nil
}
