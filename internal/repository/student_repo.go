package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/schoolhub/internal/authz"
	"anoa.com/schoolhub/internal/model"
)

type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	// FindByID returns (nil, nil) when the student does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	// List and Count take the same scope and optional id prefilter so the
	// reported total stays consistent with the page query.
	List(ctx context.Context, scope authz.Scope, ids []uuid.UUID, limit, offset int) ([]model.Student, error)
	Count(ctx context.Context, scope authz.Scope, ids []uuid.UUID) (int64, error)
	// Update applies the field delta and, when classrooms is non-nil,
	// replaces the classroom list. Returns (nil, nil) when missing.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any, classrooms *[]model.Classroom) (*model.Student, error)
	// Transfer atomically moves the student to the target school and clears
	// the classroom list.
	Transfer(ctx context.Context, id uuid.UUID, targetSchool uuid.UUID) (*model.Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Classrooms").
		First(&student, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context, scope authz.Scope, ids []uuid.UUID, limit, offset int) ([]model.Student, error) {
	var students []model.Student
	q := scoped(r.db.WithContext(ctx), scope)
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	err := q.
		Preload("School").
		Preload("Classrooms").
		Limit(limit).
		Offset(offset).
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context, scope authz.Scope, ids []uuid.UUID) (int64, error) {
	var count int64
	q := scoped(r.db.WithContext(ctx).Model(&model.Student{}), scope)
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *studentRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any, classrooms *[]model.Classroom) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&student, "id = ?", id).Error; err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.Model(&student).Updates(fields).Error; err != nil {
				return err
			}
		}
		if classrooms != nil {
			if err := tx.Model(&student).Association("Classrooms").Replace(*classrooms); err != nil {
				return err
			}
		}

		student.Classrooms = nil
		return tx.Preload("School").Preload("Classrooms").First(&student, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) Transfer(ctx context.Context, id uuid.UUID, targetSchool uuid.UUID) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&student, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&student).Association("Classrooms").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&student).Update("school_id", targetSchool).Error; err != nil {
			return err
		}
		student.Classrooms = nil
		return tx.Preload("School").Preload("Classrooms").First(&student, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student := model.Student{ID: id}
		if err := tx.Model(&student).Association("Classrooms").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Student{}, "id = ?", id).Error
	})
}
