package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/schoolhub/internal/authz"
	"anoa.com/schoolhub/internal/model"
)

type ClassroomRepository interface {
	Create(ctx context.Context, classroom *model.Classroom) error
	// FindByID returns (nil, nil) when the classroom does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Classroom, error)
	// FindByIDsInSchool resolves ids constrained to the given school; callers
	// compare the resolved count against the requested count.
	FindByIDsInSchool(ctx context.Context, ids []uuid.UUID, schoolID uuid.UUID) ([]model.Classroom, error)
	List(ctx context.Context, scope authz.Scope, limit, offset int) ([]model.Classroom, error)
	Count(ctx context.Context, scope authz.Scope) (int64, error)
	// Update applies the field delta; returns (nil, nil) when missing.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Classroom, error)
	// DeleteCascade pulls the classroom out of every student's classroom list
	// and then deletes it, both writes inside one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type classroomRepository struct {
	db *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

func (r *classroomRepository) Create(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *classroomRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Classroom, error) {
	var classroom model.Classroom
	err := r.db.WithContext(ctx).Preload("School").First(&classroom, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &classroom, nil
}

func (r *classroomRepository) FindByIDsInSchool(ctx context.Context, ids []uuid.UUID, schoolID uuid.UUID) ([]model.Classroom, error) {
	var classrooms []model.Classroom
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("school_id = ?", schoolID).
		Find(&classrooms).Error
	if err != nil {
		return nil, err
	}
	return classrooms, nil
}

func (r *classroomRepository) List(ctx context.Context, scope authz.Scope, limit, offset int) ([]model.Classroom, error) {
	var classrooms []model.Classroom
	err := scoped(r.db.WithContext(ctx), scope).
		Preload("School").
		Limit(limit).
		Offset(offset).
		Find(&classrooms).Error
	if err != nil {
		return nil, err
	}
	return classrooms, nil
}

func (r *classroomRepository) Count(ctx context.Context, scope authz.Scope) (int64, error) {
	var count int64
	err := scoped(r.db.WithContext(ctx).Model(&model.Classroom{}), scope).Count(&count).Error
	return count, err
}

func (r *classroomRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Classroom, error) {
	var classroom model.Classroom
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&classroom, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&classroom).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Preload("School").First(&classroom, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &classroom, nil
}

func (r *classroomRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classroom := model.Classroom{ID: id}
		if err := tx.Model(&classroom).Association("Students").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Classroom{}, "id = ?", id).Error
	})
}

// scoped narrows a classroom/student query to the schools a principal may
// see. An empty (non-All) id set matches nothing.
func scoped(q *gorm.DB, scope authz.Scope) *gorm.DB {
	if scope.All {
		return q
	}
	return q.Where("school_id IN ?", scope.SchoolIDs)
}
