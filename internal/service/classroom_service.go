package service

import (
	"context"

	"github.com/google/uuid"

	"anoa.com/schoolhub/internal/authz"
	"anoa.com/schoolhub/internal/dto"
	"anoa.com/schoolhub/internal/model"
	"anoa.com/schoolhub/internal/repository"
	"anoa.com/schoolhub/pkg/apperror"
	"anoa.com/schoolhub/pkg/validator"
)

type ClassroomList struct {
	Classrooms []model.Classroom
	Pagination dto.Pagination
}

type ClassroomService interface {
	Create(ctx context.Context, p *authz.Principal, req dto.CreateClassroomRequest) (*model.Classroom, error)
	Get(ctx context.Context, p *authz.Principal, id string) (*model.Classroom, error)
	List(ctx context.Context, p *authz.Principal, q dto.ListQuery) (*ClassroomList, error)
	Update(ctx context.Context, p *authz.Principal, id string, req dto.UpdateClassroomRequest) (*model.Classroom, error)
	// Delete pulls the classroom out of every student's classroom list and
	// then removes the classroom itself.
	Delete(ctx context.Context, p *authz.Principal, id string) error
}

type classroomService struct {
	classrooms repository.ClassroomRepository
	schools    repository.SchoolRepository
	engine     *authz.Engine
}

func NewClassroomService(classrooms repository.ClassroomRepository, schools repository.SchoolRepository, engine *authz.Engine) ClassroomService {
	return &classroomService{classrooms: classrooms, schools: schools, engine: engine}
}

func (s *classroomService) Create(ctx context.Context, p *authz.Principal, req dto.CreateClassroomRequest) (*model.Classroom, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	if errs := validator.Validate(req); errs != nil {
		return nil, apperror.Validation(errs)
	}

	schoolID, err := uuid.Parse(req.School)
	if err != nil {
		return nil, apperror.NotFound("School not found")
	}
	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch school", err)
	}
	if school == nil {
		return nil, apperror.NotFound("School not found")
	}

	if p.Role == model.RoleSchoolAdmin && !authz.IsAdminOf(school, p.UserID) {
		return nil, apperror.Forbidden("You are not authorized to create classrooms in this school")
	}

	classroom := &model.Classroom{
		Name:     req.Name,
		Capacity: req.Capacity,
		SchoolID: schoolID,
	}
	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, apperror.Internal("Classroom Creation Failed", err)
	}

	return classroom, nil
}

func (s *classroomService) Get(ctx context.Context, p *authz.Principal, id string) (*model.Classroom, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	classroom, err := s.findClassroom(ctx, id)
	if err != nil {
		return nil, err
	}

	// Ownership re-resolves the school through the engine rather than
	// trusting the preloaded document.
	if p.Role == model.RoleSchoolAdmin {
		isAdmin, err := s.engine.IsAdminOfSchoolID(ctx, p.UserID, classroom.SchoolID)
		if err != nil {
			return nil, apperror.Internal("Failed to check school ownership", err)
		}
		if !isAdmin {
			return nil, apperror.Forbidden("You are not authorized to view this classroom")
		}
	}

	return classroom, nil
}

func (s *classroomService) List(ctx context.Context, p *authz.Principal, q dto.ListQuery) (*ClassroomList, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	scope, err := s.engine.ScopeFor(ctx, p, q.School)
	if err != nil {
		return nil, err
	}

	limit, page, offset := q.Window()
	classrooms, err := s.classrooms.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, apperror.Internal("Failed to list classrooms", err)
	}

	// The total is an independent count over the same filter, not the page
	// length.
	total, err := s.classrooms.Count(ctx, scope)
	if err != nil {
		return nil, apperror.Internal("Failed to count classrooms", err)
	}

	return &ClassroomList{
		Classrooms: classrooms,
		Pagination: dto.Pagination{Total: total, Page: page, Limit: limit},
	}, nil
}

func (s *classroomService) Update(ctx context.Context, p *authz.Principal, id string, req dto.UpdateClassroomRequest) (*model.Classroom, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	existing, err := s.findClassroom(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Role == model.RoleSchoolAdmin {
		isAdmin, err := s.engine.IsAdminOfSchoolID(ctx, p.UserID, existing.SchoolID)
		if err != nil {
			return nil, apperror.Internal("Failed to check school ownership", err)
		}
		if !isAdmin {
			return nil, apperror.Forbidden("You are not authorized to update this classroom")
		}
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Capacity != nil {
		fields["capacity"] = *req.Capacity
	}
	if len(fields) == 0 {
		return nil, apperror.BadRequest("No fields to update")
	}

	if errs := validator.Validate(req); errs != nil {
		return nil, apperror.Validation(errs)
	}

	classroom, err := s.classrooms.Update(ctx, existing.ID, fields)
	if err != nil {
		return nil, apperror.Internal("Classroom Update Failed", err)
	}
	if classroom == nil {
		return nil, apperror.NotFound("Classroom not found")
	}

	return classroom, nil
}

func (s *classroomService) Delete(ctx context.Context, p *authz.Principal, id string) error {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return err
	}

	classroom, err := s.findClassroom(ctx, id)
	if err != nil {
		return err
	}

	if p.Role == model.RoleSchoolAdmin {
		isAdmin, err := s.engine.IsAdminOfSchoolID(ctx, p.UserID, classroom.SchoolID)
		if err != nil {
			return apperror.Internal("Failed to check school ownership", err)
		}
		if !isAdmin {
			return apperror.Forbidden("You are not authorized to delete this classroom")
		}
	}

	if err := s.classrooms.DeleteCascade(ctx, classroom.ID); err != nil {
		return apperror.Internal("Classroom Deletion Failed", err)
	}

	return nil
}

func (s *classroomService) findClassroom(ctx context.Context, id string) (*model.Classroom, error) {
	if id == "" {
		return nil, apperror.BadRequest("Classroom ID is required")
	}
	cid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("Classroom not found")
	}
	classroom, err := s.classrooms.FindByID(ctx, cid)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch classroom", err)
	}
	if classroom == nil {
		return nil, apperror.NotFound("Classroom not found")
	}
	return classroom, nil
}
