package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/schoolhub/internal/authz"
	"anoa.com/schoolhub/internal/dto"
	"anoa.com/schoolhub/internal/model"
	"anoa.com/schoolhub/internal/repository"
	"anoa.com/schoolhub/pkg/apperror"
	"anoa.com/schoolhub/pkg/validator"
)

type SchoolService interface {
	Create(ctx context.Context, p *authz.Principal, req dto.CreateSchoolRequest) (*model.School, error)
	Get(ctx context.Context, p *authz.Principal, id string) (*model.School, error)
	// List returns the full result set; school listing is deliberately
	// unpaginated, unlike classrooms and students.
	List(ctx context.Context, p *authz.Principal) ([]model.School, error)
	Update(ctx context.Context, p *authz.Principal, id string, req dto.UpdateSchoolRequest) (*model.School, error)
	Delete(ctx context.Context, p *authz.Principal, id string) (*model.School, error)
}

type schoolService struct {
	schools repository.SchoolRepository
	users   repository.UserRepository
	engine  *authz.Engine
}

func NewSchoolService(schools repository.SchoolRepository, users repository.UserRepository, engine *authz.Engine) SchoolService {
	return &schoolService{schools: schools, users: users, engine: engine}
}

func (s *schoolService) Create(ctx context.Context, p *authz.Principal, req dto.CreateSchoolRequest) (*model.School, error) {
	if err := s.engine.Require(p, authz.CapManageSchools); err != nil {
		return nil, err
	}

	if errs := validator.Validate(req); errs != nil {
		return nil, apperror.Validation(errs)
	}

	admins, err := s.resolveAdmins(ctx, req.SchoolAdmins)
	if err != nil {
		return nil, err
	}

	school := &model.School{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
		Admins:  admins,
	}
	if err := s.schools.Create(ctx, school); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("School with the same info already exists")
		}
		return nil, apperror.Internal("School Creation Failed", err)
	}

	return school, nil
}

func (s *schoolService) Get(ctx context.Context, p *authz.Principal, id string) (*model.School, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, apperror.BadRequest("School ID is required")
	}

	school, err := s.findSchool(ctx, id)
	if err != nil {
		return nil, err
	}

	// Ownership is checked against the document we already hold, no second
	// round-trip.
	if p.Role == model.RoleSchoolAdmin && !authz.IsAdminOf(school, p.UserID) {
		return nil, apperror.Forbidden("You are not authorized to view this school")
	}

	return school, nil
}

func (s *schoolService) List(ctx context.Context, p *authz.Principal) ([]model.School, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	if p.Role == model.RoleSchoolAdmin {
		uid, err := uuid.Parse(p.UserID)
		if err != nil {
			return nil, apperror.Unauthorized("unauthorized")
		}
		schools, err := s.schools.FindByAdmin(ctx, uid)
		if err != nil {
			return nil, apperror.Internal("Failed to list schools", err)
		}
		return schools, nil
	}

	schools, err := s.schools.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to list schools", err)
	}
	return schools, nil
}

func (s *schoolService) Update(ctx context.Context, p *authz.Principal, id string, req dto.UpdateSchoolRequest) (*model.School, error) {
	// Stricter than get/list: school mutation is superAdmin-only.
	if err := s.engine.Require(p, authz.CapManageSchools); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, apperror.BadRequest("School ID is required")
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}

	var admins *[]model.User
	if req.SchoolAdmins != nil {
		resolved, err := s.resolveAdmins(ctx, *req.SchoolAdmins)
		if err != nil {
			return nil, err
		}
		admins = &resolved
	}

	if len(fields) == 0 && admins == nil {
		return nil, apperror.BadRequest("No fields to update")
	}

	// Field validation covers the non-admin fields only; an admin-only
	// update never triggers it.
	if len(fields) > 0 {
		plain := req
		plain.SchoolAdmins = nil
		if errs := validator.Validate(plain); errs != nil {
			return nil, apperror.Validation(errs)
		}
	}

	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("School not found")
	}
	school, err := s.schools.Update(ctx, sid, fields, admins)
	if err != nil {
		return nil, apperror.Internal("School Update Failed", err)
	}
	if school == nil {
		return nil, apperror.NotFound("School not found")
	}

	return school, nil
}

func (s *schoolService) Delete(ctx context.Context, p *authz.Principal, id string) (*model.School, error) {
	if err := s.engine.Require(p, authz.CapManageSchools); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, apperror.BadRequest("School ID is required")
	}

	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("School not found")
	}

	// Deliberately no cascade onto classrooms or students; see DESIGN.md.
	school, err := s.schools.Delete(ctx, sid)
	if err != nil {
		return nil, apperror.Internal("School Deletion Failed", err)
	}
	if school == nil {
		return nil, apperror.NotFound("School not found")
	}

	return school, nil
}

// resolveAdmins resolves the requested admin ids against schoolAdmin-role
// users. Requested ids are treated as a set; a resolved count short of the
// requested set fails the whole call.
func (s *schoolService) resolveAdmins(ctx context.Context, requested []string) ([]model.User, error) {
	if len(requested) == 0 {
		return []model.User{}, nil
	}

	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(requested))
	for _, raw := range requested {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.BadRequest("One or more school admin IDs are invalid or not schoolAdmin role")
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	admins, err := s.users.FindByIDsWithRole(ctx, ids, model.RoleSchoolAdmin)
	if err != nil {
		return nil, apperror.Internal("Failed to resolve school admins", err)
	}
	if len(admins) != len(ids) {
		return nil, apperror.BadRequest("One or more school admin IDs are invalid or not schoolAdmin role")
	}
	return admins, nil
}

func (s *schoolService) findSchool(ctx context.Context, id string) (*model.School, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("School not found")
	}
	school, err := s.schools.FindByID(ctx, sid)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch school", err)
	}
	if school == nil {
		return nil, apperror.NotFound("School not found")
	}
	return school, nil
}
