// Package authz decides, for a given principal and resource, whether an
// operation is permitted, and computes the scope filter used by list queries.
package authz

import (
	"context"

	"github.com/google/uuid"

	"anoa.com/schoolhub/internal/model"
	"anoa.com/schoolhub/pkg/apperror"
)

// Principal is the authenticated caller, extracted from a verified token.
type Principal struct {
	UserID string
	Role   string
}

// Capability is what an operation needs, mapped once from the caller's role
// instead of re-deriving role checks per branch.
type Capability int

const (
	// CapManageSchools covers school create/update/delete and school-admin
	// account creation. superAdmin only.
	CapManageSchools Capability = iota
	// CapManageSchoolResources covers everything scoped to a school the
	// caller administers: viewing schools, classroom and student CRUD.
	CapManageSchoolResources
)

var roleCapabilities = map[string][]Capability{
	model.RoleSuperAdmin:  {CapManageSchools, CapManageSchoolResources},
	model.RoleSchoolAdmin: {CapManageSchoolResources},
}

// Scope restricts list/count queries to the schools a principal may see.
type Scope struct {
	// All is only ever true for superAdmin with no school requested.
	All       bool
	SchoolIDs []uuid.UUID
}

// SchoolSource is the slice of the school repository the engine needs. It is
// satisfied by repository.SchoolRepository and by test fakes. FindByID
// returns (nil, nil) when the school does not exist.
type SchoolSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.School, error)
	FindByAdmin(ctx context.Context, userID uuid.UUID) ([]model.School, error)
}

type Engine struct {
	schools SchoolSource
}

func NewEngine(schools SchoolSource) *Engine {
	return &Engine{schools: schools}
}

// Require rejects a missing principal with 401 before any other condition,
// then checks the capability table. Pure, no I/O.
func (e *Engine) Require(p *Principal, capability Capability) error {
	if p == nil {
		return apperror.Unauthorized("unauthorized")
	}
	for _, c := range roleCapabilities[p.Role] {
		if c == capability {
			return nil
		}
	}
	return apperror.Unauthorized("You are not authorized to perform this action")
}

// IsAdminOf reports membership of userID in an already-resolved school's
// admin list. Ids are compared by canonical string form. No fetch.
func IsAdminOf(school *model.School, userID string) bool {
	if school == nil {
		return false
	}
	for _, id := range school.AdminIDs() {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAdminOfSchoolID resolves the school and tests admin membership. A school
// that does not resolve yields false, never an error; the relation is
// recomputed on every call.
func (e *Engine) IsAdminOfSchoolID(ctx context.Context, userID string, schoolID uuid.UUID) (bool, error) {
	school, err := e.schools.FindByID(ctx, schoolID)
	if err != nil {
		return false, err
	}
	return IsAdminOf(school, userID), nil
}

// ScopeFor computes the per-principal filter for list operations. requested
// is the optional school id from the query; empty means "no specific school".
func (e *Engine) ScopeFor(ctx context.Context, p *Principal, requested string) (Scope, error) {
	if p.Role == model.RoleSuperAdmin {
		if requested == "" {
			return Scope{All: true}, nil
		}
		id, err := uuid.Parse(requested)
		if err != nil {
			return Scope{}, apperror.BadRequest("Invalid school ID")
		}
		return Scope{SchoolIDs: []uuid.UUID{id}}, nil
	}

	if requested != "" {
		id, err := uuid.Parse(requested)
		if err != nil {
			return Scope{}, apperror.BadRequest("Invalid school ID")
		}
		isAdmin, err := e.IsAdminOfSchoolID(ctx, p.UserID, id)
		if err != nil {
			return Scope{}, err
		}
		if !isAdmin {
			return Scope{}, apperror.Forbidden("You are not authorized for this school")
		}
		return Scope{SchoolIDs: []uuid.UUID{id}}, nil
	}

	uid, err := uuid.Parse(p.UserID)
	if err != nil {
		return Scope{}, apperror.Unauthorized("unauthorized")
	}
	schools, err := e.schools.FindByAdmin(ctx, uid)
	if err != nil {
		return Scope{}, err
	}
	ids := make([]uuid.UUID, 0, len(schools))
	for _, s := range schools {
		ids = append(ids, s.ID)
	}
	return Scope{SchoolIDs: ids}, nil
}
