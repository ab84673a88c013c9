package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"anoa.com/schoolhub/internal/authz"
	"anoa.com/schoolhub/internal/dto"
	"anoa.com/schoolhub/internal/model"
	"anoa.com/schoolhub/internal/repository"
	"anoa.com/schoolhub/pkg/apperror"
	"anoa.com/schoolhub/pkg/storage"
	"anoa.com/schoolhub/pkg/validator"
)

const birthDateLayout = "2006-01-02"

type StudentList struct {
	Students   []model.Student
	Pagination dto.Pagination
}

// PictureFile is an uploaded student picture.
type PictureFile struct {
	Reader   io.Reader
	FileName string
}

type StudentService interface {
	Create(ctx context.Context, p *authz.Principal, req dto.CreateStudentRequest) (*model.Student, error)
	Get(ctx context.Context, p *authz.Principal, id string) (*model.Student, error)
	List(ctx context.Context, p *authz.Principal, q dto.StudentListQuery) (*StudentList, error)
	Update(ctx context.Context, p *authz.Principal, id string, req dto.UpdateStudentRequest) (*model.Student, error)
	// Transfer moves the student to the target school and unconditionally
	// clears the classroom list; classrooms belong to the old school.
	Transfer(ctx context.Context, p *authz.Principal, id string, req dto.TransferStudentRequest) (*model.Student, error)
	Delete(ctx context.Context, p *authz.Principal, id string) error
	UploadPicture(ctx context.Context, p *authz.Principal, id string, pic PictureFile) (*model.Student, error)
}

type studentService struct {
	students   repository.StudentRepository
	classrooms repository.ClassroomRepository
	schools    repository.SchoolRepository
	engine     *authz.Engine
	index      StudentIndex
	pictures   storage.ImageStorage
}

func NewStudentService(
	students repository.StudentRepository,
	classrooms repository.ClassroomRepository,
	schools repository.SchoolRepository,
	engine *authz.Engine,
	index StudentIndex,
	pictures storage.ImageStorage,
) StudentService {
	return &studentService{
		students:   students,
		classrooms: classrooms,
		schools:    schools,
		engine:     engine,
		index:      index,
		pictures:   pictures,
	}
}

func (s *studentService) Create(ctx context.Context, p *authz.Principal, req dto.CreateStudentRequest) (*model.Student, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	if errs := validator.Validate(req); errs != nil {
		return nil, apperror.Validation(errs)
	}

	schoolID, err := uuid.Parse(req.School)
	if err != nil {
		return nil, apperror.NotFound("School Info is not valid")
	}
	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch school", err)
	}
	if school == nil {
		return nil, apperror.NotFound("School Info is not valid")
	}

	if p.Role == model.RoleSchoolAdmin && !authz.IsAdminOf(school, p.UserID) {
		return nil, apperror.Forbidden("You are not authorized to create students in this school")
	}

	classrooms, err := s.resolveClassrooms(ctx, req.Classrooms, schoolID)
	if err != nil {
		return nil, err
	}

	birth, err := time.Parse(birthDateLayout, req.StudentBirth)
	if err != nil {
		return nil, apperror.BadRequest("studentBirth must be a date in YYYY-MM-DD format")
	}

	student := &model.Student{
		Name:       req.StudentName,
		Birth:      birth,
		SchoolID:   schoolID,
		Pic:        req.StudentPic,
		Classrooms: classrooms,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, apperror.Internal("Student Creation Failed", err)
	}

	s.index.IndexStudent(student)
	return student, nil
}

func (s *studentService) Get(ctx context.Context, p *authz.Principal, id string) (*model.Student, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	student, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Role == model.RoleSchoolAdmin {
		isAdmin, err := s.engine.IsAdminOfSchoolID(ctx, p.UserID, student.SchoolID)
		if err != nil {
			return nil, apperror.Internal("Failed to check school ownership", err)
		}
		if !isAdmin {
			return nil, apperror.Forbidden("You are not authorized to view this student")
		}
	}

	return student, nil
}

func (s *studentService) List(ctx context.Context, p *authz.Principal, q dto.StudentListQuery) (*StudentList, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	scope, err := s.engine.ScopeFor(ctx, p, q.School)
	if err != nil {
		return nil, err
	}

	limit, page, offset := q.Window()

	// The search index only prefilters candidate ids; the scope filter and
	// pagination still apply in the database.
	var ids []uuid.UUID
	if q.Search != "" {
		ids, err = s.index.SearchStudentIDs(q.Search, limit+offset)
		if err != nil {
			return nil, apperror.Internal("Student search failed", err)
		}
	}

	students, err := s.students.List(ctx, scope, ids, limit, offset)
	if err != nil {
		return nil, apperror.Internal("Failed to list students", err)
	}

	total, err := s.students.Count(ctx, scope, ids)
	if err != nil {
		return nil, apperror.Internal("Failed to count students", err)
	}

	return &StudentList{
		Students:   students,
		Pagination: dto.Pagination{Total: total, Page: page, Limit: limit},
	}, nil
}

func (s *studentService) Update(ctx context.Context, p *authz.Principal, id string, req dto.UpdateStudentRequest) (*model.Student, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	existing, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Role == model.RoleSchoolAdmin {
		isAdmin, err := s.engine.IsAdminOfSchoolID(ctx, p.UserID, existing.SchoolID)
		if err != nil {
			return nil, apperror.Internal("Failed to check school ownership", err)
		}
		if !isAdmin {
			return nil, apperror.Forbidden("You are not authorized to update this student")
		}
	}

	// Classrooms are re-validated against the student's current school;
	// update never changes the school.
	var classrooms *[]model.Classroom
	if req.Classrooms != nil {
		resolved, err := s.resolveClassrooms(ctx, *req.Classrooms, existing.SchoolID)
		if err != nil {
			return nil, err
		}
		classrooms = &resolved
	}

	hasPlain := req.StudentName != nil || req.StudentBirth != nil || req.StudentPic != nil
	if !hasPlain && classrooms == nil {
		return nil, apperror.BadRequest("No fields to update")
	}

	// Field validation runs only when a non-classroom field is present.
	if hasPlain {
		plain := req
		plain.Classrooms = nil
		if errs := validator.Validate(plain); errs != nil {
			return nil, apperror.Validation(errs)
		}
	}

	fields := map[string]any{}
	if req.StudentName != nil {
		fields["name"] = *req.StudentName
	}
	if req.StudentPic != nil {
		fields["pic"] = *req.StudentPic
	}
	if req.StudentBirth != nil {
		birth, err := time.Parse(birthDateLayout, *req.StudentBirth)
		if err != nil {
			return nil, apperror.BadRequest("studentBirth must be a date in YYYY-MM-DD format")
		}
		fields["birth"] = birth
	}

	student, err := s.students.Update(ctx, existing.ID, fields, classrooms)
	if err != nil {
		return nil, apperror.Internal("Student Update Failed", err)
	}
	if student == nil {
		return nil, apperror.NotFound("This Student does not exist")
	}

	s.index.IndexStudent(student)
	return student, nil
}

func (s *studentService) Transfer(ctx context.Context, p *authz.Principal, id string, req dto.TransferStudentRequest) (*model.Student, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, apperror.BadRequest("Student ID is required")
	}
	if req.School == "" {
		return nil, apperror.BadRequest("Target school ID is required")
	}

	existing, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	// Same-school check comes before any admin check.
	if req.School == existing.SchoolID.String() {
		return nil, apperror.BadRequest("Student already belongs to this school")
	}

	if p.Role == model.RoleSchoolAdmin {
		isAdmin, err := s.engine.IsAdminOfSchoolID(ctx, p.UserID, existing.SchoolID)
		if err != nil {
			return nil, apperror.Internal("Failed to check school ownership", err)
		}
		if !isAdmin {
			return nil, apperror.Forbidden("You are not authorized to transfer this student")
		}
	}

	targetID, err := uuid.Parse(req.School)
	if err != nil {
		return nil, apperror.NotFound("The target school does not exist")
	}
	target, err := s.schools.FindByID(ctx, targetID)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch school", err)
	}
	if target == nil {
		return nil, apperror.NotFound("The target school does not exist")
	}

	if p.Role == model.RoleSchoolAdmin && !authz.IsAdminOf(target, p.UserID) {
		return nil, apperror.Forbidden("You are not authorized to transfer to this school")
	}

	student, err := s.students.Transfer(ctx, existing.ID, targetID)
	if err != nil {
		return nil, apperror.Internal("Student Transfer Failed", err)
	}
	if student == nil {
		return nil, apperror.NotFound("This Student does not exist")
	}

	s.index.IndexStudent(student)
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, p *authz.Principal, id string) error {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return err
	}

	student, err := s.findStudent(ctx, id)
	if err != nil {
		return err
	}

	if p.Role == model.RoleSchoolAdmin {
		isAdmin, err := s.engine.IsAdminOfSchoolID(ctx, p.UserID, student.SchoolID)
		if err != nil {
			return apperror.Internal("Failed to check school ownership", err)
		}
		if !isAdmin {
			return apperror.Forbidden("You are not authorized to delete this student")
		}
	}

	if err := s.students.Delete(ctx, student.ID); err != nil {
		return apperror.Internal("Student Deletion Failed", err)
	}

	s.index.RemoveStudent(student.ID.String())
	return nil
}

func (s *studentService) UploadPicture(ctx context.Context, p *authz.Principal, id string, pic PictureFile) (*model.Student, error) {
	if err := s.engine.Require(p, authz.CapManageSchoolResources); err != nil {
		return nil, err
	}

	student, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Role == model.RoleSchoolAdmin {
		isAdmin, err := s.engine.IsAdminOfSchoolID(ctx, p.UserID, student.SchoolID)
		if err != nil {
			return nil, apperror.Internal("Failed to check school ownership", err)
		}
		if !isAdmin {
			return nil, apperror.Forbidden("You are not authorized to update this student")
		}
	}

	if pic.Reader == nil {
		return nil, apperror.BadRequest("Picture file is required")
	}
	if s.pictures == nil {
		return nil, apperror.Internal("Picture storage is not configured", nil)
	}

	url, err := s.pictures.UploadImage(ctx, pic.Reader, "students", pic.FileName)
	if err != nil {
		return nil, apperror.Internal("Picture Upload Failed", err)
	}

	// Best effort: a stale previous picture is not worth failing the upload.
	if student.Pic != nil && *student.Pic != "" {
		_ = s.pictures.DeleteImage(ctx, *student.Pic)
	}

	updated, err := s.students.Update(ctx, student.ID, map[string]any{"pic": url}, nil)
	if err != nil {
		return nil, apperror.Internal("Student Update Failed", err)
	}
	if updated == nil {
		return nil, apperror.NotFound("This Student does not exist")
	}

	return updated, nil
}

// resolveClassrooms resolves classroom ids constrained to the given school.
// Any id that fails to resolve inside that school fails the whole call.
func (s *studentService) resolveClassrooms(ctx context.Context, requested []string, schoolID uuid.UUID) ([]model.Classroom, error) {
	if len(requested) == 0 {
		return []model.Classroom{}, nil
	}

	ids := make([]uuid.UUID, 0, len(requested))
	for _, raw := range requested {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.BadRequest("One or more classroom IDs are invalid or do not belong to this school")
		}
		ids = append(ids, id)
	}

	classrooms, err := s.classrooms.FindByIDsInSchool(ctx, ids, schoolID)
	if err != nil {
		return nil, apperror.Internal("Failed to resolve classrooms", err)
	}
	if len(classrooms) != len(requested) {
		return nil, apperror.BadRequest("One or more classroom IDs are invalid or do not belong to this school")
	}
	return classrooms, nil
}

func (s *studentService) findStudent(ctx context.Context, id string) (*model.Student, error) {
	if id == "" {
		return nil, apperror.BadRequest("Student ID is required")
	}
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("This Student does not exist")
	}
	student, err := s.students.FindByID(ctx, sid)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch student", err)
	}
	if student == nil {
		return nil, apperror.NotFound("This Student does not exist")
	}
	return student, nil
}
