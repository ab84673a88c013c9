package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/schoolhub/internal/authz"
	"anoa.com/schoolhub/internal/model"
)

// In-memory stand-ins for the persistence collaborator. They implement just
// enough of the repository contracts for the managers under test.

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByIDsWithRole(_ context.Context, ids []uuid.UUID, role string) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		for _, u := range f.users {
			if u.ID == id && u.Role == role {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeSchoolRepo struct {
	schools []*model.School
}

func (f *fakeSchoolRepo) Create(_ context.Context, school *model.School) error {
	if school.ID == uuid.Nil {
		school.ID = uuid.New()
	}
	for _, s := range f.schools {
		if s.Email == school.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.schools = append(f.schools, school)
	return nil
}

func (f *fakeSchoolRepo) FindByID(_ context.Context, id uuid.UUID) (*model.School, error) {
	for _, s := range f.schools {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSchoolRepo) FindAll(_ context.Context) ([]model.School, error) {
	out := make([]model.School, 0, len(f.schools))
	for _, s := range f.schools {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSchoolRepo) FindByAdmin(_ context.Context, userID uuid.UUID) ([]model.School, error) {
	var out []model.School
	for _, s := range f.schools {
		for _, admin := range s.Admins {
			if admin.ID == userID {
				out = append(out, *s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSchoolRepo) Update(_ context.Context, id uuid.UUID, fields map[string]any, admins *[]model.User) (*model.School, error) {
	for _, s := range f.schools {
		if s.ID != id {
			continue
		}
		if v, ok := fields["name"]; ok {
			s.Name = v.(string)
		}
		if v, ok := fields["email"]; ok {
			s.Email = v.(string)
		}
		if v, ok := fields["address"]; ok {
			s.Address = v.(string)
		}
		if v, ok := fields["phone"]; ok {
			s.Phone = v.(string)
		}
		if admins != nil {
			s.Admins = *admins
		}
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeSchoolRepo) Delete(_ context.Context, id uuid.UUID) (*model.School, error) {
	for i, s := range f.schools {
		if s.ID == id {
			f.schools = append(f.schools[:i], f.schools[i+1:]...)
			return s, nil
		}
	}
	return nil, nil
}

type fakeClassroomRepo struct {
	classrooms []*model.Classroom
	students   *fakeStudentRepo
}

func (f *fakeClassroomRepo) Create(_ context.Context, classroom *model.Classroom) error {
	if classroom.ID == uuid.Nil {
		classroom.ID = uuid.New()
	}
	f.classrooms = append(f.classrooms, classroom)
	return nil
}

func (f *fakeClassroomRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Classroom, error) {
	for _, c := range f.classrooms {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeClassroomRepo) FindByIDsInSchool(_ context.Context, ids []uuid.UUID, schoolID uuid.UUID) ([]model.Classroom, error) {
	var out []model.Classroom
	for _, id := range ids {
		for _, c := range f.classrooms {
			if c.ID == id && c.SchoolID == schoolID {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

func inScope(scope authz.Scope, schoolID uuid.UUID) bool {
	if scope.All {
		return true
	}
	for _, id := range scope.SchoolIDs {
		if id == schoolID {
			return true
		}
	}
	return false
}

func (f *fakeClassroomRepo) List(_ context.Context, scope authz.Scope, limit, offset int) ([]model.Classroom, error) {
	var matched []model.Classroom
	for _, c := range f.classrooms {
		if inScope(scope, c.SchoolID) {
			matched = append(matched, *c)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeClassroomRepo) Count(_ context.Context, scope authz.Scope) (int64, error) {
	var count int64
	for _, c := range f.classrooms {
		if inScope(scope, c.SchoolID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeClassroomRepo) Update(_ context.Context, id uuid.UUID, fields map[string]any) (*model.Classroom, error) {
	for _, c := range f.classrooms {
		if c.ID != id {
			continue
		}
		if v, ok := fields["name"]; ok {
			c.Name = v.(string)
		}
		if v, ok := fields["capacity"]; ok {
			c.Capacity = v.(int)
		}
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeClassroomRepo) DeleteCascade(_ context.Context, id uuid.UUID) error {
	if f.students != nil {
		for _, s := range f.students.students {
			kept := s.Classrooms[:0]
			for _, c := range s.Classrooms {
				if c.ID != id {
					kept = append(kept, c)
				}
			}
			s.Classrooms = kept
		}
	}
	for i, c := range f.classrooms {
		if c.ID == id {
			f.classrooms = append(f.classrooms[:i], f.classrooms[i+1:]...)
			break
		}
	}
	return nil
}

type fakeStudentRepo struct {
	students []*model.Student
}

func (f *fakeStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	f.students = append(f.students, student)
	return nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func idIn(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (f *fakeStudentRepo) List(_ context.Context, scope authz.Scope, ids []uuid.UUID, limit, offset int) ([]model.Student, error) {
	var matched []model.Student
	for _, s := range f.students {
		if !inScope(scope, s.SchoolID) {
			continue
		}
		if ids != nil && !idIn(ids, s.ID) {
			continue
		}
		matched = append(matched, *s)
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeStudentRepo) Count(_ context.Context, scope authz.Scope, ids []uuid.UUID) (int64, error) {
	var count int64
	for _, s := range f.students {
		if !inScope(scope, s.SchoolID) {
			continue
		}
		if ids != nil && !idIn(ids, s.ID) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeStudentRepo) Update(_ context.Context, id uuid.UUID, fields map[string]any, classrooms *[]model.Classroom) (*model.Student, error) {
	for _, s := range f.students {
		if s.ID != id {
			continue
		}
		if v, ok := fields["name"]; ok {
			s.Name = v.(string)
		}
		if v, ok := fields["birth"]; ok {
			s.Birth = v.(time.Time)
		}
		if v, ok := fields["pic"]; ok {
			pic := v.(string)
			s.Pic = &pic
		}
		if classrooms != nil {
			s.Classrooms = *classrooms
		}
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStudentRepo) Transfer(_ context.Context, id uuid.UUID, targetSchool uuid.UUID) (*model.Student, error) {
	for _, s := range f.students {
		if s.ID != id {
			continue
		}
		s.SchoolID = targetSchool
		s.School = nil
		s.Classrooms = []model.Classroom{}
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, s := range f.students {
		if s.ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			return nil
		}
	}
	return nil
}

// noopIndex satisfies StudentIndex without a search backend.
type noopIndex struct{}

func (noopIndex) IndexStudent(*model.Student) {}
func (noopIndex) RemoveStudent(string)        {}
func (noopIndex) SearchStudentIDs(string, int) ([]uuid.UUID, error) {
	return nil, nil
}

// env bundles the fakes behind real services, wired the way the server does.
type env struct {
	users      *fakeUserRepo
	schools    *fakeSchoolRepo
	classrooms *fakeClassroomRepo
	students   *fakeStudentRepo
	engine     *authz.Engine

	schoolSvc    SchoolService
	classroomSvc ClassroomService
	studentSvc   StudentService
}

func newEnv() *env {
	users := &fakeUserRepo{}
	schools := &fakeSchoolRepo{}
	students := &fakeStudentRepo{}
	classrooms := &fakeClassroomRepo{students: students}
	engine := authz.NewEngine(schools)

	return &env{
		users:      users,
		schools:    schools,
		classrooms: classrooms,
		students:   students,
		engine:     engine,

		schoolSvc:    NewSchoolService(schools, users, engine),
		classroomSvc: NewClassroomService(classrooms, schools, engine),
		studentSvc:   NewStudentService(students, classrooms, schools, engine, noopIndex{}, nil),
	}
}

func (e *env) addUser(role string) *model.User {
	user := &model.User{ID: uuid.New(), Username: "user-" + uuid.NewString()[:8], Role: role}
	e.users.users = append(e.users.users, user)
	return user
}

func (e *env) addSchool(name string, admins ...*model.User) *model.School {
	school := &model.School{
		ID:      uuid.New(),
		Name:    name,
		Email:   name + "@example.com",
		Address: "1 Main Street",
		Phone:   "5550001234",
	}
	for _, admin := range admins {
		school.Admins = append(school.Admins, *admin)
	}
	e.schools.schools = append(e.schools.schools, school)
	return school
}

func (e *env) addClassroom(name string, school *model.School) *model.Classroom {
	classroom := &model.Classroom{ID: uuid.New(), Name: name, Capacity: 30, SchoolID: school.ID}
	e.classrooms.classrooms = append(e.classrooms.classrooms, classroom)
	return classroom
}

func (e *env) addStudent(name string, school *model.School, classrooms ...*model.Classroom) *model.Student {
	student := &model.Student{
		ID:       uuid.New(),
		Name:     name,
		Birth:    time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC),
		SchoolID: school.ID,
	}
	for _, c := range classrooms {
		student.Classrooms = append(student.Classrooms, *c)
	}
	e.students.students = append(e.students.students, student)
	return student
}

func principalFor(user *model.User) *authz.Principal {
	return &authz.Principal{UserID: user.ID.String(), Role: user.Role}
}
