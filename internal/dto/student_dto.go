package dto

type CreateStudentRequest struct {
	StudentName  string   `json:"studentName" validate:"required,min=3,max=100"`
	StudentBirth string   `json:"studentBirth" validate:"required,datetime=2006-01-02"`
	School       string   `json:"school" validate:"required,uuid"`
	StudentPic   *string  `json:"studentPic" validate:"omitempty,min=3,max=300"`
	Classrooms   []string `json:"classrooms"`
}

// UpdateStudentRequest never touches the owning school; use transfer for that.
type UpdateStudentRequest struct {
	StudentName  *string   `json:"studentName" validate:"omitempty,min=3,max=100"`
	StudentBirth *string   `json:"studentBirth" validate:"omitempty,datetime=2006-01-02"`
	StudentPic   *string   `json:"studentPic" validate:"omitempty,min=3,max=300"`
	Classrooms   *[]string `json:"classrooms"`
}

type TransferStudentRequest struct {
	School string `json:"school"`
}
