package dto

type CreateClassroomRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	School   string `json:"school" validate:"required,uuid"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=40"`
}

// UpdateClassroomRequest covers the mutable fields only; the owning school is
// immutable after creation.
type UpdateClassroomRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=100"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1,max=40"`
}
