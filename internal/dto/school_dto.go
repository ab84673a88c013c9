package dto

type CreateSchoolRequest struct {
	Name         string   `json:"name" validate:"required,min=3,max=100"`
	Email        string   `json:"email" validate:"required,email,max=100"`
	Address      string   `json:"address" validate:"required,min=3,max=500"`
	Phone        string   `json:"phone" validate:"required,min=7,max=20"`
	SchoolAdmins []string `json:"schoolAdmins"`
}

// UpdateSchoolRequest is a partial update; nil means "field not provided".
// SchoolAdmins, when present, replaces the entire admin list.
type UpdateSchoolRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=3,max=100"`
	Email        *string   `json:"email" validate:"omitempty,email,max=100"`
	Address      *string   `json:"address" validate:"omitempty,min=3,max=500"`
	Phone        *string   `json:"phone" validate:"omitempty,min=7,max=20"`
	SchoolAdmins *[]string `json:"schoolAdmins"`
}
