package dto

import "anoa.com/schoolhub/internal/model"

type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type AuthResponse struct {
	User      *model.User `json:"user"`
	LongToken string      `json:"longToken"`
}

type LoginResponse struct {
	LongToken string `json:"longToken"`
}
