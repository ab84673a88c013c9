package service

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"anoa.com/schoolhub/internal/authz"
	"anoa.com/schoolhub/internal/dto"
	"anoa.com/schoolhub/internal/model"
	"anoa.com/schoolhub/internal/repository"
	"anoa.com/schoolhub/pkg/apperror"
	"anoa.com/schoolhub/pkg/validator"
)

type AuthService interface {
	// CreateSuperAdmin is open only while no superAdmin exists; after the
	// first one the caller must be an authenticated superAdmin.
	CreateSuperAdmin(ctx context.Context, p *authz.Principal, req dto.CredentialsRequest) (*dto.AuthResponse, error)
	CreateSchoolAdmin(ctx context.Context, p *authz.Principal, req dto.CredentialsRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.CredentialsRequest) (*dto.LoginResponse, error)
}

type authService struct {
	users    repository.UserRepository
	engine   *authz.Engine
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(users repository.UserRepository, engine *authz.Engine) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := 24 * time.Hour
	if ttlStr := os.Getenv("JWT_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	return &authService{
		users:    users,
		engine:   engine,
		secret:   secret,
		tokenTTL: ttl,
	}
}

func (s *authService) CreateSuperAdmin(ctx context.Context, p *authz.Principal, req dto.CredentialsRequest) (*dto.AuthResponse, error) {
	count, err := s.users.CountByRole(ctx, model.RoleSuperAdmin)
	if err != nil {
		return nil, apperror.Internal("Failed to check existing super admins", err)
	}
	if count > 0 {
		if err := s.engine.Require(p, authz.CapManageSchools); err != nil {
			return nil, err
		}
	}

	return s.createUser(ctx, req, model.RoleSuperAdmin)
}

func (s *authService) CreateSchoolAdmin(ctx context.Context, p *authz.Principal, req dto.CredentialsRequest) (*dto.AuthResponse, error) {
	if err := s.engine.Require(p, authz.CapManageSchools); err != nil {
		return nil, err
	}

	return s.createUser(ctx, req, model.RoleSchoolAdmin)
}

func (s *authService) Login(ctx context.Context, req dto.CredentialsRequest) (*dto.LoginResponse, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, apperror.Validation(errs)
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.Internal("Login Failed", err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := authz.SignToken(s.secret, user.ID.String(), user.Role, s.tokenTTL)
	if err != nil {
		return nil, apperror.Internal("Login Failed", err)
	}

	return &dto.LoginResponse{LongToken: token}, nil
}

func (s *authService) createUser(ctx context.Context, req dto.CredentialsRequest, role string) (*dto.AuthResponse, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, apperror.Validation(errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("User Creation Failed", err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Username already exists")
		}
		return nil, apperror.Internal("User Creation Failed", err)
	}

	token, err := authz.SignToken(s.secret, user.ID.String(), user.Role, s.tokenTTL)
	if err != nil {
		return nil, apperror.Internal("User Creation Failed", err)
	}

	return &dto.AuthResponse{User: user, LongToken: token}, nil
}
