package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"anoa.com/schoolhub/internal/dto"
	"anoa.com/schoolhub/internal/model"
	"anoa.com/schoolhub/pkg/apperror"
)

func newAuthEnv() (*env, AuthService) {
	e := newEnv()
	return e, NewAuthService(e.users, e.engine)
}

func TestCreateSuperAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("first super admin needs no principal", func(t *testing.T) {
		_, svc := newAuthEnv()
		resp, err := svc.CreateSuperAdmin(ctx, nil, dto.CredentialsRequest{Username: "root", Password: "secret1"})
		assert.NoError(t, err)
		assert.Equal(t, model.RoleSuperAdmin, resp.User.Role)
		assert.NotEmpty(t, resp.LongToken)
		assert.NotEqual(t, "secret1", resp.User.PasswordHash)
	})

	t.Run("subsequent super admins require a super admin", func(t *testing.T) {
		e, svc := newAuthEnv()
		e.addUser(model.RoleSuperAdmin)

		_, err := svc.CreateSuperAdmin(ctx, nil, dto.CredentialsRequest{Username: "root2", Password: "secret1"})
		assertAppError(t, err, 401, "unauthorized")

		existing := e.addUser(model.RoleSuperAdmin)
		resp, err := svc.CreateSuperAdmin(ctx, principalFor(existing), dto.CredentialsRequest{Username: "root2", Password: "secret1"})
		assert.NoError(t, err)
		assert.Equal(t, model.RoleSuperAdmin, resp.User.Role)
	})

	t.Run("short password", func(t *testing.T) {
		_, svc := newAuthEnv()
		_, err := svc.CreateSuperAdmin(ctx, nil, dto.CredentialsRequest{Username: "root", Password: "tiny"})
		var verr *apperror.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestCreateSchoolAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("super admin creates school admin", func(t *testing.T) {
		e, svc := newAuthEnv()
		super := e.addUser(model.RoleSuperAdmin)
		resp, err := svc.CreateSchoolAdmin(ctx, principalFor(super), dto.CredentialsRequest{Username: "head", Password: "secret1"})
		assert.NoError(t, err)
		assert.Equal(t, model.RoleSchoolAdmin, resp.User.Role)
	})

	t.Run("school admin cannot create peers", func(t *testing.T) {
		e, svc := newAuthEnv()
		admin := e.addUser(model.RoleSchoolAdmin)
		_, err := svc.CreateSchoolAdmin(ctx, principalFor(admin), dto.CredentialsRequest{Username: "peer", Password: "secret1"})
		assertAppError(t, err, 401, "You are not authorized to perform this action")
	})

	t.Run("duplicate username", func(t *testing.T) {
		e, svc := newAuthEnv()
		super := e.addUser(model.RoleSuperAdmin)
		creds := dto.CredentialsRequest{Username: "taken", Password: "secret1"}
		_, err := svc.CreateSchoolAdmin(ctx, principalFor(super), creds)
		assert.NoError(t, err)
		_, err = svc.CreateSchoolAdmin(ctx, principalFor(super), creds)
		assertAppError(t, err, 409, "Username already exists")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		_, svc := newAuthEnv()
		_, err := svc.CreateSuperAdmin(ctx, nil, dto.CredentialsRequest{Username: "root", Password: "secret1"})
		assert.NoError(t, err)

		resp, err := svc.Login(ctx, dto.CredentialsRequest{Username: "root", Password: "secret1"})
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.LongToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, svc := newAuthEnv()
		_, err := svc.CreateSuperAdmin(ctx, nil, dto.CredentialsRequest{Username: "root", Password: "secret1"})
		assert.NoError(t, err)

		_, err = svc.Login(ctx, dto.CredentialsRequest{Username: "root", Password: "secret2"})
		assertAppError(t, err, 401, "Invalid credentials")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, svc := newAuthEnv()
		_, err := svc.Login(ctx, dto.CredentialsRequest{Username: "nobody", Password: "secret1"})
		assertAppError(t, err, 401, "Invalid credentials")
	})
}
