package service

import (
	"context"
	"testing"

	"velora/auth-service/internal/app/auth/entity"
	"velora/auth-service/internal/app/auth/repository/mocks"
	"velora/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceMocks struct {
	userRepo *mocks.MockUserRepository
	roleRepo *mocks.MockRoleRepository
}

func setupUserService() (*UserService, *userServiceMocks) {
	m := &userServiceMocks{
		userRepo: new(mocks.MockUserRepository),
		roleRepo: new(mocks.MockRoleRepository),
	}
	return NewUserService(m.userRepo, m.roleRepo), m
}

func newCustomerUser() *entity.User {
	return &entity.User{
		ID:       uuid.New(),
		Email:    "user@example.com",
		FullName: "Jane Doe",
		RoleID:   customerRole.ID,
	}
}

// ==================== GetByID ====================

func TestUserGetByID_JoinsRoleAndPermissions(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	user := newCustomerUser()
	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	m.roleRepo.On("GetByID", ctx, customerRole.ID).Return(customerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, customerRole.ID).Return(customerPermissions, nil)

	result, err := svc.GetByID(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.Email, result.Email)
	assert.Equal(t, "customer", result.Role.Name)
	require.Len(t, result.Permissions, 2)
	assert.Equal(t, "reviews:write", result.Permissions[0].Code)
}

func TestUserGetByID_UserNotFound(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()
	userID := uuid.New()

	m.userRepo.On("GetByID", ctx, userID).Return(nil, noRows("failed to get user by id"))

	result, err := svc.GetByID(ctx, userID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserGetByID_RoleNotFound(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	user := newCustomerUser()
	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	m.roleRepo.On("GetByID", ctx, customerRole.ID).Return(nil, noRows("failed to get role by id"))

	result, err := svc.GetByID(ctx, user.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

// ==================== Update ====================

func TestUserUpdate_AllFields(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	user := newCustomerUser()
	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	m.roleRepo.On("GetByID", ctx, sellerRole.ID).Return(sellerRole, nil)
	m.userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	updated, err := svc.Update(ctx, user.ID, &entity.UpdateUserRequest{
		FullName: "Jane Smith",
		Email:    "jane.smith@example.com",
		RoleID:   sellerRole.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.FullName)
	assert.Equal(t, "jane.smith@example.com", updated.Email)
	assert.Equal(t, sellerRole.ID, updated.RoleID)
}

func TestUserUpdate_PartialKeepsRest(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	user := newCustomerUser()
	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	m.userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	updated, err := svc.Update(ctx, user.ID, &entity.UpdateUserRequest{
		FullName: "Jane Smith",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.FullName)
	// Нулевой role_id в запросе роль не меняет и в репозиторий ролей не ходит
	assert.Equal(t, customerRole.ID, updated.RoleID)
	assert.Equal(t, "user@example.com", updated.Email)
	m.roleRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUserUpdate_UserNotFound(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()
	userID := uuid.New()

	m.userRepo.On("GetByID", ctx, userID).Return(nil, noRows("failed to get user by id"))

	updated, err := svc.Update(ctx, userID, &entity.UpdateUserRequest{FullName: "Jane Smith"})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrUserNotFound)
	m.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserUpdate_UnknownRole(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	user := newCustomerUser()
	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	m.roleRepo.On("GetByID", ctx, 99).Return(nil, noRows("failed to get role by id"))

	updated, err := svc.Update(ctx, user.ID, &entity.UpdateUserRequest{RoleID: 99})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrRoleNotFound)
	m.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// ==================== UpdatePassword ====================

func TestUserUpdatePassword_Success(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	oldHash, err := util.HashPassword("old-password")
	require.NoError(t, err)

	user := newCustomerUser()
	user.PasswordHash = oldHash

	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	var saved *entity.User
	m.userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*entity.User)
		})

	err = svc.UpdatePassword(ctx, user.ID, "old-password", "new-password")

	require.NoError(t, err)
	assert.NotEqual(t, oldHash, saved.PasswordHash)
	assert.True(t, util.CheckPassword("new-password", saved.PasswordHash))
}

func TestUserUpdatePassword_WrongOldPassword(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	hash, err := util.HashPassword("old-password")
	require.NoError(t, err)

	user := newCustomerUser()
	user.PasswordHash = hash

	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	err = svc.UpdatePassword(ctx, user.ID, "wrong-password", "new-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	m.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserUpdatePassword_UserNotFound(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()
	userID := uuid.New()

	m.userRepo.On("GetByID", ctx, userID).Return(nil, noRows("failed to get user by id"))

	err := svc.UpdatePassword(ctx, userID, "old-password", "new-password")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ==================== Delete ====================

func TestUserDelete_Success(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()
	userID := uuid.New()

	m.userRepo.On("Delete", ctx, userID).Return(nil)

	err := svc.Delete(ctx, userID)

	require.NoError(t, err)
}

func TestUserDelete_NotFound(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()
	userID := uuid.New()

	m.userRepo.On("Delete", ctx, userID).Return(noRows("failed to delete user"))

	err := svc.Delete(ctx, userID)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ==================== List ====================

func TestUserList_JoinsRolesPerUser(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	customer := newCustomerUser()
	seller := &entity.User{
		ID:       uuid.New(),
		Email:    "store@example.com",
		FullName: "Acme Store",
		RoleID:   sellerRole.ID,
	}

	m.userRepo.On("List", ctx).Return([]entity.User{*customer, *seller}, nil)
	m.roleRepo.On("GetByID", ctx, customerRole.ID).Return(customerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, customerRole.ID).Return(customerPermissions, nil)
	m.roleRepo.On("GetByID", ctx, sellerRole.ID).Return(sellerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, sellerRole.ID).
		Return([]entity.Permission{{ID: 3, Code: "catalog:write"}}, nil)

	result, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "customer", result[0].Role.Name)
	assert.Equal(t, "seller", result[1].Role.Name)
	assert.Equal(t, "catalog:write", result[1].Permissions[0].Code)
}

func TestUserList_SkipsUsersWithMissingRole(t *testing.T) {
	svc, m := setupUserService()
	ctx := context.Background()

	customer := newCustomerUser()
	orphan := &entity.User{
		ID:       uuid.New(),
		Email:    "orphan@example.com",
		FullName: "Orphan User",
		RoleID:   99,
	}

	m.userRepo.On("List", ctx).Return([]entity.User{*customer, *orphan}, nil)
	m.roleRepo.On("GetByID", ctx, customerRole.ID).Return(customerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, customerRole.ID).Return(customerPermissions, nil)
	m.roleRepo.On("GetByID", ctx, 99).Return(nil, noRows("failed to get role by id"))

	result, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, customer.Email, result[0].Email)
}
