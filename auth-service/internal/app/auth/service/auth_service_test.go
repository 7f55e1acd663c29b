package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"velora/auth-service/internal/app/auth/entity"
	"velora/auth-service/internal/app/auth/repository/mocks"
	"velora/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authServiceMocks struct {
	userRepo  *mocks.MockUserRepository
	roleRepo  *mocks.MockRoleRepository
	tokenRepo *mocks.MockTokenRepository
}

func setupAuthService() (*AuthService, *authServiceMocks) {
	m := &authServiceMocks{
		userRepo:  new(mocks.MockUserRepository),
		roleRepo:  new(mocks.MockRoleRepository),
		tokenRepo: new(mocks.MockTokenRepository),
	}
	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	svc := NewAuthService(m.userRepo, m.roleRepo, m.tokenRepo, jwtManager)
	return svc, m
}

func noRows(msg string) error {
	return fmt.Errorf("%s: %w", msg, pgx.ErrNoRows)
}

var (
	customerRole = &entity.Role{ID: 1, Name: "customer"}
	sellerRole   = &entity.Role{ID: 2, Name: "seller"}

	customerPermissions = []entity.Permission{
		{ID: 1, Code: "reviews:write"},
		{ID: 2, Code: "cart:write"},
	}
)

// ==================== Register ====================

func TestRegister_DefaultsToCustomerRole(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, noRows("failed to get user by email"))
	m.roleRepo.On("GetByName", ctx, "customer").Return(customerRole, nil)

	var created *entity.User
	m.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entity.User)
		})

	m.roleRepo.On("GetByID", ctx, customerRole.ID).Return(customerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, customerRole.ID).Return(customerPermissions, nil)
	m.tokenRepo.On("SaveRefreshToken", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Register(ctx, &entity.RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		FullName: "Jane Doe",
	})

	require.NoError(t, err)
	assert.Equal(t, customerRole.ID, created.RoleID)
	assert.Equal(t, "Jane Doe", created.FullName)
	// В базу попадает bcrypt-хэш, не пароль
	assert.NotEqual(t, "password123", created.PasswordHash)
	assert.True(t, util.CheckPassword("password123", created.PasswordHash))

	assert.Equal(t, "customer", resp.User.Role.Name)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, int64(900), resp.Tokens.ExpiresIn)
}

func TestRegister_SellerRole(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "store@example.com").Return(nil, noRows("failed to get user by email"))
	m.roleRepo.On("GetByName", ctx, "seller").Return(sellerRole, nil)
	m.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	m.roleRepo.On("GetByID", ctx, sellerRole.ID).Return(sellerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, sellerRole.ID).
		Return([]entity.Permission{{ID: 3, Code: "catalog:write"}}, nil)
	m.tokenRepo.On("SaveRefreshToken", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Register(ctx, &entity.RegisterRequest{
		Email:    "store@example.com",
		Password: "password123",
		FullName: "Acme Store",
		Role:     "seller",
	})

	require.NoError(t, err)
	assert.Equal(t, "seller", resp.User.Role.Name)
	assert.Equal(t, []entity.Permission{{ID: 3, Code: "catalog:write"}}, resp.User.Permissions)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "taken@example.com").
		Return(&entity.User{ID: uuid.New(), Email: "taken@example.com"}, nil)

	resp, err := svc.Register(ctx, &entity.RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
		FullName: "Jane Doe",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUserExists)
	m.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UnknownRole(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, noRows("failed to get user by email"))
	m.roleRepo.On("GetByName", ctx, "customer").Return(nil, noRows("failed to get role by name"))

	resp, err := svc.Register(ctx, &entity.RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		FullName: "Jane Doe",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

// ==================== Login ====================

func TestLogin_Success(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	hash, err := util.HashPassword("password123")
	require.NoError(t, err)

	user := &entity.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
		FullName:     "Jane Doe",
		RoleID:       customerRole.ID,
	}

	m.userRepo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
	m.roleRepo.On("GetByID", ctx, customerRole.ID).Return(customerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, customerRole.ID).Return(customerPermissions, nil)
	m.tokenRepo.On("SaveRefreshToken", ctx, user.ID, mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Login(ctx, &entity.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	hash, err := util.HashPassword("password123")
	require.NoError(t, err)

	m.userRepo.On("GetByEmail", ctx, "user@example.com").
		Return(&entity.User{ID: uuid.New(), PasswordHash: hash}, nil)

	resp, err := svc.Login(ctx, &entity.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong password",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	m.tokenRepo.AssertNotCalled(t, "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, noRows("failed to get user by email"))

	resp, err := svc.Login(ctx, &entity.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ==================== RefreshTokens ====================

func TestRefreshTokens_RotatesToken(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Email: "user@example.com", FullName: "Jane Doe", RoleID: customerRole.ID}
	stored := &entity.RefreshToken{UserID: user.ID, Token: "old-refresh-token"}

	m.tokenRepo.On("GetRefreshToken", ctx, "old-refresh-token").Return(stored, nil)
	m.tokenRepo.On("DeleteRefreshToken", ctx, "old-refresh-token").Return(nil)
	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	m.roleRepo.On("GetByID", ctx, customerRole.ID).Return(customerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, customerRole.ID).Return(customerPermissions, nil)

	var savedToken string
	m.tokenRepo.On("SaveRefreshToken", ctx, user.ID, mock.Anything, mock.Anything).Return(nil).
		Run(func(args mock.Arguments) {
			savedToken = args.Get(2).(string)
		})

	pair, err := svc.RefreshTokens(ctx, "old-refresh-token")

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	// Использованный токен заменяется новым
	assert.NotEqual(t, "old-refresh-token", pair.RefreshToken)
	assert.Equal(t, pair.RefreshToken, savedToken)
	m.tokenRepo.AssertCalled(t, "DeleteRefreshToken", ctx, "old-refresh-token")
}

func TestRefreshTokens_UnknownToken(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	m.tokenRepo.On("GetRefreshToken", ctx, "unknown-token").
		Return(nil, fmt.Errorf("refresh token not found: %w", redis.Nil))

	pair, err := svc.RefreshTokens(ctx, "unknown-token")

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	m.tokenRepo.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}

// ==================== Logout / ValidateToken ====================

func TestLogout_BlacklistsAccessTokenAndDropsSessions(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	userID := uuid.New()
	accessToken, err := jwtManager.GenerateAccessToken(userID, "user@example.com", "Jane Doe", 1, "customer", nil)
	require.NoError(t, err)

	m.tokenRepo.On("AddToBlacklist", ctx, accessToken, mock.AnythingOfType("time.Time")).Return(nil)
	m.tokenRepo.On("DeleteRefreshToken", ctx, "refresh-token").Return(nil)
	m.tokenRepo.On("DeleteUserRefreshTokens", ctx, userID).Return(nil)

	err = svc.Logout(ctx, accessToken, "refresh-token")

	require.NoError(t, err)
	m.tokenRepo.AssertCalled(t, "AddToBlacklist", ctx, accessToken, mock.AnythingOfType("time.Time"))
	m.tokenRepo.AssertCalled(t, "DeleteUserRefreshTokens", ctx, userID)
}

func TestLogout_InvalidTokenIsNoop(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	err := svc.Logout(ctx, "not-a-jwt", "")

	require.NoError(t, err)
	m.tokenRepo.AssertNotCalled(t, "AddToBlacklist", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateToken_Success(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	userID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, "user@example.com", "Jane Doe", 1, "customer", []string{"reviews:write"})
	require.NoError(t, err)

	m.tokenRepo.On("IsBlacklisted", ctx, token).Return(false, nil)

	claims, err := svc.ValidateToken(ctx, token)

	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Jane Doe", claims.FullName)
}

func TestValidateToken_Blacklisted(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	m.tokenRepo.On("IsBlacklisted", ctx, "revoked-token").Return(true, nil)

	claims, err := svc.ValidateToken(ctx, "revoked-token")

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

// ==================== GetCurrentUser ====================

func TestGetCurrentUser_Success(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Email: "user@example.com", FullName: "Jane Doe", RoleID: customerRole.ID}

	m.userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	m.roleRepo.On("GetByID", ctx, customerRole.ID).Return(customerRole, nil)
	m.roleRepo.On("GetPermissionsByRoleID", ctx, customerRole.ID).Return(customerPermissions, nil)

	result, err := svc.GetCurrentUser(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", result.FullName)
	assert.Equal(t, "customer", result.Role.Name)
	assert.Len(t, result.Permissions, 2)
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	svc, m := setupAuthService()
	ctx := context.Background()
	userID := uuid.New()

	m.userRepo.On("GetByID", ctx, userID).Return(nil, noRows("failed to get user by id"))

	result, err := svc.GetCurrentUser(ctx, userID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
