package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/internal/core/ports/mocks"
	"casino-round-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (
	*AuthServiceImpl,
	*mocks.MockPlayerRepository,
	*mocks.MockWalletRepository,
	*mocks.MockWalletService,
	*mocks.MockHashService,
	*mocks.MockEncryptionService,
	*mocks.MockTokenService,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	playerRepo := mocks.NewMockPlayerRepository(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	walletSvc := mocks.NewMockWalletService(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	svc := NewAuthService(playerRepo, walletRepo, walletSvc, hashSvc, encSvc, tokenSvc, "USD", 100000)
	return svc, playerRepo, walletRepo, walletSvc, hashSvc, encSvc, tokenSvc, ctrl
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, playerRepo, walletRepo, walletSvc, hashSvc, encSvc, tokenSvc, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterRequest{
		Username: "new_player",
		Password: "StrongP@ss123",
	}
	expiry := time.Now().Add(24 * time.Hour)

	// Expect: check username uniqueness
	playerRepo.EXPECT().GetByUsername(ctx, req.Username).Return(nil, nil)
	// Expect: hash password
	hashSvc.EXPECT().Hash(req.Password).Return("$argon2id$hashed", nil)
	// Expect: create player
	playerRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	// Expect: encrypt initial balance
	encSvc.EXPECT().Encrypt("0").Return("encrypted_zero", nil)
	// Expect: create wallet
	walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	// Expect: demo balance lands in the ledger as a deposit
	walletSvc.EXPECT().Deposit(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, dep ports.DepositRequest) (*domain.Transaction, error) {
			assert.Equal(t, int64(100000), dep.Amount)
			return &domain.Transaction{ID: uuid.New(), Type: domain.TransactionTypeDeposit, Amount: 100000}, nil
		})
	// Expect: issue session token
	tokenSvc.EXPECT().Generate(gomock.Any(), req.Username).Return("jwt_token_here", expiry, nil)

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "jwt_token_here", resp.Token)
	assert.Equal(t, expiry, resp.ExpiresAt)
	require.NotNil(t, resp.Player)
	assert.Equal(t, "new_player", resp.Player.Username)
	assert.Equal(t, domain.PlayerStatusActive, resp.Player.Status)
	assert.NotEqual(t, uuid.Nil, resp.Player.ID)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, playerRepo, _, _, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterRequest{
		Username: "existing_user",
		Password: "password",
	}

	existing := &domain.Player{Username: "existing_user"}
	playerRepo.EXPECT().GetByUsername(ctx, req.Username).Return(existing, nil)

	resp, err := svc.Register(ctx, req)
	assert.Nil(t, resp)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_002", appErr.Code)
}

func TestAuthService_Register_NoDemoBalanceConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	playerRepo := mocks.NewMockPlayerRepository(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	walletSvc := mocks.NewMockWalletService(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewAuthService(playerRepo, walletRepo, walletSvc, hashSvc, encSvc, tokenSvc, "USD", 0)

	ctx := context.Background()
	playerRepo.EXPECT().GetByUsername(ctx, "poor_player").Return(nil, nil)
	hashSvc.EXPECT().Hash("pw").Return("$argon2id$hashed", nil)
	playerRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	encSvc.EXPECT().Encrypt("0").Return("encrypted_zero", nil)
	walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	// No Deposit call: zero demo balance means an empty ledger.
	tokenSvc.EXPECT().Generate(gomock.Any(), "poor_player").Return("tok", time.Now(), nil)

	resp, err := svc.Register(ctx, ports.RegisterRequest{Username: "poor_player", Password: "pw"})
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, playerRepo, _, _, hashSvc, _, tokenSvc, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	playerID := uuid.New()
	expiry := time.Now().Add(24 * time.Hour)

	player := &domain.Player{
		ID:           playerID,
		Username:     "test_user",
		PasswordHash: "$argon2id$hashed",
		Status:       domain.PlayerStatusActive,
	}

	playerRepo.EXPECT().GetByUsername(ctx, "test_user").Return(player, nil)
	hashSvc.EXPECT().Verify("correct_password", "$argon2id$hashed").Return(true, nil)
	tokenSvc.EXPECT().Generate(playerID, "test_user").Return("jwt_token_here", expiry, nil)

	token, tokenExpiry, err := svc.Login(ctx, "test_user", "correct_password")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token_here", token)
	assert.Equal(t, expiry, tokenExpiry)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, playerRepo, _, _, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	playerRepo.EXPECT().GetByUsername(ctx, "nonexistent").Return(nil, nil)

	_, _, err := svc.Login(ctx, "nonexistent", "password")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, playerRepo, _, _, hashSvc, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	player := &domain.Player{
		ID:           uuid.New(),
		Username:     "test_user",
		PasswordHash: "$argon2id$hashed",
		Status:       domain.PlayerStatusActive,
	}

	playerRepo.EXPECT().GetByUsername(ctx, "test_user").Return(player, nil)
	hashSvc.EXPECT().Verify("wrong_password", "$argon2id$hashed").Return(false, nil)

	_, _, err := svc.Login(ctx, "test_user", "wrong_password")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestAuthService_Login_PlayerSuspended(t *testing.T) {
	svc, playerRepo, _, _, hashSvc, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	player := &domain.Player{
		ID:           uuid.New(),
		Username:     "test_user",
		PasswordHash: "$argon2id$hashed",
		Status:       domain.PlayerStatusSuspended,
	}

	playerRepo.EXPECT().GetByUsername(ctx, "test_user").Return(player, nil)
	hashSvc.EXPECT().Verify("correct_password", "$argon2id$hashed").Return(true, nil)

	_, _, err := svc.Login(ctx, "test_user", "correct_password")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_005", appErr.Code)
}

func TestAuthService_GetProfile_Success(t *testing.T) {
	svc, playerRepo, _, _, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	playerID := uuid.New()
	player := &domain.Player{ID: playerID, Username: "test_user", Status: domain.PlayerStatusActive}

	playerRepo.EXPECT().GetByID(ctx, playerID).Return(player, nil)

	got, err := svc.GetProfile(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, player, got)
}

func TestAuthService_GetProfile_DeletedAccount(t *testing.T) {
	svc, playerRepo, _, _, _, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	playerID := uuid.New()
	playerRepo.EXPECT().GetByID(ctx, playerID).Return(nil, nil)

	got, err := svc.GetProfile(ctx, playerID)
	assert.Nil(t, got)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_003", appErr.Code)
}
