package service

import (
	"context"
	"fmt"
	"time"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	playerRepo ports.PlayerRepository
	walletRepo ports.WalletRepository
	walletSvc  ports.WalletService
	hashSvc    ports.HashService
	encSvc     ports.EncryptionService
	tokenSvc   ports.TokenService

	currency    string
	demoBalance int64 // starting balance credited at registration, minor units
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	playerRepo ports.PlayerRepository,
	walletRepo ports.WalletRepository,
	walletSvc ports.WalletService,
	hashSvc ports.HashService,
	encSvc ports.EncryptionService,
	tokenSvc ports.TokenService,
	currency string,
	demoBalance int64,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		playerRepo:  playerRepo,
		walletRepo:  walletRepo,
		walletSvc:   walletSvc,
		hashSvc:     hashSvc,
		encSvc:      encSvc,
		tokenSvc:    tokenSvc,
		currency:    currency,
		demoBalance: demoBalance,
	}
}

// Register creates a new player account with a wallet. The demo balance
// is credited through the wallet service so it lands in the ledger as a
// DEPOSIT: the balance stays reconstructible from transactions alone.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.RegisterResponse, error) {
	// Check username uniqueness
	existing, err := s.playerRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	// Hash password with Argon2id
	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	player := &domain.Player{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: passwordHash,
		Status:       domain.PlayerStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create player: %w", err))
	}

	// Encrypt initial balance (0)
	encryptedBalance, err := s.encSvc.Encrypt("0")
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encrypt initial balance: %w", err))
	}

	wallet := &domain.Wallet{
		ID:               uuid.New(),
		PlayerID:         player.ID,
		Currency:         s.currency,
		EncryptedBalance: encryptedBalance,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	if s.demoBalance > 0 {
		if _, err := s.walletSvc.Deposit(ctx, ports.DepositRequest{
			PlayerID: player.ID,
			Amount:   s.demoBalance,
		}); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("credit demo balance: %w", err))
		}
	}

	token, expiresAt, err := s.tokenSvc.Generate(player.ID, player.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return &ports.RegisterResponse{
		Player:    player,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	player, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find player: %w", err))
	}
	if player == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	// Verify password
	valid, err := s.hashSvc.Verify(password, player.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !player.IsActive() {
		return "", time.Time{}, apperror.ErrPlayerSuspended()
	}

	token, expiry, err := s.tokenSvc.Generate(player.ID, player.Username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

// GetProfile returns the player behind an authenticated session.
func (s *AuthServiceImpl) GetProfile(ctx context.Context, playerID uuid.UUID) (*domain.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find player: %w", err))
	}
	if player == nil {
		// Valid token for a deleted account
		return nil, apperror.ErrInvalidToken()
	}
	return player, nil
}
