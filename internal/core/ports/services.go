package ports

import (
	"context"
	"time"

	"casino-round-engine/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(playerID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	PlayerID uuid.UUID
	Username string
}

// --- Service Ports (Business Logic) ---

// AuthService defines player authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
	GetProfile(ctx context.Context, playerID uuid.UUID) (*domain.Player, error)
}

// RegisterRequest holds input for player registration.
type RegisterRequest struct {
	Username string
	Password string
}

// RegisterResponse holds the registration result. The token logs the
// player in immediately, no second login round-trip needed.
type RegisterResponse struct {
	Player    *domain.Player
	Token     string
	ExpiresAt time.Time
}

// WalletService defines the money-movement business logic. Every
// successful call appends exactly one ledger entry.
type WalletService interface {
	GetBalance(ctx context.Context, playerID uuid.UUID) (*domain.Balance, error)
	// CanAfford is a cheap read-only check. Bet re-validates under the
	// row lock, so a true here is advisory only.
	CanAfford(ctx context.Context, playerID uuid.UUID, amount int64) (bool, error)
	Deposit(ctx context.Context, req DepositRequest) (*domain.Transaction, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Transaction, error)
	Bet(ctx context.Context, req BetRequest) (*domain.Transaction, error)
	Win(ctx context.Context, req PayoutRequest) (*domain.Transaction, error)
	Refund(ctx context.Context, req PayoutRequest) (*domain.Transaction, error)
}

// DepositRequest holds validated input for a balance top-up.
type DepositRequest struct {
	PlayerID uuid.UUID
	Amount   int64
}

// WithdrawRequest holds validated input for a balance withdrawal.
type WithdrawRequest struct {
	PlayerID uuid.UUID
	Amount   int64
}

// BetRequest debits a stake for a round.
type BetRequest struct {
	PlayerID uuid.UUID
	Amount   int64
	GameType domain.GameType
	RoundID  uuid.UUID
}

// PayoutRequest credits money back for a round: a WIN on a winning
// settlement, or a REFUND when a round is cancelled before launch.
type PayoutRequest struct {
	PlayerID uuid.UUID
	Amount   int64
	GameType domain.GameType
	RoundID  uuid.UUID
}

// SessionService orchestrates round lifecycles across all games.
type SessionService interface {
	StartRound(ctx context.Context, req StartRoundRequest) (*domain.Round, error)
	// Action applies a player action to an in-flight round. Invalid
	// actions (terminal round, re-reveal, double cash-out) are silent
	// no-ops: the current round is returned unchanged with no error.
	Action(ctx context.Context, req RoundActionRequest) (*domain.Round, error)
	GetRound(ctx context.Context, playerID, roundID uuid.UUID) (*domain.Round, error)
}

// StartRoundRequest holds validated input for starting a round.
type StartRoundRequest struct {
	PlayerID  uuid.UUID
	GameType  domain.GameType
	BetAmount int64
	Options   domain.StartOptions
}

// RoundActionRequest holds a player action on an in-flight round.
// Action is one of "reveal", "pick", "cashout", "cancel".
type RoundActionRequest struct {
	PlayerID uuid.UUID
	RoundID  uuid.UUID
	Action   string
	Tile     *int // target tile for reveal/pick
}

// AutoplayService runs serialized automatic rounds for a player.
type AutoplayService interface {
	Start(ctx context.Context, req AutoplayStartRequest) (*domain.AutoplaySession, error)
	Stop(ctx context.Context, playerID, sessionID uuid.UUID) (*domain.AutoplaySession, error)
	Get(ctx context.Context, playerID, sessionID uuid.UUID) (*domain.AutoplaySession, error)
}

// AutoplayStartRequest holds validated input for starting an autoplay run.
type AutoplayStartRequest struct {
	PlayerID  uuid.UUID
	GameType  domain.GameType
	BetAmount int64
	Options   domain.AutoplayOptions
	Start     domain.StartOptions
}

// ReportingService defines history/statistics business logic.
type ReportingService interface {
	GetPlayerStats(ctx context.Context, playerID uuid.UUID, game *domain.GameType, period string) (*PlayerStats, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetHistory(ctx context.Context, playerID uuid.UUID, game domain.GameType, limit int64) ([]domain.Result, error)
	Reconcile(ctx context.Context, playerID uuid.UUID) (*ReconciliationReport, error)
}

// ReconciliationReport compares the stored wallet balance against the
// ledger sum. Consistent is false when the two disagree, which means a
// balance mutation escaped the append-only ledger.
type ReconciliationReport struct {
	WalletID   uuid.UUID
	Balance    int64
	LedgerSum  int64
	Consistent bool
}

// AuditService records security-relevant actions asynchronously.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// ResultNotifier pushes round lifecycle events to connected players.
// Implementations must not block: transitions fire these while holding
// the round lock.
type ResultNotifier interface {
	NotifyRound(playerID uuid.UUID, round *domain.Round)
	NotifyResult(playerID uuid.UUID, result *domain.Result)
	NotifyWallet(playerID uuid.UUID, balance *domain.Balance)
}
