package ports

import (
	"context"

	"casino-round-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PlayerRepository defines persistence operations for player accounts.
type PlayerRepository interface {
	Create(ctx context.Context, player *domain.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	GetByUsername(ctx context.Context, username string) (*domain.Player, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByPlayerID(ctx context.Context, playerID uuid.UUID, currency string) (*domain.Wallet, error)
	GetByPlayerIDForUpdate(ctx context.Context, tx pgx.Tx, playerID uuid.UUID, currency string) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, encryptedBalance string) error
}

// TransactionRepository defines persistence operations for ledger entries.
// Entries are append-only: there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// Reporting queries
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context, playerID uuid.UUID, game *domain.GameType, periodStart *int64) (*PlayerStats, error)
	// SumByWallet returns the signed sum of all entries for a wallet,
	// used to reconcile the ledger against the stored balance.
	SumByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
}

// TransactionListParams holds filter + pagination for listing ledger entries.
type TransactionListParams struct {
	PlayerID uuid.UUID
	Type     *domain.TransactionType
	GameType *domain.GameType
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// PlayerStats holds aggregated ledger statistics for one player.
type PlayerStats struct {
	TotalRounds    int64 // BET entries
	TotalWins      int64 // WIN entries
	TotalWagered   int64 // Sum of stakes
	TotalWon       int64 // Sum of win payouts
	NetResult      int64 // TotalWon - TotalWagered, refunds excluded
	BiggestWin     int64 // Largest single WIN entry
	TotalDeposited int64
	TotalWithdrawn int64
}

// AuditRepository defines persistence for audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// RoundStore holds in-flight rounds. Rounds live in process memory for
// their whole lifetime; only terminal Results are persisted elsewhere.
type RoundStore interface {
	Put(round *domain.Round)
	Get(id uuid.UUID) (*domain.Round, bool)
	// ActiveByPlayer returns the player's non-terminal round, if any.
	ActiveByPlayer(playerID uuid.UUID) (*domain.Round, bool)
	Remove(id uuid.UUID)
	// Lock serializes transitions of one round. The caller holds the
	// lock from state read to state write; the returned func releases it.
	Lock(id uuid.UUID) func()
}

// HistoryStore keeps each player's recent results per game, newest first.
type HistoryStore interface {
	Push(ctx context.Context, result *domain.Result) error
	List(ctx context.Context, playerID uuid.UUID, game domain.GameType, limit int64) ([]domain.Result, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
