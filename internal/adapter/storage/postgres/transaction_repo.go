package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The table is
// append-only; amounts are signed (BET and WITHDRAWAL rows are negative).
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create appends a ledger entry within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, player_id, wallet_id, type, amount,
		balance_before, balance_after, game_type, round_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.PlayerID, t.WalletID, t.Type, t.Amount,
		t.BalanceBefore, t.BalanceAfter, t.GameType, t.RoundID,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT id, player_id, wallet_id, type, amount,
		balance_before, balance_after, game_type, round_id, created_at
		FROM transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// List fetches ledger entries with filtering and pagination, newest first.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("player_id = $%d", argIdx))
	args = append(args, params.PlayerID)
	argIdx++

	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}
	if params.GameType != nil {
		conditions = append(conditions, fmt.Sprintf("game_type = $%d", argIdx))
		args = append(args, *params.GameType)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT id, player_id, wallet_id, type, amount,
		balance_before, balance_after, game_type, round_id, created_at
		FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.PlayerID, &t.WalletID, &t.Type, &t.Amount,
			&t.BalanceBefore, &t.BalanceAfter, &t.GameType, &t.RoundID,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// GetStats aggregates a player's ledger, optionally narrowed to one game
// and a period start. NetResult sums the signed BET and WIN rows, so
// refunds stay out of it.
func (r *TransactionRepo) GetStats(ctx context.Context, playerID uuid.UUID, game *domain.GameType, periodStart *int64) (*ports.PlayerStats, error) {
	var args []any
	argIdx := 1

	condition := fmt.Sprintf("player_id = $%d", argIdx)
	args = append(args, playerID)
	argIdx++

	if game != nil {
		condition += fmt.Sprintf(" AND game_type = $%d", argIdx)
		args = append(args, *game)
		argIdx++
	}
	if periodStart != nil {
		condition += fmt.Sprintf(" AND created_at >= to_timestamp($%d)", argIdx)
		args = append(args, *periodStart)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) FILTER (WHERE type = 'BET') AS total_rounds,
		COUNT(*) FILTER (WHERE type = 'WIN') AS total_wins,
		COALESCE(-SUM(amount) FILTER (WHERE type = 'BET'), 0) AS total_wagered,
		COALESCE(SUM(amount) FILTER (WHERE type = 'WIN'), 0) AS total_won,
		COALESCE(SUM(amount) FILTER (WHERE type IN ('BET', 'WIN')), 0) AS net_result,
		COALESCE(MAX(amount) FILTER (WHERE type = 'WIN'), 0) AS biggest_win,
		COALESCE(SUM(amount) FILTER (WHERE type = 'DEPOSIT'), 0) AS total_deposited,
		COALESCE(-SUM(amount) FILTER (WHERE type = 'WITHDRAWAL'), 0) AS total_withdrawn
		FROM transactions WHERE %s`, condition)

	stats := &ports.PlayerStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalRounds, &stats.TotalWins,
		&stats.TotalWagered, &stats.TotalWon, &stats.NetResult,
		&stats.BiggestWin, &stats.TotalDeposited, &stats.TotalWithdrawn,
	)
	if err != nil {
		return nil, fmt.Errorf("get player stats: %w", err)
	}
	return stats, nil
}

// SumByWallet returns the signed sum of all entries for a wallet. A
// consistent wallet's stored balance equals this sum.
func (r *TransactionRepo) SumByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE wallet_id = $1`

	var sum int64
	err := r.pool.QueryRow(ctx, query, walletID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum wallet ledger: %w", err)
	}
	return sum, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.PlayerID, &t.WalletID, &t.Type, &t.Amount,
		&t.BalanceBefore, &t.BalanceAfter, &t.GameType, &t.RoundID,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
