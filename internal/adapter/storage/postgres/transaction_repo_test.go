package postgres

import (
	"context"
	"testing"
	"time"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(playerID, walletID uuid.UUID) *domain.Transaction {
	roundID := uuid.New()
	return &domain.Transaction{
		ID:            uuid.New(),
		PlayerID:      playerID,
		WalletID:      walletID,
		Type:          domain.TransactionTypeBet,
		Amount:        -1000,
		BalanceBefore: 10000,
		BalanceAfter:  9000,
		GameType:      domain.GameMines,
		RoundID:       &roundID,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func txColumns() []string {
	return []string{
		"id", "player_id", "wallet_id", "type", "amount",
		"balance_before", "balance_after", "game_type", "round_id", "created_at",
	}
}

func txRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(txColumns()).AddRow(
		t.ID, t.PlayerID, t.WalletID, t.Type, t.Amount,
		t.BalanceBefore, t.BalanceAfter, t.GameType, t.RoundID,
		t.CreatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New(), uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.PlayerID, txn.WalletID, txn.Type, txn.Amount,
			txn.BalanceBefore, txn.BalanceAfter, txn.GameType, txn.RoundID,
			txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New(), uuid.New())

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(txRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.Equal(t, txn.Amount, result.Amount)
	assert.Equal(t, txn.RoundID, result.RoundID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(txColumns()))

	result, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	playerID := uuid.New()
	txn := newTestTransaction(playerID, uuid.New())

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions WHERE player_id").
		WithArgs(playerID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE player_id .+ ORDER BY created_at DESC").
		WithArgs(playerID, 20, 0).
		WillReturnRows(txRow(txn))

	txns, total, err := repo.List(context.Background(), ports.TransactionListParams{
		PlayerID: playerID,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	playerID := uuid.New()
	txType := domain.TransactionTypeBet
	game := domain.GameCrash
	from := int64(1748000000)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions WHERE player_id .+ type .+ game_type .+ to_timestamp").
		WithArgs(playerID, txType, game, from).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE player_id .+ ORDER BY created_at DESC").
		WithArgs(playerID, txType, game, from, 10, 10).
		WillReturnRows(pgxmock.NewRows(txColumns()))

	txns, total, err := repo.List(context.Background(), ports.TransactionListParams{
		PlayerID: playerID,
		Type:     &txType,
		GameType: &game,
		From:     &from,
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, txns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	playerID := uuid.New()

	statsColumns := []string{
		"total_rounds", "total_wins", "total_wagered", "total_won",
		"net_result", "biggest_win", "total_deposited", "total_withdrawn",
	}
	mock.ExpectQuery("SELECT .+ FILTER .+ FROM transactions WHERE player_id").
		WithArgs(playerID).
		WillReturnRows(pgxmock.NewRows(statsColumns).AddRow(
			int64(42), int64(18), int64(42000), int64(39500),
			int64(-2500), int64(8000), int64(50000), int64(10000),
		))

	stats, err := repo.GetStats(context.Background(), playerID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalRounds)
	assert.Equal(t, int64(18), stats.TotalWins)
	assert.Equal(t, int64(42000), stats.TotalWagered)
	assert.Equal(t, int64(-2500), stats.NetResult)
	assert.Equal(t, int64(8000), stats.BiggestWin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetStats_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	playerID := uuid.New()
	game := domain.GameLimbo
	periodStart := int64(1748000000)

	statsColumns := []string{
		"total_rounds", "total_wins", "total_wagered", "total_won",
		"net_result", "biggest_win", "total_deposited", "total_withdrawn",
	}
	mock.ExpectQuery("SELECT .+ FILTER .+ FROM transactions WHERE player_id .+ game_type .+ to_timestamp").
		WithArgs(playerID, game, periodStart).
		WillReturnRows(pgxmock.NewRows(statsColumns).AddRow(
			int64(5), int64(2), int64(5000), int64(6200),
			int64(1200), int64(4000), int64(0), int64(0),
		))

	stats, err := repo.GetStats(context.Background(), playerID, &game, &periodStart)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalRounds)
	assert.Equal(t, int64(1200), stats.NetResult)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_SumByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM transactions WHERE wallet_id").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(12500)))

	sum, err := repo.SumByWallet(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(12500), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}
