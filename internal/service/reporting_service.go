package service

import (
	"context"
	"fmt"
	"strconv"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"

	"github.com/google/uuid"
)

const defaultHistoryLimit = 20

// ReportingServiceImpl implements ports.ReportingService. Statistics
// and listings come straight off the ledger; recent results come from
// the capped history store.
type ReportingServiceImpl struct {
	txRepo     ports.TransactionRepository
	walletRepo ports.WalletRepository
	history    ports.HistoryStore
	encSvc     ports.EncryptionService
	clock      ports.Clock
	currency   string
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	history ports.HistoryStore,
	encSvc ports.EncryptionService,
	clock ports.Clock,
	currency string,
) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		txRepo:     txRepo,
		walletRepo: walletRepo,
		history:    history,
		encSvc:     encSvc,
		clock:      clock,
		currency:   currency,
	}
}

// GetPlayerStats aggregates the player's ledger over the given period,
// optionally narrowed to one game.
func (s *ReportingServiceImpl) GetPlayerStats(ctx context.Context, playerID uuid.UUID, game *domain.GameType, period string) (*ports.PlayerStats, error) {
	if game != nil && !game.Valid() {
		return nil, apperror.ErrUnknownGame(string(*game))
	}

	var periodStart *int64
	switch period {
	case "day":
		t := s.clock.Now().AddDate(0, 0, -1).Unix()
		periodStart = &t
	case "week":
		t := s.clock.Now().AddDate(0, 0, -7).Unix()
		periodStart = &t
	case "month":
		t := s.clock.Now().AddDate(0, -1, 0).Unix()
		periodStart = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	stats, err := s.txRepo.GetStats(ctx, playerID, game, periodStart)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("aggregate stats: %w", err))
	}
	return stats, nil
}

// ListTransactions returns a filtered, paginated slice of the ledger
// plus the total match count.
func (s *ReportingServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// GetHistory returns the player's most recent settled results for one
// game, newest first. The store retention caps how far back it reaches.
func (s *ReportingServiceImpl) GetHistory(ctx context.Context, playerID uuid.UUID, game domain.GameType, limit int64) ([]domain.Result, error) {
	if !game.Valid() {
		return nil, apperror.ErrUnknownGame(string(game))
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	results, err := s.history.List(ctx, playerID, game, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list history: %w", err))
	}
	return results, nil
}

// Reconcile checks the stored wallet balance against the signed sum of
// its ledger entries. The two must agree; a mismatch means a balance
// write bypassed the ledger and needs investigation.
func (s *ReportingServiceImpl) Reconcile(ctx context.Context, playerID uuid.UUID) (*ports.ReconciliationReport, error) {
	wallet, err := s.walletRepo.GetByPlayerID(ctx, playerID, s.currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	balanceStr, err := s.encSvc.Decrypt(wallet.EncryptedBalance)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("decrypt balance: %w", err))
	}
	balance, err := strconv.ParseInt(balanceStr, 10, 64)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("parse balance: %w", err))
	}

	sum, err := s.txRepo.SumByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum ledger: %w", err))
	}

	return &ports.ReconciliationReport{
		WalletID:   wallet.ID,
		Balance:    balance,
		LedgerSum:  sum,
		Consistent: balance == sum,
	}, nil
}
