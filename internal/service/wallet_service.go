package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService. Every balance
// mutation runs inside a database transaction holding the wallet row
// lock and appends exactly one ledger entry, so the balance is always
// reconstructible from the transaction history.
type WalletServiceImpl struct {
	txRepo     ports.TransactionRepository
	walletRepo ports.WalletRepository
	encSvc     ports.EncryptionService
	transactor ports.DBTransactor
	notifier   ports.ResultNotifier // nil = no push updates
	log        zerolog.Logger

	currency   string
	maxDeposit int64
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	encSvc ports.EncryptionService,
	transactor ports.DBTransactor,
	notifier ports.ResultNotifier,
	log zerolog.Logger,
	currency string,
	maxDeposit int64,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		txRepo:     txRepo,
		walletRepo: walletRepo,
		encSvc:     encSvc,
		transactor: transactor,
		notifier:   notifier,
		log:        log,
		currency:   currency,
		maxDeposit: maxDeposit,
	}
}

// GetBalance returns the decrypted balance snapshot for a player.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, playerID uuid.UUID) (*domain.Balance, error) {
	wallet, err := s.walletRepo.GetByPlayerID(ctx, playerID, s.currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	balance, err := s.decryptBalance(wallet.EncryptedBalance)
	if err != nil {
		return nil, err
	}

	return &domain.Balance{
		Current:     balance,
		Available:   balance,
		Currency:    wallet.Currency,
		LastUpdated: wallet.UpdatedAt,
	}, nil
}

// CanAfford reports whether the player's available balance covers the
// amount. Advisory: Bet re-validates under the row lock.
func (s *WalletServiceImpl) CanAfford(ctx context.Context, playerID uuid.UUID, amount int64) (bool, error) {
	balance, err := s.GetBalance(ctx, playerID)
	if err != nil {
		return false, err
	}
	return balance.CanAfford(amount), nil
}

// Deposit credits the wallet (demo top-up).
func (s *WalletServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if s.maxDeposit > 0 && req.Amount > s.maxDeposit {
		return nil, apperror.Validation(fmt.Sprintf("deposit exceeds maximum of %d", s.maxDeposit))
	}

	txn, err := s.applyChange(ctx, balanceChange{
		playerID: req.PlayerID,
		txType:   domain.TransactionTypeDeposit,
		amount:   req.Amount,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("player_id", req.PlayerID.String()).
		Int64("amount", req.Amount).
		Msg("deposit processed")
	return txn, nil
}

// Withdraw debits the wallet. Fails without touching the ledger when
// funds are insufficient.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	txn, err := s.applyChange(ctx, balanceChange{
		playerID:     req.PlayerID,
		txType:       domain.TransactionTypeWithdrawal,
		amount:       req.Amount,
		requireFunds: true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("player_id", req.PlayerID.String()).
		Int64("amount", req.Amount).
		Msg("withdrawal processed")
	return txn, nil
}

// Bet debits a stake for a round. The sufficient-funds check happens
// under the wallet row lock: concurrent bets cannot overdraw.
func (s *WalletServiceImpl) Bet(ctx context.Context, req ports.BetRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	txn, err := s.applyChange(ctx, balanceChange{
		playerID:     req.PlayerID,
		txType:       domain.TransactionTypeBet,
		amount:       req.Amount,
		gameType:     req.GameType,
		roundID:      &req.RoundID,
		requireFunds: true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("round_id", req.RoundID.String()).
		Str("game", string(req.GameType)).
		Int64("amount", req.Amount).
		Msg("bet placed")
	return txn, nil
}

// Win credits a payout for a winning round.
func (s *WalletServiceImpl) Win(ctx context.Context, req ports.PayoutRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	txn, err := s.applyChange(ctx, balanceChange{
		playerID: req.PlayerID,
		txType:   domain.TransactionTypeWin,
		amount:   req.Amount,
		gameType: req.GameType,
		roundID:  &req.RoundID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("round_id", req.RoundID.String()).
		Str("game", string(req.GameType)).
		Int64("amount", req.Amount).
		Msg("win credited")
	return txn, nil
}

// Refund returns a stake for a round cancelled before launch.
func (s *WalletServiceImpl) Refund(ctx context.Context, req ports.PayoutRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	txn, err := s.applyChange(ctx, balanceChange{
		playerID: req.PlayerID,
		txType:   domain.TransactionTypeRefund,
		amount:   req.Amount,
		gameType: req.GameType,
		roundID:  &req.RoundID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("round_id", req.RoundID.String()).
		Int64("amount", req.Amount).
		Msg("stake refunded")
	return txn, nil
}

// balanceChange describes one ledger mutation. amount is the positive
// magnitude; the sign comes from the entry type.
type balanceChange struct {
	playerID     uuid.UUID
	txType       domain.TransactionType
	amount       int64
	gameType     domain.GameType
	roundID      *uuid.UUID
	requireFunds bool
}

// applyChange runs the single-entry mutation pipeline with pessimistic
// locking: begin, lock wallet row, decrypt, validate, encrypt new
// balance, update, append ledger entry, commit. Any failure rolls back
// and leaves both balance and ledger untouched.
func (s *WalletServiceImpl) applyChange(ctx context.Context, ch balanceChange) (*domain.Transaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet
	wallet, err := s.walletRepo.GetByPlayerIDForUpdate(ctx, dbTx, ch.playerID, s.currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	currentBalance, err := s.decryptBalance(wallet.EncryptedBalance)
	if err != nil {
		return nil, err
	}

	delta := ch.amount
	if ch.txType == domain.TransactionTypeBet || ch.txType == domain.TransactionTypeWithdrawal {
		delta = -ch.amount
	}

	if ch.requireFunds && currentBalance < ch.amount {
		return nil, apperror.ErrInsufficientBalance()
	}

	newBalance := currentBalance + delta
	newBalanceEnc, err := s.encSvc.Encrypt(strconv.FormatInt(newBalance, 10))
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt new balance: %w", err))
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		PlayerID:      ch.playerID,
		WalletID:      wallet.ID,
		Type:          ch.txType,
		Amount:        delta,
		BalanceBefore: currentBalance,
		BalanceAfter:  newBalance,
		GameType:      ch.gameType,
		RoundID:       ch.roundID,
		CreatedAt:     now,
	}

	// Persist: update wallet balance
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalanceEnc); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	// Persist: append ledger entry
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if s.notifier != nil {
		s.notifier.NotifyWallet(ch.playerID, &domain.Balance{
			Current:     newBalance,
			Available:   newBalance,
			Currency:    wallet.Currency,
			LastUpdated: now,
		})
	}

	return txn, nil
}

// decryptBalance converts the stored ciphertext into a minor-unit amount.
func (s *WalletServiceImpl) decryptBalance(encrypted string) (int64, error) {
	balanceStr, err := s.encSvc.Decrypt(encrypted)
	if err != nil {
		return 0, apperror.ErrEncryptionFailure(fmt.Errorf("decrypt balance: %w", err))
	}
	balance, err := strconv.ParseInt(balanceStr, 10, 64)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("parse balance: %w", err))
	}
	return balance, nil
}
