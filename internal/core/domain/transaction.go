package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeBet        TransactionType = "BET"
	TransactionTypeWin        TransactionType = "WIN"
	TransactionTypeRefund     TransactionType = "REFUND" // stake returned on a cancelled round
)

// Transaction represents an immutable, append-only ledger entry.
// Amount is signed: negative for BET and WITHDRAWAL, positive for
// DEPOSIT and WIN. Entries are committed facts; the row is never
// updated or deleted once written.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	PlayerID      uuid.UUID       `json:"player_id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	Type          TransactionType `json:"type"`
	Amount        int64           `json:"amount"` // In minor units, signed
	BalanceBefore int64           `json:"balance_before"`
	BalanceAfter  int64           `json:"balance_after"`
	GameType      GameType        `json:"game_type,omitempty"` // Empty for DEPOSIT/WITHDRAWAL
	RoundID       *uuid.UUID      `json:"round_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsConsistent verifies the single-entry invariant
// balanceAfter == balanceBefore + amount.
func (t *Transaction) IsConsistent() bool {
	return t.BalanceAfter == t.BalanceBefore+t.Amount
}

// IsDebit returns true for entries that move money out of the wallet.
func (t *Transaction) IsDebit() bool {
	return t.Type == TransactionTypeBet || t.Type == TransactionTypeWithdrawal
}

// ReplayBalance folds a transaction history (oldest first) over an
// initial balance. The ledger is the sole source of truth for balance
// reconstruction: the result must equal the wallet's current balance.
func ReplayBalance(initial int64, history []Transaction) int64 {
	balance := initial
	for i := range history {
		balance += history[i].Amount
	}
	return balance
}
