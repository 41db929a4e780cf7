package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet represents a player's currency wallet with encrypted balance.
// The stored balance is AES-256 encrypted at rest; services decrypt it
// into a Balance snapshot for arithmetic.
type Wallet struct {
	ID               uuid.UUID `json:"id"`
	PlayerID         uuid.UUID `json:"player_id"`
	Currency         string    `json:"currency"`
	EncryptedBalance string    `json:"-"` // AES-256 encrypted, never expose raw
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Balance is a decrypted point-in-time view of a wallet.
// Available tracks Current minus holds; none of the six games place
// holds (bets debit at acceptance), so the two stay equal here, but the
// invariant Available <= Current is still what callers must check.
type Balance struct {
	Current     int64     `json:"current"`
	Available   int64     `json:"available"`
	Currency    string    `json:"currency"`
	LastUpdated time.Time `json:"last_updated"`
}

// CanAfford reports whether a bet of the given amount is payable.
func (b Balance) CanAfford(amount int64) bool {
	return amount > 0 && amount <= b.Available
}
