package dto

import (
	"time"

	"casino-round-engine/internal/core/domain"
)

// RegisterRequest is the request body for player registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for player login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the response body for successful registration. The
// token logs the player in immediately.
type AuthResponse struct {
	PlayerID  string `json:"player_id"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // Unix timestamp
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // Unix timestamp
}

// PlayerResponse is the profile view.
type PlayerResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	Current   int64  `json:"current"`
	Available int64  `json:"available"`
	Currency  string `json:"currency"`
}

// DepositRequest is the request body for a wallet deposit.
type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// WithdrawRequest is the request body for a wallet withdrawal.
type WithdrawRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// TransactionResponse is one ledger entry. Amount keeps its sign:
// BET and WITHDRAWAL rows are negative.
type TransactionResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Amount       int64   `json:"amount"`
	BalanceAfter int64   `json:"balance_after"`
	GameType     string  `json:"game_type,omitempty"`
	RoundID      *string `json:"round_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// TransactionListResponse wraps a paginated ledger listing.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// StartRoundRequest is the request body for placing a bet. Options carries
// the per-game configuration; only the block matching the path game is read.
type StartRoundRequest struct {
	BetAmount int64               `json:"bet_amount" binding:"required,gt=0"`
	Options   domain.StartOptions `json:"options"`
}

// ActionRequest is the request body for acting on an in-flight round.
type ActionRequest struct {
	Action string `json:"action" binding:"required,oneof=reveal pick cashout cancel"`
	Tile   *int   `json:"tile,omitempty"`
}

// AutoplayRequest is the request body for starting an auto-play run.
type AutoplayRequest struct {
	BetAmount       int64               `json:"bet_amount" binding:"required,gt=0"`
	Rounds          int                 `json:"rounds" binding:"required,gt=0"`
	BetAdjustment   string              `json:"bet_adjustment,omitempty"`
	IncreasePercent float64             `json:"increase_percent,omitempty"`
	StopOnWin       bool                `json:"stop_on_win,omitempty"`
	StopOnLoss      bool                `json:"stop_on_loss,omitempty"`
	ProfitTarget    int64               `json:"profit_target,omitempty" binding:"omitempty,gte=0"`
	LossLimit       int64               `json:"loss_limit,omitempty" binding:"omitempty,gte=0"`
	Options         domain.StartOptions `json:"options"`
}

// AutoplayResponse is the auto-play session view.
type AutoplayResponse struct {
	ID           string  `json:"id"`
	GameType     string  `json:"game_type"`
	BaseBet      int64   `json:"base_bet"`
	CurrentBet   int64   `json:"current_bet"`
	RoundsPlayed int     `json:"rounds_played"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Profit       int64   `json:"profit"`
	Active       bool    `json:"active"`
	StopReason   string  `json:"stop_reason,omitempty"`
	StartedAt    string  `json:"started_at"`
	EndedAt      *string `json:"ended_at,omitempty"`
}

// StatsResponse is the per-player ledger aggregate view.
type StatsResponse struct {
	TotalRounds    int64 `json:"total_rounds"`
	TotalWins      int64 `json:"total_wins"`
	TotalWagered   int64 `json:"total_wagered"`
	TotalWon       int64 `json:"total_won"`
	NetResult      int64 `json:"net_result"`
	BiggestWin     int64 `json:"biggest_win"`
	TotalDeposited int64 `json:"total_deposited"`
	TotalWithdrawn int64 `json:"total_withdrawn"`
}

// ReconcileResponse compares the wallet balance against the ledger sum.
type ReconcileResponse struct {
	WalletID   string `json:"wallet_id"`
	Balance    int64  `json:"balance"`
	LedgerSum  int64  `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}

// GameConfigResponse describes one game's recognized options and bounds.
type GameConfigResponse struct {
	Game    string         `json:"game"`
	MinBet  int64          `json:"min_bet"`
	MaxBet  int64          `json:"max_bet"`
	Options map[string]any `json:"options"`
}

const timeLayout = time.RFC3339

// ToTransactionResponse converts a ledger entry to its DTO.
func ToTransactionResponse(tx *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:           tx.ID.String(),
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		GameType:     string(tx.GameType),
		CreatedAt:    tx.CreatedAt.Format(timeLayout),
	}
	if tx.RoundID != nil {
		s := tx.RoundID.String()
		resp.RoundID = &s
	}
	return resp
}

// ToBalanceResponse converts a wallet balance to its DTO.
func ToBalanceResponse(b *domain.Balance) BalanceResponse {
	return BalanceResponse{
		Current:   b.Current,
		Available: b.Available,
		Currency:  b.Currency,
	}
}

// ToPlayerResponse converts a player to its profile DTO.
func ToPlayerResponse(p *domain.Player) PlayerResponse {
	return PlayerResponse{
		ID:        p.ID.String(),
		Username:  p.Username,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(timeLayout),
	}
}

// ToAutoplayResponse converts an auto-play session to its DTO.
func ToAutoplayResponse(s *domain.AutoplaySession) AutoplayResponse {
	resp := AutoplayResponse{
		ID:           s.ID.String(),
		GameType:     string(s.GameType),
		BaseBet:      s.BaseBet,
		CurrentBet:   s.CurrentBet,
		RoundsPlayed: s.RoundsPlayed,
		Wins:         s.Wins,
		Losses:       s.Losses,
		Profit:       s.Profit,
		Active:       s.Active,
		StopReason:   s.StopReason,
		StartedAt:    s.StartedAt.Format(timeLayout),
	}
	if s.EndedAt != nil {
		e := s.EndedAt.Format(timeLayout)
		resp.EndedAt = &e
	}
	return resp
}
