package domain

// AutoCashoutOptions pre-commits a multiplier at which the round settles
// as a win without further player input.
type AutoCashoutOptions struct {
	Enabled bool    `json:"enabled"`
	Target  float64 `json:"target"`
}

// MinesOptions configures a Mines round.
type MinesOptions struct {
	MineCount  int  `json:"mine_count"`
	AutoReveal bool `json:"auto_reveal"`
}

// CrashOptions configures a Crash round.
type CrashOptions struct {
	AutoCashout *AutoCashoutOptions `json:"auto_cashout,omitempty"`
}

// LimboOptions configures a Limbo round.
type LimboOptions struct {
	Target float64 `json:"target"`
}

// TowerOptions configures a Dragon Tower round.
type TowerOptions struct {
	Difficulty  Difficulty          `json:"difficulty"`
	AutoCashout *AutoCashoutOptions `json:"auto_cashout,omitempty"`
}

// BarsOptions configures a Bars spin.
type BarsOptions struct {
	Paylines int `json:"paylines"`
}

// SugarOptions configures a Sugar Rush spin. The grid size and minimum
// cluster are fixed; nothing is player-tunable yet.
type SugarOptions struct{}

// StartOptions carries the per-game configuration chosen at bet time.
// Exactly the pointer matching the game type is consulted; the rest are
// ignored.
type StartOptions struct {
	Mines *MinesOptions `json:"mines,omitempty"`
	Crash *CrashOptions `json:"crash,omitempty"`
	Limbo *LimboOptions `json:"limbo,omitempty"`
	Tower *TowerOptions `json:"tower,omitempty"`
	Bars  *BarsOptions  `json:"bars,omitempty"`
	Sugar *SugarOptions `json:"sugar,omitempty"`
}

// BetAdjustment selects how auto-play changes the stake between rounds.
type BetAdjustment string

const (
	BetAdjustmentContinue BetAdjustment = "continue"
	BetAdjustmentReset    BetAdjustment = "reset-to-base"
	BetAdjustmentIncrease BetAdjustment = "increase-by-percentage"
)

// Valid reports whether the adjustment rule is recognized.
func (b BetAdjustment) Valid() bool {
	switch b {
	case BetAdjustmentContinue, BetAdjustmentReset, BetAdjustmentIncrease:
		return true
	}
	return false
}

// AutoplayOptions configures an auto-play run: N serialized rounds with
// a bet-adjustment rule and stop conditions evaluated after each
// round's settlement.
type AutoplayOptions struct {
	Rounds          int           `json:"rounds"`
	BetAdjustment   BetAdjustment `json:"bet_adjustment"`
	IncreasePercent float64       `json:"increase_percent,omitempty"` // for increase-by-percentage
	StopOnWin       bool          `json:"stop_on_win"`
	StopOnLoss      bool          `json:"stop_on_loss"`
	ProfitTarget    int64         `json:"profit_target,omitempty"` // minor units, 0 = off
	LossLimit       int64         `json:"loss_limit,omitempty"`    // minor units, 0 = off
}
