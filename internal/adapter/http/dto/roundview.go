package dto

import (
	"casino-round-engine/internal/core/domain"
)

// RoundView is the player-facing projection of a round. Server-side
// secrets (the Crash crash point, the Tower safe tiles, the Mines mine
// tile) appear only once the round is terminal; while the round is in
// flight they stay out of the payload entirely.
type RoundView struct {
	ID                string     `json:"id"`
	GameType          string     `json:"game_type"`
	BetAmount         int64      `json:"bet_amount"`
	Status            string     `json:"status"`
	CurrentMultiplier float64    `json:"current_multiplier"`
	PotentialPayout   int64      `json:"potential_payout"`
	CanCashOut        bool       `json:"can_cash_out"`
	Seed              string     `json:"seed"`
	Nonce             int64      `json:"nonce"`
	StartedAt         string     `json:"started_at"`
	EndedAt           *string    `json:"ended_at,omitempty"`
	Moves             []MoveView `json:"moves,omitempty"`
	Mines             *MinesView `json:"mines,omitempty"`
	Crash             *CrashView `json:"crash,omitempty"`
	Limbo             *LimboView `json:"limbo,omitempty"`
	Tower             *TowerView `json:"tower,omitempty"`
	Bars              *BarsView  `json:"bars,omitempty"`
	Sugar             *SugarView `json:"sugar,omitempty"`
}

// MoveView is one recorded round step.
type MoveView struct {
	Action     string  `json:"action"`
	Target     int     `json:"target"`
	Multiplier float64 `json:"multiplier"`
	At         string  `json:"at"`
}

// MinesView is the Mines board projection.
type MinesView struct {
	MineCount int   `json:"mine_count"`
	Revealed  []int `json:"revealed"`
	MineTile  *int  `json:"mine_tile,omitempty"` // terminal rounds only
}

// CrashView is the Crash round projection.
type CrashView struct {
	Phase       string   `json:"phase"`
	CrashPoint  *float64 `json:"crash_point,omitempty"` // terminal rounds only
	AutoCashout float64  `json:"auto_cashout,omitempty"`
	Ticks       int      `json:"ticks"`
}

// LimboView is the Limbo round projection.
type LimboView struct {
	Target    float64 `json:"target"`
	Generated float64 `json:"generated,omitempty"` // set at settlement
}

// TowerView is the Dragon Tower projection.
type TowerView struct {
	Difficulty  string  `json:"difficulty"`
	Level       int     `json:"level"`
	TilesPerRow int     `json:"tiles_per_row"`
	Picks       []int   `json:"picks"`
	SafeTiles   []int   `json:"safe_tiles,omitempty"` // terminal rounds only
	AutoCashout float64 `json:"auto_cashout,omitempty"`
}

// BarsView is the slot spin projection.
type BarsView struct {
	Paylines int               `json:"paylines"`
	LineBet  int64             `json:"line_bet"`
	Grid     [][]domain.Symbol `json:"grid,omitempty"`
	Wins     []domain.LineWin  `json:"wins,omitempty"`
}

// SugarView is the Sugar Rush projection.
type SugarView struct {
	Phase       string               `json:"phase"`
	Grid        [][]domain.Symbol    `json:"grid,omitempty"`
	Cascade     int                  `json:"cascade"`
	TotalPayout int64                `json:"total_payout"`
	Steps       []domain.CascadeStep `json:"steps,omitempty"`
}

// ResultView is the settled-round snapshot pushed to history listings and
// WebSocket subscribers. Round carries the full terminal view so clients
// can render the final board.
type ResultView struct {
	RoundID    string     `json:"round_id"`
	GameType   string     `json:"game_type"`
	BetAmount  int64      `json:"bet_amount"`
	Multiplier float64    `json:"multiplier"`
	Payout     int64      `json:"payout"`
	Win        bool       `json:"win"`
	EndedAt    string     `json:"ended_at"`
	Round      *RoundView `json:"round,omitempty"`
}

// NewRoundView projects a round for the player, withholding the
// server-side secrets while the round is still in flight.
func NewRoundView(r *domain.Round) *RoundView {
	terminal := r.IsTerminal()

	v := &RoundView{
		ID:                r.ID.String(),
		GameType:          string(r.GameType),
		BetAmount:         r.BetAmount,
		Status:            string(r.Status),
		CurrentMultiplier: r.CurrentMultiplier,
		PotentialPayout:   r.PotentialPayout,
		CanCashOut:        r.CanCashOut,
		Seed:              r.Seed,
		Nonce:             r.Nonce,
		StartedAt:         r.StartedAt.Format(timeLayout),
	}
	if r.EndedAt != nil {
		e := r.EndedAt.Format(timeLayout)
		v.EndedAt = &e
	}
	for _, m := range r.Moves {
		v.Moves = append(v.Moves, MoveView{
			Action:     m.Action,
			Target:     m.Target,
			Multiplier: m.Multiplier,
			At:         m.At.Format(timeLayout),
		})
	}

	switch {
	case r.Mines != nil:
		v.Mines = &MinesView{
			MineCount: r.Mines.MineCount,
			Revealed:  r.Mines.Revealed,
		}
		if terminal {
			v.Mines.MineTile = r.Mines.MineTile
		}
	case r.Crash != nil:
		v.Crash = &CrashView{
			Phase:       string(r.Crash.Phase),
			AutoCashout: r.Crash.AutoCashout,
			Ticks:       r.Crash.Ticks,
		}
		if terminal {
			cp := r.Crash.CrashPoint
			v.Crash.CrashPoint = &cp
		}
	case r.Limbo != nil:
		v.Limbo = &LimboView{
			Target:    r.Limbo.Target,
			Generated: r.Limbo.Generated,
		}
	case r.Tower != nil:
		v.Tower = &TowerView{
			Difficulty:  string(r.Tower.Difficulty),
			Level:       r.Tower.Level,
			TilesPerRow: r.Tower.Difficulty.TileCount(),
			Picks:       r.Tower.Picks,
			AutoCashout: r.Tower.AutoCashout,
		}
		if terminal {
			v.Tower.SafeTiles = r.Tower.SafeTiles
		}
	case r.Bars != nil:
		v.Bars = &BarsView{
			Paylines: r.Bars.Paylines,
			LineBet:  r.Bars.LineBet,
			Grid:     r.Bars.Grid,
			Wins:     r.Bars.Wins,
		}
	case r.Sugar != nil:
		v.Sugar = &SugarView{
			Phase:       string(r.Sugar.Phase),
			Grid:        r.Sugar.Grid,
			Cascade:     r.Sugar.Cascade,
			TotalPayout: r.Sugar.TotalPayout,
			Steps:       r.Sugar.Steps,
		}
	}

	return v
}

// NewResultView projects a settlement snapshot.
func NewResultView(res *domain.Result) *ResultView {
	v := &ResultView{
		RoundID:    res.RoundID.String(),
		GameType:   string(res.GameType),
		BetAmount:  res.BetAmount,
		Multiplier: res.Multiplier,
		Payout:     res.Payout,
		Win:        res.Win,
		EndedAt:    res.EndedAt.Format(timeLayout),
	}
	if res.Round != nil {
		v.Round = NewRoundView(res.Round)
	}
	return v
}
