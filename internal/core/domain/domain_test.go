package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayer_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status PlayerStatus
		want   bool
	}{
		{"active", PlayerStatusActive, true},
		{"suspended", PlayerStatusSuspended, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Player{Status: tt.status}
			assert.Equal(t, tt.want, p.IsActive())
		})
	}
}

func TestBalance_CanAfford(t *testing.T) {
	b := Balance{Current: 100, Available: 100}

	tests := []struct {
		name   string
		amount int64
		want   bool
	}{
		{"exact balance", 100, true},
		{"below balance", 10, true},
		{"above balance", 101, false},
		{"zero", 0, false},
		{"negative", -5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.CanAfford(tt.amount))
		})
	}
}

func TestTransaction_IsConsistent(t *testing.T) {
	tx := &Transaction{Amount: -10, BalanceBefore: 100, BalanceAfter: 90}
	assert.True(t, tx.IsConsistent())

	tx.BalanceAfter = 85
	assert.False(t, tx.IsConsistent())
}

func TestTransaction_IsDebit(t *testing.T) {
	tests := []struct {
		txType TransactionType
		want   bool
	}{
		{TransactionTypeBet, true},
		{TransactionTypeWithdrawal, true},
		{TransactionTypeDeposit, false},
		{TransactionTypeWin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.txType), func(t *testing.T) {
			tx := &Transaction{Type: tt.txType}
			assert.Equal(t, tt.want, tx.IsDebit())
		})
	}
}

func TestReplayBalance(t *testing.T) {
	history := []Transaction{
		{Type: TransactionTypeDeposit, Amount: 1000},
		{Type: TransactionTypeBet, Amount: -100},
		{Type: TransactionTypeWin, Amount: 250},
		{Type: TransactionTypeBet, Amount: -50},
	}

	assert.Equal(t, int64(1100), ReplayBalance(0, history))
	assert.Equal(t, int64(1600), ReplayBalance(500, history))
	assert.Equal(t, int64(0), ReplayBalance(0, nil))
}

func TestRoundStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status RoundStatus
		want   bool
	}{
		{RoundStatusWaiting, false},
		{RoundStatusActive, false},
		{RoundStatusWon, true},
		{RoundStatusLost, true},
		{RoundStatusCashedOut, true},
		{RoundStatusCrashed, true},
		{RoundStatusCanceled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestRound_Settle_ExactlyOnce(t *testing.T) {
	r := &Round{ID: NewRoundID(), Status: RoundStatusActive}
	now := time.Now()

	require.True(t, r.Settle(RoundStatusWon, 2.5, now))
	assert.Equal(t, RoundStatusWon, r.Status)
	assert.Equal(t, 2.5, r.CurrentMultiplier)
	require.NotNil(t, r.EndedAt)

	// Second settlement attempt is a no-op.
	assert.False(t, r.Settle(RoundStatusLost, 0, now.Add(time.Second)))
	assert.Equal(t, RoundStatusWon, r.Status)
	assert.Equal(t, 2.5, r.CurrentMultiplier)
	assert.Equal(t, now, *r.EndedAt)
}

func TestRound_Record(t *testing.T) {
	r := &Round{}
	now := time.Now()

	r.Record("reveal", 7, 1.3, now)
	r.Record("cashout", -1, 1.3, now)

	require.Len(t, r.Moves, 2)
	assert.Equal(t, "reveal", r.Moves[0].Action)
	assert.Equal(t, 7, r.Moves[0].Target)
	assert.Equal(t, "cashout", r.Moves[1].Action)
}

func TestGameType_Valid(t *testing.T) {
	for _, g := range AllGames() {
		assert.True(t, g.Valid(), string(g))
	}
	assert.False(t, GameType("roulette").Valid())
	assert.False(t, GameType("").Valid())
}

func TestDifficulty_BaseMultiplier(t *testing.T) {
	assert.InDelta(t, 1.5, DifficultyEasy.BaseMultiplier(), 1e-9)
	assert.InDelta(t, 2.0, DifficultyMedium.BaseMultiplier(), 1e-9)
	assert.InDelta(t, 2.67, DifficultyHard.BaseMultiplier(), 1e-9)
	assert.InDelta(t, 3.33, DifficultyExpert.BaseMultiplier(), 1e-9)
	assert.Zero(t, Difficulty("nightmare").BaseMultiplier())
}

func TestDifficulty_TileCount(t *testing.T) {
	assert.Equal(t, 2, DifficultyEasy.TileCount())
	assert.Equal(t, 3, DifficultyMedium.TileCount())
	assert.Equal(t, 4, DifficultyHard.TileCount())
	assert.Equal(t, 5, DifficultyExpert.TileCount())
}

func TestMinesState_Helpers(t *testing.T) {
	s := &MinesState{MineCount: 3, Revealed: []int{4, 0, 17}}

	assert.Equal(t, 3, s.SafeReveals())
	assert.True(t, s.IsRevealed(0))
	assert.True(t, s.IsRevealed(17))
	assert.False(t, s.IsRevealed(5))
}

func TestBetAdjustment_Valid(t *testing.T) {
	assert.True(t, BetAdjustmentContinue.Valid())
	assert.True(t, BetAdjustmentReset.Valid())
	assert.True(t, BetAdjustmentIncrease.Valid())
	assert.False(t, BetAdjustment("martingale").Valid())
}

func TestNewResult_WinStatuses(t *testing.T) {
	now := time.Now()
	playerID := uuid.New()

	r := &Round{
		ID:                NewRoundID(),
		PlayerID:          playerID,
		GameType:          GameMines,
		BetAmount:         100,
		Status:            RoundStatusCashedOut,
		CurrentMultiplier: 2.5,
		EndedAt:           &now,
		Moves:             []Move{{Action: "reveal", Target: 3}},
	}

	res := NewResult(r, 250)
	assert.True(t, res.Win)
	assert.Equal(t, int64(250), res.Payout)
	assert.Equal(t, 2.5, res.Multiplier)
	assert.Equal(t, playerID, res.PlayerID)
	assert.Len(t, res.Moves, 1)
	assert.Equal(t, now, res.EndedAt)
}

func TestNewResult_LossForcesZeroPayout(t *testing.T) {
	now := time.Now()
	r := &Round{Status: RoundStatusLost, EndedAt: &now}

	res := NewResult(r, 500) // payout must be discarded on a loss
	assert.False(t, res.Win)
	assert.Zero(t, res.Payout)
}

func TestNewResult_NegativePayoutClamped(t *testing.T) {
	now := time.Now()
	r := &Round{Status: RoundStatusWon, CurrentMultiplier: 1.2, EndedAt: &now}

	res := NewResult(r, -10)
	assert.Zero(t, res.Payout)
}

func TestAutoplaySession_ApplyResult(t *testing.T) {
	s := NewAutoplaySession(uuid.New(), GameMines, 100, AutoplayOptions{Rounds: 10}, StartOptions{}, time.Now())

	s.ApplyResult(&Result{BetAmount: 100, Payout: 250, Win: true})
	s.ApplyResult(&Result{BetAmount: 100, Payout: 0, Win: false})

	assert.Equal(t, 2, s.RoundsPlayed)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, int64(50), s.Profit) // +150 then -100
}

func TestAutoplaySession_StopReasonAfter(t *testing.T) {
	win := &Result{BetAmount: 100, Payout: 300, Win: true}
	loss := &Result{BetAmount: 100, Win: false}

	tests := []struct {
		name string
		opts AutoplayOptions
		play []*Result
		want string
	}{
		{"continues mid-run", AutoplayOptions{Rounds: 5}, []*Result{loss}, ""},
		{"round budget exhausted", AutoplayOptions{Rounds: 2}, []*Result{loss, loss}, StopReasonCompleted},
		{"stop on win", AutoplayOptions{Rounds: 10, StopOnWin: true}, []*Result{win}, StopReasonWin},
		{"stop on loss", AutoplayOptions{Rounds: 10, StopOnLoss: true}, []*Result{loss}, StopReasonLoss},
		{"profit target", AutoplayOptions{Rounds: 10, ProfitTarget: 200}, []*Result{win}, StopReasonProfitTarget},
		{"loss limit", AutoplayOptions{Rounds: 10, LossLimit: 200}, []*Result{loss, loss}, StopReasonLossLimit},
		{"budget beats stop-on-win", AutoplayOptions{Rounds: 1, StopOnWin: true}, []*Result{win}, StopReasonCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAutoplaySession(uuid.New(), GameCrash, 100, tt.opts, StartOptions{}, time.Now())
			var last *Result
			for _, res := range tt.play {
				s.ApplyResult(res)
				last = res
			}
			assert.Equal(t, tt.want, s.StopReasonAfter(last))
		})
	}
}

func TestAutoplaySession_AdjustBet(t *testing.T) {
	tests := []struct {
		name string
		opts AutoplayOptions
		want []int64 // bet after each adjustment, starting from 100
	}{
		{"continue keeps the stake", AutoplayOptions{BetAdjustment: BetAdjustmentContinue}, []int64{100, 100}},
		{"reset returns to base", AutoplayOptions{BetAdjustment: BetAdjustmentReset}, []int64{100, 100}},
		{"increase compounds and rounds up", AutoplayOptions{BetAdjustment: BetAdjustmentIncrease, IncreasePercent: 50}, []int64{150, 225}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAutoplaySession(uuid.New(), GameLimbo, 100, tt.opts, StartOptions{}, time.Now())
			for _, want := range tt.want {
				assert.Equal(t, want, s.AdjustBet())
			}
		})
	}
}

func TestAutoplaySession_AdjustBet_IncreaseThenReset(t *testing.T) {
	s := NewAutoplaySession(uuid.New(), GameLimbo, 100, AutoplayOptions{BetAdjustment: BetAdjustmentIncrease, IncreasePercent: 10}, StartOptions{}, time.Now())
	assert.Equal(t, int64(110), s.AdjustBet())

	s.Options.BetAdjustment = BetAdjustmentReset
	assert.Equal(t, int64(100), s.AdjustBet())
}

func TestAutoplaySession_Stop_FirstReasonWins(t *testing.T) {
	now := time.Now()
	s := NewAutoplaySession(uuid.New(), GameTower, 100, AutoplayOptions{Rounds: 3}, StartOptions{}, now)

	s.Stop(StopReasonPlayer, now)
	s.Stop(StopReasonCompleted, now.Add(time.Second))

	assert.False(t, s.Active)
	assert.Equal(t, StopReasonPlayer, s.StopReason)
	require.NotNil(t, s.EndedAt)
	assert.Equal(t, now, *s.EndedAt)
}
