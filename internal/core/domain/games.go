package domain

// GameType identifies one of the six mini-games.
type GameType string

const (
	GameMines GameType = "mines"
	GameCrash GameType = "crash"
	GameLimbo GameType = "limbo"
	GameTower GameType = "tower"
	GameBars  GameType = "bars"
	GameSugar GameType = "sugar"
)

// AllGames lists every supported game type.
func AllGames() []GameType {
	return []GameType{GameMines, GameCrash, GameLimbo, GameTower, GameBars, GameSugar}
}

// Valid reports whether the game type is one of the six supported games.
func (g GameType) Valid() bool {
	switch g {
	case GameMines, GameCrash, GameLimbo, GameTower, GameBars, GameSugar:
		return true
	}
	return false
}

// Symbol is a reel or grid symbol in the slot games.
type Symbol string

// Bars reel symbols.
const (
	SymbolSeven     Symbol = "seven"
	SymbolTripleBar Symbol = "triple_bar"
	SymbolDoubleBar Symbol = "double_bar"
	SymbolBar       Symbol = "bar"
	SymbolCherry    Symbol = "cherry"
	SymbolBlank     Symbol = "blank"
)

// IsBar reports whether the symbol belongs to the bar family.
func (s Symbol) IsBar() bool {
	return s == SymbolBar || s == SymbolDoubleBar || s == SymbolTripleBar
}

// Sugar Rush candy symbols, lowest to highest base value.
const (
	SymbolPink   Symbol = "pink"
	SymbolBlue   Symbol = "blue"
	SymbolGreen  Symbol = "green"
	SymbolYellow Symbol = "yellow"
	SymbolOrange Symbol = "orange"
	SymbolRed    Symbol = "red"
	SymbolHeart  Symbol = "heart"
)

// Grid dimensions and limits.
const (
	MinesGridSize    = 25 // 5x5 board
	MinesMinCount    = 1
	MinesMaxCount    = 24
	TowerLevels      = 9
	BarsReels        = 3
	BarsRows         = 3
	BarsMaxLines     = 5
	SugarGridSize    = 7
	SugarMinCluster  = 5
	SugarMaxCascades = 10 // hard safety cap, guarantees cascade termination
)

// Difficulty selects the Dragon Tower risk ladder.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Valid reports whether the difficulty is recognized.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// BaseMultiplier returns the per-level multiplier base for the difficulty.
func (d Difficulty) BaseMultiplier() float64 {
	switch d {
	case DifficultyEasy:
		return 1.5
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 2.67
	case DifficultyExpert:
		return 3.33
	}
	return 0
}

// TileCount returns how many tiles each tower level offers; exactly one
// of them is safe.
func (d Difficulty) TileCount() int {
	switch d {
	case DifficultyEasy:
		return 2
	case DifficultyMedium:
		return 3
	case DifficultyHard:
		return 4
	case DifficultyExpert:
		return 5
	}
	return 0
}

// MinesState is the Mines board: mines are not pre-placed; each reveal
// draws hit/no-hit at probability mineCount / remainingUnrevealed.
type MinesState struct {
	MineCount  int   `json:"mine_count"`
	AutoReveal bool  `json:"auto_reveal,omitempty"`
	Revealed   []int `json:"revealed"` // safe tiles in reveal order
	MineTile   *int  `json:"mine_tile,omitempty"`
}

// SafeReveals returns the number of safe tiles revealed so far.
func (s *MinesState) SafeReveals() int {
	return len(s.Revealed)
}

// IsRevealed reports whether the tile has already been revealed safe.
func (s *MinesState) IsRevealed(tile int) bool {
	for _, t := range s.Revealed {
		if t == tile {
			return true
		}
	}
	return false
}

// CrashPhase is the in-flight sub-state of a Crash round.
type CrashPhase string

const (
	CrashPhaseWaiting CrashPhase = "waiting" // betting window open
	CrashPhaseClosed  CrashPhase = "closed"  // window expired, flight not yet started
	CrashPhaseFlying  CrashPhase = "flying"
)

// CrashState is the Crash round state. The crash point is drawn when the
// round is created and kept server-side until the round settles.
type CrashState struct {
	Phase       CrashPhase `json:"phase"`
	CrashPoint  float64    `json:"crash_point"`            // hidden from active-round views by the DTO layer
	AutoCashout float64    `json:"auto_cashout,omitempty"` // target multiplier, 0 = disabled
	Ticks       int        `json:"ticks"`
}

// LimboState is the Limbo round state: one draw against a chosen target.
type LimboState struct {
	Target    float64 `json:"target"`
	Generated float64 `json:"generated"` // set at settlement
}

// TowerState is the Dragon Tower climb. SafeTiles pre-commits the one
// safe index per level for all nine levels at round start.
type TowerState struct {
	Difficulty  Difficulty `json:"difficulty"`
	Level       int        `json:"level"`      // completed levels, 0..9
	SafeTiles   []int      `json:"safe_tiles"` // hidden from active-round views by the DTO layer
	Picks       []int      `json:"picks"`
	AutoCashout float64    `json:"auto_cashout,omitempty"`
}

// BarsState is the classic 3x3 slot spin outcome.
type BarsState struct {
	Paylines int        `json:"paylines"`       // active lines, 1..5
	LineBet  int64      `json:"line_bet"`       // BetAmount / Paylines
	Grid     [][]Symbol `json:"grid,omitempty"` // rows x reels
	Wins     []LineWin  `json:"wins,omitempty"`
}

// LineWin is one winning payline.
type LineWin struct {
	Line       int     `json:"line"`
	Symbol     Symbol  `json:"symbol"`
	Count      int     `json:"count"`
	Multiplier float64 `json:"multiplier"` // paytable value applied to the line bet
	Payout     int64   `json:"payout"`
}

// SugarPhase is the cascade loop sub-state of a Sugar Rush round.
type SugarPhase string

const (
	SugarPhaseSpinning   SugarPhase = "spinning"
	SugarPhaseEvaluating SugarPhase = "evaluating"
	SugarPhaseCascading  SugarPhase = "cascading"
)

// SugarState is the Sugar Rush grid and cascade progress.
type SugarState struct {
	Phase       SugarPhase    `json:"phase"`
	Grid        [][]Symbol    `json:"grid,omitempty"` // SugarGridSize x SugarGridSize
	Cascade     int           `json:"cascade"`        // completed cascade iterations
	TotalPayout int64         `json:"total_payout"`
	Steps       []CascadeStep `json:"steps,omitempty"`
}

// CascadeStep records one cascade iteration's clusters and payout.
type CascadeStep struct {
	Cascade    int       `json:"cascade"`
	Multiplier float64   `json:"multiplier"` // ladder value applied this iteration
	Clusters   []Cluster `json:"clusters"`
	Payout     int64     `json:"payout"`
}

// Cluster is a connected group of matching symbols on the grid.
type Cluster struct {
	Symbol Symbol `json:"symbol"`
	Size   int    `json:"size"`
	Cells  []Cell `json:"cells"`
}

// Cell addresses one grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
