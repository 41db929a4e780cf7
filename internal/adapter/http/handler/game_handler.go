package handler

import (
	"strconv"

	"casino-round-engine/config"
	"casino-round-engine/internal/adapter/http/dto"
	"casino-round-engine/internal/adapter/http/middleware"
	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"
	"casino-round-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GameHandler handles round lifecycle and auto-play endpoints.
type GameHandler struct {
	sessionSvc   ports.SessionService
	autoplaySvc  ports.AutoplayService
	reportingSvc ports.ReportingService
	games        config.GamesConfig
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(
	sessionSvc ports.SessionService,
	autoplaySvc ports.AutoplayService,
	reportingSvc ports.ReportingService,
	games config.GamesConfig,
) *GameHandler {
	return &GameHandler{
		sessionSvc:   sessionSvc,
		autoplaySvc:  autoplaySvc,
		reportingSvc: reportingSvc,
		games:        games,
	}
}

// StartRound handles POST /api/v1/games/:game/rounds.
func (h *GameHandler) StartRound(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	game := domain.GameType(c.Param("game"))
	if !game.Valid() {
		response.Error(c, apperror.ErrUnknownGame(string(game)))
		return
	}

	var req dto.StartRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	round, err := h.sessionSvc.StartRound(c.Request.Context(), ports.StartRoundRequest{
		PlayerID:  playerID.(uuid.UUID),
		GameType:  game,
		BetAmount: req.BetAmount,
		Options:   req.Options,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewRoundView(round))
}

// Action handles POST /api/v1/rounds/:id/action.
func (h *GameHandler) Action(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid round id"))
		return
	}

	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	round, err := h.sessionSvc.Action(c.Request.Context(), ports.RoundActionRequest{
		PlayerID: playerID.(uuid.UUID),
		RoundID:  roundID,
		Action:   req.Action,
		Tile:     req.Tile,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewRoundView(round))
}

// GetRound handles GET /api/v1/rounds/:id.
func (h *GameHandler) GetRound(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid round id"))
		return
	}

	round, err := h.sessionSvc.GetRound(c.Request.Context(), playerID.(uuid.UUID), roundID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewRoundView(round))
}

// GetHistory handles GET /api/v1/games/:game/history.
func (h *GameHandler) GetHistory(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	game := domain.GameType(c.Param("game"))
	if !game.Valid() {
		response.Error(c, apperror.ErrUnknownGame(string(game)))
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	results, err := h.reportingSvc.GetHistory(c.Request.Context(), playerID.(uuid.UUID), game, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ResultView, 0, len(results))
	for i := range results {
		items = append(items, *dto.NewResultView(&results[i]))
	}

	response.OK(c, gin.H{
		"game":  string(game),
		"items": items,
	})
}

// GetConfig handles GET /api/v1/games/:game/config.
func (h *GameHandler) GetConfig(c *gin.Context) {
	game := domain.GameType(c.Param("game"))
	if !game.Valid() {
		response.Error(c, apperror.ErrUnknownGame(string(game)))
		return
	}

	response.OK(c, dto.GameConfigResponse{
		Game:    string(game),
		MinBet:  h.games.MinBet,
		MaxBet:  h.games.MaxBet,
		Options: h.gameOptions(game),
	})
}

// gameOptions describes the recognized start options and bounds per game.
func (h *GameHandler) gameOptions(game domain.GameType) map[string]any {
	switch game {
	case domain.GameMines:
		return map[string]any{
			"grid_size":   domain.MinesGridSize,
			"mine_count":  map[string]any{"min": domain.MinesMinCount, "max": domain.MinesMaxCount},
			"auto_reveal": map[string]any{"type": "bool"},
		}
	case domain.GameCrash:
		return map[string]any{
			"auto_cashout":      map[string]any{"min": h.games.Crash.MinCrashPoint, "max": h.games.Crash.MaxCrashPoint},
			"betting_window_ms": h.games.Crash.BettingWindow.Milliseconds(),
			"growth_rate":       h.games.Crash.GrowthRate,
		}
	case domain.GameLimbo:
		return map[string]any{
			"target":     map[string]any{"min": 1.01, "max": h.games.Limbo.MaxTarget},
			"house_edge": h.games.Limbo.HouseEdge,
		}
	case domain.GameTower:
		return map[string]any{
			"difficulty":   []string{"easy", "medium", "hard", "expert"},
			"levels":       domain.TowerLevels,
			"auto_cashout": map[string]any{"type": "multiplier"},
		}
	case domain.GameBars:
		return map[string]any{
			"paylines": map[string]any{"min": 1, "max": domain.BarsMaxLines},
			"reels":    domain.BarsReels,
			"rows":     domain.BarsRows,
		}
	case domain.GameSugar:
		return map[string]any{
			"grid_size":          domain.SugarGridSize,
			"min_cluster":        domain.SugarMinCluster,
			"max_cascades":       domain.SugarMaxCascades,
			"max_win_multiplier": h.games.Sugar.MaxWinMultiplier,
		}
	}
	return map[string]any{}
}

// StartAutoplay handles POST /api/v1/games/:game/autoplay.
func (h *GameHandler) StartAutoplay(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	game := domain.GameType(c.Param("game"))
	if !game.Valid() {
		response.Error(c, apperror.ErrUnknownGame(string(game)))
		return
	}

	var req dto.AutoplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	session, err := h.autoplaySvc.Start(c.Request.Context(), ports.AutoplayStartRequest{
		PlayerID:  playerID.(uuid.UUID),
		GameType:  game,
		BetAmount: req.BetAmount,
		Options: domain.AutoplayOptions{
			Rounds:          req.Rounds,
			BetAdjustment:   domain.BetAdjustment(req.BetAdjustment),
			IncreasePercent: req.IncreasePercent,
			StopOnWin:       req.StopOnWin,
			StopOnLoss:      req.StopOnLoss,
			ProfitTarget:    req.ProfitTarget,
			LossLimit:       req.LossLimit,
		},
		Start: req.Options,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToAutoplayResponse(session))
}

// StopAutoplay handles DELETE /api/v1/autoplay/:id.
func (h *GameHandler) StopAutoplay(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid autoplay id"))
		return
	}

	session, err := h.autoplaySvc.Stop(c.Request.Context(), playerID.(uuid.UUID), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToAutoplayResponse(session))
}

// GetAutoplay handles GET /api/v1/autoplay/:id.
func (h *GameHandler) GetAutoplay(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid autoplay id"))
		return
	}

	session, err := h.autoplaySvc.Get(c.Request.Context(), playerID.(uuid.UUID), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToAutoplayResponse(session))
}
