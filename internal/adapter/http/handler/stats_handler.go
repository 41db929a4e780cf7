package handler

import (
	"math"
	"strconv"

	"casino-round-engine/internal/adapter/http/dto"
	"casino-round-engine/internal/adapter/http/middleware"
	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"
	"casino-round-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StatsHandler handles ledger statistics and transaction list endpoints.
type StatsHandler struct {
	reportingSvc ports.ReportingService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(reportingSvc ports.ReportingService) *StatsHandler {
	return &StatsHandler{reportingSvc: reportingSvc}
}

// GetStats handles GET /api/v1/stats.
func (h *StatsHandler) GetStats(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var game *domain.GameType
	if g := c.Query("game"); g != "" {
		gt := domain.GameType(g)
		if !gt.Valid() {
			response.Error(c, apperror.ErrUnknownGame(g))
			return
		}
		game = &gt
	}

	period := c.DefaultQuery("period", "all")
	stats, err := h.reportingSvc.GetPlayerStats(c.Request.Context(), playerID.(uuid.UUID), game, period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StatsResponse{
		TotalRounds:    stats.TotalRounds,
		TotalWins:      stats.TotalWins,
		TotalWagered:   stats.TotalWagered,
		TotalWon:       stats.TotalWon,
		NetResult:      stats.NetResult,
		BiggestWin:     stats.BiggestWin,
		TotalDeposited: stats.TotalDeposited,
		TotalWithdrawn: stats.TotalWithdrawn,
	})
}

// ListTransactions handles GET /api/v1/transactions.
func (h *StatsHandler) ListTransactions(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.TransactionListParams{
		PlayerID: playerID.(uuid.UUID),
		Page:     page,
		PageSize: pageSize,
	}
	if t := c.Query("type"); t != "" {
		txType := domain.TransactionType(t)
		params.Type = &txType
	}
	if g := c.Query("game"); g != "" {
		gt := domain.GameType(g)
		if !gt.Valid() {
			response.Error(c, apperror.ErrUnknownGame(g))
			return
		}
		params.GameType = &gt
	}
	if f := c.Query("from"); f != "" {
		if ts, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &ts
		}
	}
	if t := c.Query("to"); t != "" {
		if ts, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &ts
		}
	}

	txs, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, dto.ToTransactionResponse(&txs[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Reconcile handles GET /api/v1/wallets/reconcile. It cross-checks the
// stored balance against the ledger sum for the calling player.
func (h *StatsHandler) Reconcile(c *gin.Context) {
	playerID, ok := c.Get(middleware.CtxPlayerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	report, err := h.reportingSvc.Reconcile(c.Request.Context(), playerID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReconcileResponse{
		WalletID:   report.WalletID.String(),
		Balance:    report.Balance,
		LedgerSum:  report.LedgerSum,
		Consistent: report.Consistent,
	})
}
