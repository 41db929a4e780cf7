package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionServiceImpl implements ports.SessionService. It owns the round
// lifecycle: debit the stake, hand the round to its game engine, relay
// engine events to the wallet, the history store, the notifier and the
// scheduler. All transitions of one round run under the store's
// per-round lock; the engines themselves hold no locks.
type SessionServiceImpl struct {
	engines   map[domain.GameType]ports.GameEngine
	store     ports.RoundStore
	history   ports.HistoryStore
	walletSvc ports.WalletService
	auditSvc  ports.AuditService
	notifier  ports.ResultNotifier // nil = no push updates
	scheduler ports.Scheduler
	clock     ports.Clock
	log       zerolog.Logger

	minBet int64
	maxBet int64

	// startMu serializes the active-round check against the insert so a
	// player cannot slip two concurrent rounds past the one-round rule.
	startMu sync.Mutex
}

// NewSessionService creates a new SessionServiceImpl.
func NewSessionService(
	engines []ports.GameEngine,
	store ports.RoundStore,
	history ports.HistoryStore,
	walletSvc ports.WalletService,
	auditSvc ports.AuditService,
	notifier ports.ResultNotifier,
	scheduler ports.Scheduler,
	clock ports.Clock,
	log zerolog.Logger,
	minBet, maxBet int64,
) *SessionServiceImpl {
	byType := make(map[domain.GameType]ports.GameEngine, len(engines))
	for _, e := range engines {
		byType[e.Type()] = e
	}
	return &SessionServiceImpl{
		engines:   byType,
		store:     store,
		history:   history,
		walletSvc: walletSvc,
		auditSvc:  auditSvc,
		notifier:  notifier,
		scheduler: scheduler,
		clock:     clock,
		log:       log,
		minBet:    minBet,
		maxBet:    maxBet,
	}
}

// StartRound validates the request, debits the stake and starts the
// round on its engine. Instant games (Limbo) come back already settled;
// timed games come back live with their first tick scheduled.
func (s *SessionServiceImpl) StartRound(ctx context.Context, req ports.StartRoundRequest) (*domain.Round, error) {
	engine, ok := s.engines[req.GameType]
	if !ok {
		return nil, apperror.ErrUnknownGame(string(req.GameType))
	}
	if req.BetAmount < s.minBet || req.BetAmount > s.maxBet {
		return nil, apperror.ErrInvalidBetAmount(s.minBet, s.maxBet)
	}
	if err := engine.ValidateStart(req.BetAmount, req.Options); err != nil {
		return nil, err
	}

	round := &domain.Round{
		ID:        domain.NewRoundID(),
		PlayerID:  req.PlayerID,
		GameType:  req.GameType,
		BetAmount: req.BetAmount,
		Status:    domain.RoundStatusActive,
		Seed:      NewSeed(),
		StartedAt: s.clock.Now(),
	}

	// Reserve the player's round slot before touching the wallet: the
	// check and the insert must be one step or two concurrent starts
	// both pass it.
	s.startMu.Lock()
	if _, exists := s.store.ActiveByPlayer(req.PlayerID); exists {
		s.startMu.Unlock()
		return nil, apperror.ErrRoundInProgress()
	}
	s.store.Put(round)
	s.startMu.Unlock()

	betTx, err := s.walletSvc.Bet(ctx, ports.BetRequest{
		PlayerID: req.PlayerID,
		Amount:   req.BetAmount,
		GameType: req.GameType,
		RoundID:  round.ID,
	})
	if err != nil {
		s.store.Remove(round.ID)
		return nil, err
	}

	unlock := s.store.Lock(round.ID)
	defer unlock()
	round.BetTransactionID = betTx.ID

	ev, err := engine.Begin(round, req.Options)
	if err != nil {
		// The stake is already taken; hand it back before failing.
		s.store.Remove(round.ID)
		if _, refundErr := s.walletSvc.Refund(ctx, ports.PayoutRequest{
			PlayerID: req.PlayerID,
			Amount:   req.BetAmount,
			GameType: req.GameType,
			RoundID:  round.ID,
		}); refundErr != nil {
			s.log.Error().Err(refundErr).Str("round_id", round.ID.String()).Msg("failed to refund stake after begin failure")
		}
		return nil, apperror.InternalError(fmt.Errorf("begin round: %w", err))
	}

	s.audit(round, domain.AuditActionBet, fmt.Sprintf(`{"game":"%s","bet":%d}`, round.GameType, round.BetAmount))
	s.log.Info().
		Str("round_id", round.ID.String()).
		Str("player_id", req.PlayerID.String()).
		Str("game", string(req.GameType)).
		Int64("bet", req.BetAmount).
		Msg("round started")

	s.handleEvent(ctx, round, ev)
	return round, nil
}

// Action applies a player action to an in-flight round under the round
// lock. Engines answer invalid actions with a nil event; those return
// the unchanged round so clients cannot probe round internals through
// error differences.
func (s *SessionServiceImpl) Action(ctx context.Context, req ports.RoundActionRequest) (*domain.Round, error) {
	unlock := s.store.Lock(req.RoundID)
	defer unlock()

	round, ok := s.store.Get(req.RoundID)
	if !ok || round.PlayerID != req.PlayerID {
		return nil, apperror.ErrRoundNotFound()
	}

	engine, ok := s.engines[round.GameType]
	if !ok {
		return nil, apperror.ErrUnknownGame(string(round.GameType))
	}

	ev, err := engine.Apply(round, ports.EngineAction{Name: req.Action, Tile: req.Tile})
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return round, nil
	}

	if ev.Settled {
		switch round.Status {
		case domain.RoundStatusCashedOut:
			s.audit(round, domain.AuditActionCashout, fmt.Sprintf(`{"multiplier":%g,"payout":%d}`, ev.Multiplier, ev.Payout))
		case domain.RoundStatusCanceled:
			s.audit(round, domain.AuditActionCancel, fmt.Sprintf(`{"refund":%t}`, ev.Refund))
		}
	}
	s.handleEvent(ctx, round, ev)
	return round, nil
}

// GetRound returns an in-flight round. Settled rounds are gone from the
// store; their snapshots live in the game history.
func (s *SessionServiceImpl) GetRound(ctx context.Context, playerID, roundID uuid.UUID) (*domain.Round, error) {
	round, ok := s.store.Get(roundID)
	if !ok || round.PlayerID != playerID {
		return nil, apperror.ErrRoundNotFound()
	}
	return round, nil
}

// handleEvent relays one engine event: settle, broadcast, reschedule.
// Caller holds the round lock.
func (s *SessionServiceImpl) handleEvent(ctx context.Context, round *domain.Round, ev *ports.EngineEvent) {
	if ev.Settled {
		s.finalize(ctx, round, ev)
		return
	}
	if ev.Broadcast && s.notifier != nil {
		s.notifier.NotifyRound(round.PlayerID, round)
	}
	if ev.NextTick > 0 {
		s.scheduleTick(round.ID, ev.NextTick)
	}
}

// finalize settles a terminal round: credit the payout or the refund,
// emit the result, drop the round from the store. Cancelled rounds
// leave no history entry.
func (s *SessionServiceImpl) finalize(ctx context.Context, round *domain.Round, ev *ports.EngineEvent) {
	if ev.Payout > 0 {
		winTx, err := s.walletSvc.Win(ctx, ports.PayoutRequest{
			PlayerID: round.PlayerID,
			Amount:   ev.Payout,
			GameType: round.GameType,
			RoundID:  round.ID,
		})
		if err != nil {
			s.log.Error().Err(err).
				Str("round_id", round.ID.String()).
				Int64("payout", ev.Payout).
				Msg("failed to credit win")
		} else {
			round.WinTransactionID = &winTx.ID
		}
	} else if ev.Refund {
		if _, err := s.walletSvc.Refund(ctx, ports.PayoutRequest{
			PlayerID: round.PlayerID,
			Amount:   round.BetAmount,
			GameType: round.GameType,
			RoundID:  round.ID,
		}); err != nil {
			s.log.Error().Err(err).
				Str("round_id", round.ID.String()).
				Msg("failed to refund stake")
		}
	}

	if round.Status == domain.RoundStatusCanceled {
		if s.notifier != nil {
			s.notifier.NotifyRound(round.PlayerID, round)
		}
	} else {
		result := domain.NewResult(round, ev.Payout)
		if err := s.history.Push(ctx, result); err != nil {
			s.log.Warn().Err(err).Str("round_id", round.ID.String()).Msg("failed to push result to history")
		}
		if s.notifier != nil {
			s.notifier.NotifyResult(round.PlayerID, result)
		}
	}

	s.store.Remove(round.ID)
	s.log.Info().
		Str("round_id", round.ID.String()).
		Str("status", string(round.Status)).
		Float64("multiplier", round.CurrentMultiplier).
		Int64("payout", ev.Payout).
		Msg("round settled")
}

// scheduleTick arms the next engine tick. Caller holds the round lock,
// so a zero-delay timer still cannot run before the current transition
// finishes.
func (s *SessionServiceImpl) scheduleTick(roundID uuid.UUID, d time.Duration) {
	s.scheduler.AfterFunc(d, func() { s.tick(roundID) })
}

// tick runs one timer-driven transition. A round settled and removed
// before the timer fired is a silent miss.
func (s *SessionServiceImpl) tick(roundID uuid.UUID) {
	unlock := s.store.Lock(roundID)
	defer unlock()

	round, ok := s.store.Get(roundID)
	if !ok {
		return
	}
	engine, ok := s.engines[round.GameType]
	if !ok {
		return
	}

	ev, err := engine.Tick(round)
	if err != nil {
		s.log.Error().Err(err).Str("round_id", roundID.String()).Msg("engine tick failed")
		return
	}
	if ev == nil {
		return
	}
	s.handleEvent(context.Background(), round, ev)
}

// audit records a round lifecycle action. Fire-and-forget.
func (s *SessionServiceImpl) audit(round *domain.Round, action domain.AuditAction, details string) {
	if s.auditSvc == nil {
		return
	}
	playerID := round.PlayerID
	s.auditSvc.Log(context.Background(), &domain.AuditLog{
		ID:           uuid.New(),
		PlayerID:     &playerID,
		Action:       action,
		ResourceType: "round",
		ResourceID:   round.ID.String(),
		Details:      details,
		CreatedAt:    s.clock.Now(),
	})
}
