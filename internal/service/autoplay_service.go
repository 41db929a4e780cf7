package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AutoplayServiceImpl implements ports.AutoplayService. Rounds run
// strictly one at a time: the next round is scheduled only after the
// previous round's result has been folded into the session and the
// stop conditions re-checked. The service learns of settlements by
// sitting in the session service's notifier fan-out, so it also
// implements ports.ResultNotifier.
type AutoplayServiceImpl struct {
	sessionSvc ports.SessionService
	auditSvc   ports.AuditService
	scheduler  ports.Scheduler
	clock      ports.Clock
	log        zerolog.Logger

	maxRounds  int
	roundDelay time.Duration

	mu       sync.Mutex
	runs     map[uuid.UUID]*autoplayRun
	byPlayer map[uuid.UUID]uuid.UUID // player -> latest run, kept after it stops so Get still answers
}

// autoplayRun pairs a session with its driver state. expecting marks
// the window between asking the session service for a round and
// learning its ID, so instant games whose result fires inside
// StartRound still match.
type autoplayRun struct {
	session    *domain.AutoplaySession
	roundID    uuid.UUID
	expecting  bool
	cancelNext ports.CancelFunc
}

// NewAutoplayService creates a new AutoplayServiceImpl.
func NewAutoplayService(
	sessionSvc ports.SessionService,
	auditSvc ports.AuditService,
	scheduler ports.Scheduler,
	clock ports.Clock,
	log zerolog.Logger,
	maxRounds int,
	roundDelay time.Duration,
) *AutoplayServiceImpl {
	return &AutoplayServiceImpl{
		sessionSvc: sessionSvc,
		auditSvc:   auditSvc,
		scheduler:  scheduler,
		clock:      clock,
		log:        log,
		maxRounds:  maxRounds,
		roundDelay: roundDelay,
		runs:       make(map[uuid.UUID]*autoplayRun),
		byPlayer:   make(map[uuid.UUID]uuid.UUID),
	}
}

// Start validates the run configuration, registers the session and
// plays the first round synchronously so funding and option errors
// surface to the caller instead of dying in a timer callback.
func (s *AutoplayServiceImpl) Start(ctx context.Context, req ports.AutoplayStartRequest) (*domain.AutoplaySession, error) {
	opts := req.Options
	if opts.BetAdjustment == "" {
		opts.BetAdjustment = domain.BetAdjustmentContinue
	}
	if err := s.validateOptions(req.GameType, opts, req.Start); err != nil {
		return nil, err
	}

	sess := domain.NewAutoplaySession(req.PlayerID, req.GameType, req.BetAmount, opts, req.Start, s.clock.Now())
	run := &autoplayRun{session: sess, expecting: true}

	s.mu.Lock()
	if prevID, ok := s.byPlayer[req.PlayerID]; ok {
		if prev := s.runs[prevID]; prev != nil && prev.session.Active {
			s.mu.Unlock()
			return nil, apperror.ErrAutoplayActive()
		}
		// Starting a new run evicts the player's finished one.
		delete(s.runs, prevID)
	}
	s.runs[sess.ID] = run
	s.byPlayer[req.PlayerID] = sess.ID
	s.mu.Unlock()

	round, err := s.sessionSvc.StartRound(ctx, ports.StartRoundRequest{
		PlayerID:  req.PlayerID,
		GameType:  req.GameType,
		BetAmount: sess.CurrentBet,
		Options:   sess.StartOptions,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		delete(s.runs, sess.ID)
		if s.byPlayer[req.PlayerID] == sess.ID {
			delete(s.byPlayer, req.PlayerID)
		}
		return nil, err
	}
	if run.expecting {
		run.roundID = round.ID
	}

	s.audit(sess, domain.AuditActionAutoplayStart,
		fmt.Sprintf(`{"game":"%s","rounds":%d,"bet":%d}`, sess.GameType, opts.Rounds, req.BetAmount))
	s.log.Info().
		Str("session_id", sess.ID.String()).
		Str("player_id", sess.PlayerID.String()).
		Str("game", string(sess.GameType)).
		Int("rounds", opts.Rounds).
		Int64("bet", req.BetAmount).
		Msg("autoplay started")

	snap := *sess
	return &snap, nil
}

// Stop halts the run and cancels any pending round timer. Stopping an
// already finished session is not an error; the final state comes back
// either way.
func (s *AutoplayServiceImpl) Stop(ctx context.Context, playerID, sessionID uuid.UUID) (*domain.AutoplaySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[sessionID]
	if !ok || run.session.PlayerID != playerID {
		return nil, apperror.ErrAutoplayNotFound()
	}
	s.stopLocked(run, domain.StopReasonPlayer)
	snap := *run.session
	return &snap, nil
}

// Get returns a snapshot of the session, finished or not.
func (s *AutoplayServiceImpl) Get(ctx context.Context, playerID, sessionID uuid.UUID) (*domain.AutoplaySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[sessionID]
	if !ok || run.session.PlayerID != playerID {
		return nil, apperror.ErrAutoplayNotFound()
	}
	snap := *run.session
	return &snap, nil
}

// ==================== ResultNotifier ====================

// NotifyRound is a no-op; autoplay only cares about settlements.
func (s *AutoplayServiceImpl) NotifyRound(playerID uuid.UUID, round *domain.Round) {}

// NotifyWallet is a no-op.
func (s *AutoplayServiceImpl) NotifyWallet(playerID uuid.UUID, balance *domain.Balance) {}

// NotifyResult folds a settlement into the player's active run. The
// session service calls this while holding the round's lock, so the
// work here is map updates and a timer arm, nothing blocking.
func (s *AutoplayServiceImpl) NotifyResult(playerID uuid.UUID, result *domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPlayer[playerID]
	if !ok {
		return
	}
	run := s.runs[id]
	if run == nil || !run.session.Active {
		return
	}
	if result.RoundID != run.roundID && !run.expecting {
		return
	}
	run.expecting = false
	run.roundID = result.RoundID

	sess := run.session
	sess.ApplyResult(result)
	if reason := sess.StopReasonAfter(result); reason != "" {
		s.stopLocked(run, reason)
		return
	}
	sess.AdjustBet()
	sessID := sess.ID
	run.cancelNext = s.scheduler.AfterFunc(s.roundDelay, func() { s.playNext(sessID) })
}

// playNext starts the next round of the run. The session may have been
// stopped between the timer arming and firing; re-check under the lock.
func (s *AutoplayServiceImpl) playNext(sessionID uuid.UUID) {
	s.mu.Lock()
	run, ok := s.runs[sessionID]
	if !ok || !run.session.Active {
		s.mu.Unlock()
		return
	}
	run.cancelNext = nil
	run.expecting = true
	req := ports.StartRoundRequest{
		PlayerID:  run.session.PlayerID,
		GameType:  run.session.GameType,
		BetAmount: run.session.CurrentBet,
		Options:   run.session.StartOptions,
	}
	s.mu.Unlock()

	round, err := s.sessionSvc.StartRound(context.Background(), req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		run.expecting = false
		reason := domain.StopReasonError
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == "WAL_001" {
			reason = domain.StopReasonInsufficient
		}
		s.log.Warn().Err(err).
			Str("session_id", sessionID.String()).
			Str("reason", reason).
			Msg("autoplay round failed to start")
		s.stopLocked(run, reason)
		return
	}
	if run.expecting {
		run.roundID = round.ID
	}
}

// stopLocked finishes the run: cancel the pending timer and mark the
// session stopped. Caller holds s.mu.
func (s *AutoplayServiceImpl) stopLocked(run *autoplayRun, reason string) {
	if run.cancelNext != nil {
		run.cancelNext()
		run.cancelNext = nil
	}
	sess := run.session
	if !sess.Active {
		return
	}
	sess.Stop(reason, s.clock.Now())
	s.audit(sess, domain.AuditActionAutoplayStop,
		fmt.Sprintf(`{"reason":"%s","rounds_played":%d,"profit":%d}`, reason, sess.RoundsPlayed, sess.Profit))
	s.log.Info().
		Str("session_id", sess.ID.String()).
		Str("reason", reason).
		Int("rounds_played", sess.RoundsPlayed).
		Int64("profit", sess.Profit).
		Msg("autoplay stopped")
}

// validateOptions rejects configurations that could never finish. Mines
// and Tower rounds only move on player actions, so an unattended run
// would stall on its first round; Crash needs a pre-committed cash-out
// for the same reason a round left alone always rides into the crash.
func (s *AutoplayServiceImpl) validateOptions(game domain.GameType, opts domain.AutoplayOptions, start domain.StartOptions) error {
	if opts.Rounds < 1 || opts.Rounds > s.maxRounds {
		return apperror.ErrInvalidGameConfig(fmt.Sprintf("rounds must be between 1 and %d", s.maxRounds))
	}
	if !opts.BetAdjustment.Valid() {
		return apperror.ErrInvalidGameConfig("unknown bet adjustment rule")
	}
	if opts.BetAdjustment == domain.BetAdjustmentIncrease && opts.IncreasePercent <= 0 {
		return apperror.ErrInvalidGameConfig("increase percent must be positive")
	}
	if opts.ProfitTarget < 0 || opts.LossLimit < 0 {
		return apperror.ErrInvalidGameConfig("stop thresholds cannot be negative")
	}
	switch game {
	case domain.GameMines, domain.GameTower:
		return apperror.ErrInvalidGameConfig(fmt.Sprintf("%s cannot be auto-played", game))
	case domain.GameCrash:
		if start.Crash == nil || start.Crash.AutoCashout == nil || !start.Crash.AutoCashout.Enabled {
			return apperror.ErrInvalidGameConfig("crash auto-play requires an auto cash-out target")
		}
	}
	return nil
}

func (s *AutoplayServiceImpl) audit(sess *domain.AutoplaySession, action domain.AuditAction, details string) {
	if s.auditSvc == nil {
		return
	}
	playerID := sess.PlayerID
	s.auditSvc.Log(context.Background(), &domain.AuditLog{
		ID:           uuid.New(),
		PlayerID:     &playerID,
		Action:       action,
		ResourceType: "autoplay",
		ResourceID:   sess.ID.String(),
		Details:      details,
		CreatedAt:    s.clock.Now(),
	})
}
