package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"casino-round-engine/internal/adapter/http/middleware"
	"casino-round-engine/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type wireEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func setupWSServer(t *testing.T, hub *Hub, playerID uuid.UUID) *httptest.Server {
	t.Helper()
	r := gin.New()
	identify := func(c *gin.Context) {
		c.Set(middleware.CtxPlayerID, playerID)
	}
	r.GET("/ws", identify, ServeWS(hub, zerolog.Nop()))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	// Registration is processed by the hub goroutine after the
	// handshake completes.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev wireEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHub_DeliversSanitizedRoundUpdate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	playerID := uuid.New()
	srv := setupWSServer(t, hub, playerID)
	conn := dialWS(t, srv)

	round := &domain.Round{
		ID:                domain.NewRoundID(),
		PlayerID:          playerID,
		GameType:          domain.GameCrash,
		BetAmount:         500,
		Status:            domain.RoundStatusActive,
		CurrentMultiplier: 1.25,
		PotentialPayout:   625,
		CanCashOut:        true,
		StartedAt:         time.Now(),
		Crash: &domain.CrashState{
			Phase:      domain.CrashPhaseFlying,
			CrashPoint: 4.2,
			Ticks:      22,
		},
	}
	hub.NotifyRound(playerID, round)

	ev := readEvent(t, conn)
	assert.Equal(t, EventRoundUpdate, ev.Type)
	assert.Equal(t, "crash", ev.Data["game_type"])

	crash, ok := ev.Data["crash"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, crash, "crash_point")
	assert.Equal(t, "flying", crash["phase"])
}

func TestHub_DeliversResultToAllConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	playerID := uuid.New()
	srv := setupWSServer(t, hub, playerID)
	conn1 := dialWS(t, srv)
	conn2 := dialWS(t, srv)

	ended := time.Now()
	result := &domain.Result{
		RoundID:    domain.NewRoundID(),
		PlayerID:   playerID,
		GameType:   domain.GameLimbo,
		BetAmount:  1000,
		Multiplier: 2.5,
		Payout:     2500,
		Win:        true,
		EndedAt:    ended,
	}
	hub.NotifyResult(playerID, result)

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		ev := readEvent(t, conn)
		assert.Equal(t, EventRoundResult, ev.Type)
		assert.Equal(t, true, ev.Data["win"])
		assert.Equal(t, float64(2500), ev.Data["payout"])
	}
}

func TestHub_IsolatesPlayers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	playerID := uuid.New()
	srv := setupWSServer(t, hub, playerID)
	conn := dialWS(t, srv)

	other := uuid.New()
	hub.NotifyWallet(other, &domain.Balance{Current: 9000, Available: 9000, Currency: "USD"})
	hub.NotifyWallet(playerID, &domain.Balance{Current: 5000, Available: 5000, Currency: "USD"})

	// Only the event addressed to this player arrives.
	ev := readEvent(t, conn)
	assert.Equal(t, EventWalletUpdate, ev.Type)
	assert.Equal(t, float64(5000), ev.Data["current"])
	assert.Equal(t, "USD", ev.Data["currency"])
}

func TestHub_NotifyNeverBlocks(t *testing.T) {
	// No Run loop draining the queue: enqueue far past capacity and
	// expect every call to return immediately.
	hub := NewHub(zerolog.Nop())
	playerID := uuid.New()
	balance := &domain.Balance{Current: 100, Available: 100, Currency: "USD"}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.NotifyWallet(playerID, balance)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notify blocked")
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	playerID := uuid.New()
	srv := setupWSServer(t, hub, playerID)
	conn := dialWS(t, srv)

	conn.Close()
	time.Sleep(50 * time.Millisecond)

	// Notifying after the disconnect must not panic or block.
	hub.NotifyWallet(playerID, &domain.Balance{Current: 100, Available: 100, Currency: "USD"})
}

func TestServeWS_RejectsMissingIdentity(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", ServeWS(hub, zerolog.Nop()))
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
