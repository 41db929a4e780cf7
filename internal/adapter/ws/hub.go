package ws

import (
	"context"

	"casino-round-engine/internal/adapter/http/dto"
	"casino-round-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types pushed to subscribers.
const (
	EventRoundUpdate  = "round_update"
	EventRoundResult  = "round_result"
	EventWalletUpdate = "wallet_update"
)

// Event is one message on the wire.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type targeted struct {
	playerID uuid.UUID
	event    Event
}

// Hub fans round lifecycle events out to a player's open connections.
// Delivery is best-effort: the Notify methods are called while the
// round lock is held, so they enqueue without blocking and drop events
// when the queue is full. Clients recover missed state by fetching the
// round over HTTP.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	events     chan targeted
	done       chan struct{}

	// owned by Run
	clients map[uuid.UUID]map[*Client]struct{}

	log zerolog.Logger
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan targeted, 256),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		log:        log,
	}
}

// Run owns the client registry. It exits when the context is canceled,
// closing every client's send queue so the write pumps drain and stop.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for c := range conns {
					close(c.send)
				}
			}
			return

		case c := <-h.register:
			conns := h.clients[c.playerID]
			if conns == nil {
				conns = make(map[*Client]struct{})
				h.clients[c.playerID] = conns
			}
			conns[c] = struct{}{}
			h.log.Debug().Str("player_id", c.playerID.String()).Int("connections", len(conns)).Msg("ws client registered")

		case c := <-h.unregister:
			if conns, ok := h.clients[c.playerID]; ok {
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.send)
					if len(conns) == 0 {
						delete(h.clients, c.playerID)
					}
				}
			}

		case t := <-h.events:
			for c := range h.clients[t.playerID] {
				select {
				case c.send <- t.event:
				default:
					// Slow consumer, cut it loose
					delete(h.clients[t.playerID], c)
					close(c.send)
					if len(h.clients[t.playerID]) == 0 {
						delete(h.clients, t.playerID)
					}
				}
			}
		}
	}
}

// NotifyRound pushes the sanitized view of an in-flight round.
func (h *Hub) NotifyRound(playerID uuid.UUID, round *domain.Round) {
	h.enqueue(playerID, Event{Type: EventRoundUpdate, Data: dto.NewRoundView(round)})
}

// NotifyResult pushes the settlement snapshot of a finished round.
func (h *Hub) NotifyResult(playerID uuid.UUID, result *domain.Result) {
	h.enqueue(playerID, Event{Type: EventRoundResult, Data: dto.NewResultView(result)})
}

// NotifyWallet pushes the balance after a wallet mutation.
func (h *Hub) NotifyWallet(playerID uuid.UUID, balance *domain.Balance) {
	h.enqueue(playerID, Event{Type: EventWalletUpdate, Data: dto.ToBalanceResponse(balance)})
}

func (h *Hub) enqueue(playerID uuid.UUID, ev Event) {
	select {
	case h.events <- targeted{playerID: playerID, event: ev}:
	default:
		h.log.Warn().Str("player_id", playerID.String()).Str("type", ev.Type).Msg("ws event queue full, dropping event")
	}
}
