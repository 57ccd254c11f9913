// Package server exposes the rules engine over a websocket gateway. It
// translates JSON messages into engine calls and broadcasts room state to
// connected clients.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/slayloop/party-server-go/internal/config"
	"github.com/slayloop/party-server-go/internal/game"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/room"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the wire envelope for both directions.
type Message struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"room_id,omitempty"`
	PlayerID string          `json:"player_id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// WireParam is one action parameter as sent by clients, decoded once at
// this boundary into a typed value.
type WireParam struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// WireAction is one effect invocation as sent by clients.
type WireAction struct {
	Name   string      `json:"name"`
	Params []WireParam `json:"params"`
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	playerID string
	roomID   string
}

// Hub fans room-state updates out to every client in a room.
type Hub struct {
	logger  *zap.Logger
	rooms   *room.Manager
	engine  *game.Engine
	results ResultSink

	mu      sync.Mutex
	clients map[*client]bool
}

// ResultSink receives finished-match notifications; nil disables them.
type ResultSink interface {
	GameFinished(roomID, winnerID string, turns int)
}

// NewHub creates the gateway hub.
func NewHub(rooms *room.Manager, engine *game.Engine, results ResultSink, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:  logger,
		rooms:   rooms,
		engine:  engine,
		results: results,
		clients: make(map[*client]bool),
	}
}

// Serve starts the websocket endpoint and blocks.
func (h *Hub) Serve(cfg config.WebSocketConfig) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	h.logger.Info("websocket gateway listening", zap.String("address", cfg.Address))
	return http.ListenAndServe(cfg.Address, mux)
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 256)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go c.writePump()
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		close(c.send)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.reply(c, errorMessage("", fmt.Sprintf("invalid message: %v", err)))
			continue
		}
		h.handleMessage(c, msg)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (h *Hub) handleMessage(c *client, msg Message) {
	switch msg.Type {
	case "create_room":
		r := h.rooms.CreateRoom()
		h.reply(c, Message{Type: "room_created", RoomID: r.ID})

	case "join_room":
		var payload struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(msg.Data, &payload)
		if err := h.rooms.JoinRoom(msg.RoomID, msg.PlayerID, payload.Name); err != nil {
			h.reply(c, errorMessage(msg.RoomID, err.Error()))
			return
		}
		c.roomID = msg.RoomID
		c.playerID = msg.PlayerID
		h.broadcastState(msg.RoomID)

	case "leave_room":
		if err := h.rooms.LeaveRoom(msg.RoomID, msg.PlayerID); err != nil {
			h.reply(c, errorMessage(msg.RoomID, err.Error()))
			return
		}
		c.roomID = ""
		h.broadcastState(msg.RoomID)

	case "start_game":
		var setup room.GameSetup
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &setup); err != nil {
				h.reply(c, errorMessage(msg.RoomID, fmt.Sprintf("invalid setup: %v", err)))
				return
			}
		}
		if err := h.rooms.StartGame(msg.RoomID, setup); err != nil {
			h.reply(c, errorMessage(msg.RoomID, err.Error()))
			return
		}
		h.broadcastState(msg.RoomID)

	case "play_card":
		h.handlePlayCard(c, msg)

	case "provide_input":
		h.handleProvideInput(c, msg)

	case "get_state":
		r, ok := h.rooms.GetRoom(msg.RoomID)
		if !ok {
			h.reply(c, errorMessage(msg.RoomID, "room not found"))
			return
		}
		h.reply(c, stateMessage(h.engine, r))

	default:
		h.reply(c, errorMessage(msg.RoomID, fmt.Sprintf("unknown message type %q", msg.Type)))
	}
}

func (h *Hub) handlePlayCard(c *client, msg Message) {
	r, ok := h.rooms.GetRoom(msg.RoomID)
	if !ok {
		h.reply(c, errorMessage(msg.RoomID, "room not found"))
		return
	}

	var payload struct {
		CardID  string       `json:"card_id"`
		Effects []WireAction `json:"effects"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		h.reply(c, errorMessage(msg.RoomID, fmt.Sprintf("invalid play: %v", err)))
		return
	}

	effects, err := decodeActions(payload.Effects)
	if err != nil {
		h.reply(c, errorMessage(msg.RoomID, err.Error()))
		return
	}

	ctx := r.Context(msg.PlayerID)
	result := h.engine.PlayCard(ctx, payload.CardID, effects)
	h.reply(c, resultMessage(msg.RoomID, result))
	h.broadcastState(msg.RoomID)
	h.maybeReportFinish(r)
}

func (h *Hub) handleProvideInput(c *client, msg Message) {
	r, ok := h.rooms.GetRoom(msg.RoomID)
	if !ok {
		h.reply(c, errorMessage(msg.RoomID, "room not found"))
		return
	}

	var payload struct {
		ActionID string `json:"action_id"`
		Value    string `json:"value"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		h.reply(c, errorMessage(msg.RoomID, fmt.Sprintf("invalid input: %v", err)))
		return
	}

	ctx := r.Context(msg.PlayerID)
	result := h.engine.ProvideActionInput(ctx, payload.ActionID, rules.StringParam("user-input", payload.Value))
	h.reply(c, resultMessage(msg.RoomID, result))
	h.broadcastState(msg.RoomID)
	h.maybeReportFinish(r)
}

func (h *Hub) maybeReportFinish(r *room.Room) {
	if h.results == nil {
		return
	}
	ctx := r.Context("")
	for _, id := range r.JoinOrder() {
		view := viewPlayer(ctx, id)
		if view == nil {
			continue
		}
		// Six distinct hero classes in a party ends the game. Monster-slay
		// wins live with the effect authors and are reported the same way.
		if view.Won {
			turnCount := 0
			if turn, ok := h.engine.ActiveTurn(ctx); ok {
				turnCount = len(turn.PlayedCards)
			}
			h.results.GameFinished(r.ID, id, turnCount)
			return
		}
	}
}

func decodeActions(wire []WireAction) ([]rules.Action, error) {
	actions := make([]rules.Action, 0, len(wire))
	for _, wa := range wire {
		params := make(rules.Params, 0, len(wa.Params))
		for _, wp := range wa.Params {
			p, err := rules.DecodeParam(wp.Name, rules.ParamType(wp.Type), wp.Value)
			if err != nil {
				return nil, fmt.Errorf("action %q: %w", wa.Name, err)
			}
			params = append(params, p)
		}
		actions = append(actions, rules.Action{Name: wa.Name, Params: params})
	}
	return actions, nil
}

func (h *Hub) reply(c *client, msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshaling reply", zap.Error(err))
		return
	}
	select {
	case c.send <- raw:
	default:
	}
}

func (h *Hub) broadcastState(roomID string) {
	r, ok := h.rooms.GetRoom(roomID)
	if !ok {
		return
	}
	msg := stateMessage(h.engine, r)
	raw, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshaling state", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.roomID != roomID {
			continue
		}
		select {
		case c.send <- raw:
		default:
		}
	}
}

func errorMessage(roomID, text string) Message {
	data, _ := json.Marshal(map[string]string{"error": text})
	return Message{Type: "error", RoomID: roomID, Data: data}
}

func resultMessage(roomID string, result rules.ActionResult) Message {
	data, _ := json.Marshal(result)
	return Message{Type: "action_result", RoomID: roomID, Data: data}
}
