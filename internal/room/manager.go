// Package room owns the roomID -> state-handle mapping. It is the only
// layer that resolves room ids; the engine below it works purely on
// explicit context handles.
package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slayloop/party-server-go/internal/game"
	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/state"
	"go.uber.org/zap"
)

// Room holds one game's replicated documents and join bookkeeping.
type Room struct {
	ID        string
	Players   state.Map
	GameState state.Map
	CreatedAt time.Time

	mu        sync.Mutex
	joinOrder []string
	started   bool
}

// Context builds the engine context for a call by the given player.
func (r *Room) Context(playerID string) state.Context {
	return state.Context{
		RoomID:    r.ID,
		PlayerID:  playerID,
		Players:   r.Players,
		GameState: r.GameState,
	}
}

// JoinOrder returns the players in ascending join order.
func (r *Room) JoinOrder() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.joinOrder...)
}

// Manager tracks all live rooms.
type Manager struct {
	logger *zap.Logger
	engine *game.Engine

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewManager creates a room manager backed by the given engine.
func NewManager(engine *game.Engine, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger: logger,
		engine: engine,
		rooms:  make(map[string]*Room),
	}
}

// CreateRoom allocates a new room with empty state documents.
func (m *Manager) CreateRoom() *Room {
	room := &Room{
		ID:        uuid.NewString(),
		Players:   state.NewMemoryMap(),
		GameState: state.NewMemoryMap(),
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.rooms[room.ID] = room
	m.mu.Unlock()

	m.logger.Info("room created", zap.String("room_id", room.ID))
	return room
}

// GetRoom resolves a room id.
func (m *Manager) GetRoom(roomID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[roomID]
	return room, ok
}

// RemoveRoom drops a room and its state.
func (m *Manager) RemoveRoom(roomID string) {
	m.mu.Lock()
	delete(m.rooms, roomID)
	m.mu.Unlock()
	m.logger.Info("room removed", zap.String("room_id", roomID))
}

// JoinRoom adds a player to a room that has not started yet. Join order is
// preserved; it decides turn rotation.
func (m *Manager) JoinRoom(roomID, playerID, name string) error {
	room, ok := m.GetRoom(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.started {
		return fmt.Errorf("room %s has already started", roomID)
	}
	for _, id := range room.joinOrder {
		if id == playerID {
			return fmt.Errorf("player %s already joined room %s", playerID, roomID)
		}
	}

	player := &game.Player{
		ID:    playerID,
		Name:  name,
		Hand:  make([]cards.Card, 0, 8),
		Deck:  make([]cards.Card, 0, 16),
		Party: game.NewParty(m.engine.Config().MinHeroSlots),
	}
	room.Players.Set(playerID, player)
	room.joinOrder = append(room.joinOrder, playerID)

	m.logger.Info("player joined",
		zap.String("room_id", roomID),
		zap.String("player_id", playerID),
	)
	return nil
}

// LeaveRoom removes a player from a room that has not started yet. Once a
// game is running, seats are fixed; the room must be torn down instead.
func (m *Manager) LeaveRoom(roomID, playerID string) error {
	room, ok := m.GetRoom(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.started {
		return fmt.Errorf("room %s has already started", roomID)
	}
	for i, id := range room.joinOrder {
		if id == playerID {
			room.joinOrder = append(room.joinOrder[:i], room.joinOrder[i+1:]...)
			room.Players.Delete(playerID)
			m.logger.Info("player left",
				zap.String("room_id", roomID),
				zap.String("player_id", playerID),
			)
			return nil
		}
	}
	return fmt.Errorf("player %s is not in room %s", playerID, roomID)
}

// GameSetup seeds the shared stacks before a game starts. Card content is
// already-validated static data from the catalog.
type GameSetup struct {
	SupportDeck []cards.Card
	MonsterPile []cards.Card
	Hands       map[string][]cards.Card
	Leaders     map[string]cards.Card
}

// StartGame seeds initial state and starts the engine's first turn.
func (m *Manager) StartGame(roomID string, setup GameSetup) error {
	room, ok := m.GetRoom(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}

	room.mu.Lock()
	if room.started {
		room.mu.Unlock()
		return fmt.Errorf("room %s has already started", roomID)
	}
	order := append([]string(nil), room.joinOrder...)
	room.mu.Unlock()

	if len(order) < 2 {
		return fmt.Errorf("room %s needs at least 2 players", roomID)
	}

	ctx := room.Context("")
	if setup.SupportDeck != nil {
		game.SeedSupportDeck(ctx, setup.SupportDeck)
	}
	if setup.MonsterPile != nil {
		game.SeedMonsterPile(ctx, setup.MonsterPile)
	}
	for playerID, hand := range setup.Hands {
		if raw, ok := room.Players.Get(playerID); ok {
			if p, ok := raw.(*game.Player); ok {
				cp := *p
				cp.Hand = append([]cards.Card(nil), hand...)
				room.Players.Set(playerID, &cp)
			}
		}
	}
	for playerID, leader := range setup.Leaders {
		if raw, ok := room.Players.Get(playerID); ok {
			if p, ok := raw.(*game.Player); ok {
				cp := *p
				l := leader
				cp.Party.Leader = &l
				room.Players.Set(playerID, &cp)
			}
		}
	}

	if err := m.engine.StartGame(ctx, order); err != nil {
		return err
	}

	room.mu.Lock()
	room.started = true
	room.mu.Unlock()
	return nil
}

// Checksum computes the current state digest for a room, used to detect
// divergence between replicas.
func (m *Manager) Checksum(roomID string) (string, error) {
	room, ok := m.GetRoom(roomID)
	if !ok {
		return "", fmt.Errorf("room %s not found", roomID)
	}
	sum, err := game.TakeSnapshot(room.Context("")).ComputeChecksum()
	if err != nil {
		return "", err
	}
	return sum.Hash, nil
}
