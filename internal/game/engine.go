// Package game implements the card game rules engine: location resolution,
// selection, card movement, and the per-turn action queue, all against a
// replicated per-room key/value document.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slayloop/party-server-go/internal/dice"
	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
	"go.uber.org/zap"
)

// Config tunes the engine's fixed game parameters.
type Config struct {
	ActionPointsPerTurn int
	MinHeroSlots        int
	InputTimeout        time.Duration
}

// DefaultConfig returns the reference game's tuning.
func DefaultConfig() Config {
	return Config{
		ActionPointsPerTurn: 3,
		MinHeroSlots:        3,
		InputTimeout:        rules.DefaultInputTimeout,
	}
}

func (c Config) withDefaults() Config {
	if c.ActionPointsPerTurn <= 0 {
		c.ActionPointsPerTurn = 3
	}
	if c.MinHeroSlots <= 0 {
		c.MinHeroSlots = 3
	}
	if c.InputTimeout <= 0 {
		c.InputTimeout = rules.DefaultInputTimeout
	}
	return c
}

// Engine is the rules engine. It owns no room state: every entry point
// takes a state.Context carrying the handles for one room.
type Engine struct {
	logger   *zap.Logger
	cfg      Config
	registry *Registry
	resolver *Resolver
	roller   dice.Roller

	now   func() time.Time
	newID func() string
}

// NewEngine creates an engine with the built-in action vocabulary
// registered. A nil roller falls back to the pseudo-random default.
func NewEngine(cfg Config, roller dice.Roller, logger *zap.Logger) *Engine {
	cfg = cfg.withDefaults()
	if roller == nil {
		roller = dice.NewPseudoRoller(time.Now().UnixNano())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:   logger,
		cfg:      cfg,
		registry: NewRegistry(),
		resolver: NewResolver(cfg.MinHeroSlots),
		roller:   roller,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	e.registerBuiltins()
	return e
}

// Registry exposes the action registry so effect authors can add handlers.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Config returns the engine's tuning.
func (e *Engine) Config() Config {
	return e.cfg
}

// StartGame initializes a room's game state: join order, empty shared
// stacks where none were seeded, and the first turn for the first player.
func (e *Engine) StartGame(ctx state.Context, playerIDs []string) error {
	if len(playerIDs) == 0 {
		return fmt.Errorf("cannot start game with no players")
	}
	for _, id := range playerIDs {
		if _, err := getPlayer(ctx, id); err != nil {
			return fmt.Errorf("starting game: %w", err)
		}
	}

	ctx.GameState.Set(keyPlayerOrder, append([]string(nil), playerIDs...))
	for _, key := range []string{keySupportDeck, keyCache, keyDiscardPile, keyMonsterPile, keySlainMonsterPile} {
		if _, ok := ctx.GameState.Get(key); !ok {
			ctx.GameState.Set(key, []cards.Card{})
		}
	}

	first := playerIDs[0]
	if p, err := getPlayer(ctx, first); err == nil {
		cp := p.clone()
		cp.ActionPoints = e.cfg.ActionPointsPerTurn
		putPlayer(ctx, cp)
	}
	storeTurn(ctx, rules.NewTurn(first, e.cfg.ActionPointsPerTurn))

	e.logger.Info("game started",
		zap.String("room_id", ctx.RoomID),
		zap.Strings("players", playerIDs),
	)
	return nil
}

// PlayCard spends one action point and queues the card's effect actions.
// The card itself has already been placed by whatever effect moves it; this
// entry point only drives the turn economy and the queue.
func (e *Engine) PlayCard(ctx state.Context, cardID string, effects []rules.Action) rules.ActionResult {
	turn, ok := loadTurn(ctx)
	if !ok {
		return rules.Fail("no active turn")
	}
	if ctx.PlayerID != turn.PlayerID {
		return rules.Fail(fmt.Sprintf("it is not %s's turn", ctx.PlayerID))
	}
	if turn.ActionPoints <= 0 {
		return rules.Fail("insufficient action points")
	}

	turn.ActionPoints--
	turn.PlayedCards = append(turn.PlayedCards, cardID)
	storeTurn(ctx, turn)
	if p, err := getPlayer(ctx, turn.PlayerID); err == nil {
		cp := p.clone()
		cp.ActionPoints = turn.ActionPoints
		putPlayer(ctx, cp)
	}

	e.logger.Debug("card played",
		zap.String("room_id", ctx.RoomID),
		zap.String("player_id", ctx.PlayerID),
		zap.String("card_id", cardID),
		zap.Int("action_points_left", turn.ActionPoints),
	)

	if len(effects) == 0 {
		return e.processQueue(ctx, nil)
	}
	return e.AddActionsToQueue(ctx, effects)
}

// ActiveTurn returns the current turn record, if a game is running.
func (e *Engine) ActiveTurn(ctx state.Context) (*rules.Turn, bool) {
	return loadTurn(ctx)
}
