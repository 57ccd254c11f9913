package server

import (
	"encoding/json"

	"github.com/slayloop/party-server-go/internal/game"
	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
	"github.com/slayloop/party-server-go/internal/room"
)

// PlayerView is the read-side projection of one player.
type PlayerView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Hand         []cards.Card `json:"hand"`
	HandCount    int          `json:"hand_count"`
	Party        game.Party   `json:"party"`
	ActionPoints int          `json:"action_points"`
	Won          bool         `json:"won"`
}

// StatusView mirrors the engine's status record for clients.
type StatusView struct {
	Key         string `json:"key"`
	Message     string `json:"message"`
	TimeoutMs   int64  `json:"timeout_ms,omitempty"`
	RemainingMs int64  `json:"remaining_ms,omitempty"`
}

// RoomStateView is the full display-oriented room snapshot sent to clients.
type RoomStateView struct {
	RoomID           string       `json:"room_id"`
	Players          []PlayerView `json:"players"`
	Turn             *rules.Turn  `json:"turn,omitempty"`
	Status           *StatusView  `json:"status,omitempty"`
	SupportDeckCount int          `json:"support_deck_count"`
	MonsterPileCount int          `json:"monster_pile_count"`
	Cache            []cards.Card `json:"cache"`
	DiscardPile      []cards.Card `json:"discard_pile"`
	SlainMonsters    []cards.Card `json:"slain_monsters"`
}

// winningPartySize is the distinct-class hero count that ends the game in
// the reference rules.
const winningPartySize = 6

func viewPlayer(ctx state.Context, id string) *PlayerView {
	p, err := game.GetPlayer(ctx, id)
	if err != nil {
		return nil
	}

	classes := make(map[string]bool)
	for _, h := range p.Party.Heroes {
		if h != nil {
			classes[h.Class] = true
		}
	}

	return &PlayerView{
		ID:           p.ID,
		Name:         p.Name,
		Hand:         p.Hand,
		HandCount:    len(p.Hand),
		Party:        p.Party,
		ActionPoints: p.ActionPoints,
		Won:          len(classes) >= winningPartySize,
	}
}

func stateMessage(e *game.Engine, r *room.Room) Message {
	ctx := r.Context("")

	view := RoomStateView{
		RoomID:           r.ID,
		SupportDeckCount: len(game.SharedPile(ctx, rules.LocationSupportDeck)),
		MonsterPileCount: len(game.SharedPile(ctx, rules.LocationMonsterPile)),
		Cache:            game.SharedPile(ctx, rules.LocationCache),
		DiscardPile:      game.SharedPile(ctx, rules.LocationDiscardPile),
		SlainMonsters:    game.SharedPile(ctx, rules.LocationSlainMonsterPile),
	}

	for _, id := range r.JoinOrder() {
		if pv := viewPlayer(ctx, id); pv != nil {
			view.Players = append(view.Players, *pv)
		}
	}
	if turn, ok := e.ActiveTurn(ctx); ok {
		view.Turn = turn
	}
	if status, ok := e.CurrentStatus(ctx); ok {
		view.Status = &StatusView{
			Key:         status.Key,
			Message:     status.Message,
			TimeoutMs:   status.Timeout.Milliseconds(),
			RemainingMs: e.TimeRemaining(ctx).Milliseconds(),
		}
	}

	data, _ := json.Marshal(view)
	return Message{Type: "room_state", RoomID: r.ID, Data: data}
}
