package game

import (
	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
)

// Keys into the per-room game-state map. Everything the engine mutates
// lives under one of these.
const (
	keyTurn        = "turn"
	keyPlayerOrder = "player-order"
	keyStatus      = "status"

	keySupportDeck      = "support-deck"
	keyCache            = "cache"
	keyDiscardPile      = "discard-pile"
	keyMonsterPile      = "monster-pile"
	keySlainMonsterPile = "slain-monster-pile"
)

// SeedSupportDeck replaces the shared support deck, used during game setup.
func SeedSupportDeck(ctx state.Context, pile []cards.Card) {
	ctx.GameState.Set(keySupportDeck, append([]cards.Card(nil), pile...))
}

// SeedMonsterPile replaces the shared monster pile, used during game setup.
func SeedMonsterPile(ctx state.Context, pile []cards.Card) {
	ctx.GameState.Set(keyMonsterPile, append([]cards.Card(nil), pile...))
}

// SharedPile returns a copy of the shared stack behind a shared location.
func SharedPile(ctx state.Context, loc rules.Location) []cards.Card {
	key := sharedKey(loc)
	if key == "" {
		return nil
	}
	return append([]cards.Card(nil), sharedPile(ctx, key)...)
}
