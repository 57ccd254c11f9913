package game

import (
	"fmt"
	"time"

	"github.com/slayloop/party-server-go/internal/dice"
	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
	"go.uber.org/zap"
)

// newTestEngine builds an engine with deterministic ids, a fixed clock and
// a fixed dice roller.
func newTestEngine() *Engine {
	e := NewEngine(DefaultConfig(), dice.FixedRoller{Result: 7}, zap.NewNop())
	n := 0
	e.newID = func() string {
		n++
		return fmt.Sprintf("action-%d", n)
	}
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	return e
}

// advanceClock shifts the engine's fixed clock forward.
func advanceClock(e *Engine, d time.Duration) {
	prev := e.now()
	e.now = func() time.Time { return prev.Add(d) }
}

// newTestContext builds a room with the given players, acting as the first.
func newTestContext(playerIDs ...string) state.Context {
	players := state.NewMemoryMap()
	gs := state.NewMemoryMap()
	for _, id := range playerIDs {
		players.Set(id, &Player{
			ID:    id,
			Name:  "Player " + id,
			Hand:  []cards.Card{},
			Deck:  []cards.Card{},
			Party: NewParty(3),
		})
	}
	gs.Set(keyPlayerOrder, append([]string(nil), playerIDs...))
	for _, key := range []string{keySupportDeck, keyCache, keyDiscardPile, keyMonsterPile, keySlainMonsterPile} {
		gs.Set(key, []cards.Card{})
	}
	return state.Context{
		RoomID:    "room-1",
		PlayerID:  playerIDs[0],
		Players:   players,
		GameState: gs,
	}
}

func testCard(id string) cards.Card {
	return cards.Card{ID: id, Name: "Card " + id, Type: cards.TypeHero, Class: "fighter"}
}

func setHand(ctx state.Context, playerID string, cs ...cards.Card) {
	p, err := getPlayer(ctx, playerID)
	if err != nil {
		panic(err)
	}
	cp := p.clone()
	cp.Hand = append([]cards.Card{}, cs...)
	putPlayer(ctx, cp)
}

func setPartyHeroes(ctx state.Context, playerID string, heroes ...*cards.Card) {
	p, err := getPlayer(ctx, playerID)
	if err != nil {
		panic(err)
	}
	cp := p.clone()
	cp.Party.Heroes = heroes
	putPlayer(ctx, cp)
}

func setPile(ctx state.Context, key string, cs ...cards.Card) {
	ctx.GameState.Set(key, append([]cards.Card{}, cs...))
}

func startTurn(ctx state.Context, e *Engine, playerID string, points int) {
	storeTurn(ctx, &rules.Turn{
		PlayerID:     playerID,
		ActionPoints: points,
		Queue:        []rules.Action{},
		PlayedCards:  []string{},
		Modifiers:    []rules.RollModifier{},
	})
}

func handIDs(ctx state.Context, playerID string) []string {
	p, err := getPlayer(ctx, playerID)
	if err != nil {
		return nil
	}
	return cards.IDs(p.Hand)
}

func checksum(ctx state.Context) string {
	sum, err := TakeSnapshot(ctx).ComputeChecksum()
	if err != nil {
		panic(err)
	}
	return sum.Hash
}
