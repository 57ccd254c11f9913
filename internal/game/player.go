package game

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/state"
)

// Party is the composite structure a player builds around their leader.
// Hero slots accept nil placeholders; insertion fills the first nil slot
// before appending a new one.
type Party struct {
	Leader *cards.Card   `json:"leader"`
	Heroes []*cards.Card `json:"heroes"`
}

// NewParty creates an empty party with the given minimum hero slot count.
func NewParty(minSlots int) Party {
	return Party{Heroes: make([]*cards.Card, minSlots)}
}

// Insert places a hero into the first nil slot, appending a new slot when
// every existing one is occupied.
func (p *Party) Insert(c cards.Card) {
	for i, slot := range p.Heroes {
		if slot == nil {
			hero := c
			p.Heroes[i] = &hero
			return
		}
	}
	hero := c
	p.Heroes = append(p.Heroes, &hero)
}

// partyWire is the gob form of a Party. Gob rejects nil elements inside
// slices, so empty hero slots travel as a zero Card plus an occupancy mask.
type partyWire struct {
	Leader    cards.Card
	HasLeader bool
	Slots     []cards.Card
	Filled    []bool
}

func (p Party) GobEncode() ([]byte, error) {
	w := partyWire{HasLeader: p.Leader != nil}
	if p.Leader != nil {
		w.Leader = *p.Leader
	}
	for _, h := range p.Heroes {
		if h == nil {
			w.Slots = append(w.Slots, cards.Card{})
			w.Filled = append(w.Filled, false)
		} else {
			w.Slots = append(w.Slots, *h)
			w.Filled = append(w.Filled, true)
		}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Party) GobDecode(data []byte) error {
	var w partyWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	p.Leader = nil
	if w.HasLeader {
		leader := w.Leader
		p.Leader = &leader
	}
	p.Heroes = make([]*cards.Card, len(w.Slots))
	for i, slot := range w.Slots {
		if w.Filled[i] {
			hero := slot
			p.Heroes[i] = &hero
		}
	}
	return nil
}

// Player is the engine's view of one participant. Ownership of cards is
// positional: whatever this struct holds belongs to this player.
type Player struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Hand         []cards.Card `json:"hand"`
	Deck         []cards.Card `json:"deck"`
	Party        Party        `json:"party"`
	ActionPoints int          `json:"action_points"`
}

// clone deep-copies the player so a failed move never leaves a half-mutated
// record behind in the shared map.
func (p *Player) clone() *Player {
	cp := *p
	cp.Hand = append([]cards.Card(nil), p.Hand...)
	cp.Deck = append([]cards.Card(nil), p.Deck...)
	cp.Party.Heroes = make([]*cards.Card, len(p.Party.Heroes))
	for i, h := range p.Party.Heroes {
		if h != nil {
			hero := *h
			cp.Party.Heroes[i] = &hero
		}
	}
	if p.Party.Leader != nil {
		leader := *p.Party.Leader
		cp.Party.Leader = &leader
	}
	return &cp
}

// GetPlayer loads a player record from the shared players map. Exposed for
// presentation layers projecting the read side of game state.
func GetPlayer(ctx state.Context, playerID string) (*Player, error) {
	return getPlayer(ctx, playerID)
}

// getPlayer loads a player record from the shared players map.
func getPlayer(ctx state.Context, playerID string) (*Player, error) {
	raw, ok := ctx.Players.Get(playerID)
	if !ok {
		return nil, fmt.Errorf("player %s not found", playerID)
	}
	p, ok := raw.(*Player)
	if !ok {
		return nil, fmt.Errorf("player %s has unexpected record type %T", playerID, raw)
	}
	return p, nil
}

// putPlayer writes a player record back to the shared players map.
func putPlayer(ctx state.Context, p *Player) {
	ctx.Players.Set(p.ID, p)
}

// playerOrder returns all player ids in ascending join order.
func playerOrder(ctx state.Context) []string {
	raw, ok := ctx.GameState.Get(keyPlayerOrder)
	if !ok {
		return nil
	}
	order, ok := raw.([]string)
	if !ok {
		return nil
	}
	return order
}

// otherPlayerIDs returns every player except the acting one, in join order.
func otherPlayerIDs(ctx state.Context) []string {
	var others []string
	for _, id := range playerOrder(ctx) {
		if id != ctx.PlayerID {
			others = append(others, id)
		}
	}
	return others
}
