package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
)

// ErrLocationNotFound is returned when a location cannot be resolved for
// the acting player, e.g. the player record is missing or no eligible
// other player exists.
var ErrLocationNotFound = errors.New("location not found")

// SlotLeader tags the party leader position in a flattened party view.
const SlotLeader = "leader"

// TaggedCard pairs a card with enough structural information for a view to
// reconstruct its backing shape from whatever subset survives a move.
type TaggedCard struct {
	Card    cards.Card
	Slot    string // "leader" or "hero-<i>" in party views, empty for flat lists
	OwnerID string // owning player in multi-owner views, empty for shared stacks
}

// ContainerView is the uniform read/write surface over one resolved
// location. The move executor and selection engine treat every location as
// "a list you can read and later overwrite" through this interface,
// regardless of the backing shape.
type ContainerView interface {
	Read() []TaggedCard
	Write(remaining []TaggedCard) error
}

// Resolver maps Location values to container views over the shared state.
type Resolver struct {
	minHeroSlots int
}

// NewResolver creates a resolver. minHeroSlots is the fixed minimum party
// slot count reconstruction must preserve.
func NewResolver(minHeroSlots int) *Resolver {
	return &Resolver{minHeroSlots: minHeroSlots}
}

// Resolve returns a view over the given location for the acting player in
// ctx. Own-scoped locations resolve against the acting player; Any/Other
// families resolve against every other player (the executor narrows Any
// moves to a single owner); shared locations resolve against the room's
// shared stacks.
func (r *Resolver) Resolve(ctx state.Context, loc rules.Location) (ContainerView, error) {
	switch loc {
	case rules.LocationOwnHand:
		if _, err := getPlayer(ctx, ctx.PlayerID); err != nil {
			return nil, ErrLocationNotFound
		}
		return &handView{ctx: ctx, ownerID: ctx.PlayerID}, nil

	case rules.LocationOwnDeck:
		if _, err := getPlayer(ctx, ctx.PlayerID); err != nil {
			return nil, ErrLocationNotFound
		}
		return &deckView{ctx: ctx, ownerID: ctx.PlayerID}, nil

	case rules.LocationOwnParty:
		if _, err := getPlayer(ctx, ctx.PlayerID); err != nil {
			return nil, ErrLocationNotFound
		}
		return &partyView{ctx: ctx, ownerID: ctx.PlayerID, minSlots: r.minHeroSlots}, nil

	case rules.LocationAnyHand, rules.LocationOtherHands:
		others := otherPlayerIDs(ctx)
		if len(others) == 0 {
			return nil, ErrLocationNotFound
		}
		return &aggregateView{ctx: ctx, owners: others, party: false, minSlots: r.minHeroSlots}, nil

	case rules.LocationAnyParty, rules.LocationOtherParties:
		others := otherPlayerIDs(ctx)
		if len(others) == 0 {
			return nil, ErrLocationNotFound
		}
		return &aggregateView{ctx: ctx, owners: others, party: true, minSlots: r.minHeroSlots}, nil

	case rules.LocationSupportDeck, rules.LocationCache, rules.LocationDiscardPile,
		rules.LocationMonsterPile, rules.LocationSlainMonsterPile:
		return &sharedView{ctx: ctx, key: sharedKey(loc)}, nil
	}
	return nil, fmt.Errorf("unsupported location %s", loc)
}

func sharedKey(loc rules.Location) string {
	switch loc {
	case rules.LocationSupportDeck:
		return keySupportDeck
	case rules.LocationCache:
		return keyCache
	case rules.LocationDiscardPile:
		return keyDiscardPile
	case rules.LocationMonsterPile:
		return keyMonsterPile
	case rules.LocationSlainMonsterPile:
		return keySlainMonsterPile
	}
	return ""
}

// handView reads and rewrites one player's hand.
type handView struct {
	ctx     state.Context
	ownerID string
}

func (v *handView) Read() []TaggedCard {
	p, err := getPlayer(v.ctx, v.ownerID)
	if err != nil {
		return nil
	}
	items := make([]TaggedCard, len(p.Hand))
	for i, c := range p.Hand {
		items[i] = TaggedCard{Card: c, OwnerID: v.ownerID}
	}
	return items
}

func (v *handView) Write(remaining []TaggedCard) error {
	p, err := getPlayer(v.ctx, v.ownerID)
	if err != nil {
		return err
	}
	cp := p.clone()
	cp.Hand = untag(remaining)
	putPlayer(v.ctx, cp)
	return nil
}

// deckView reads and rewrites one player's personal deck.
type deckView struct {
	ctx     state.Context
	ownerID string
}

func (v *deckView) Read() []TaggedCard {
	p, err := getPlayer(v.ctx, v.ownerID)
	if err != nil {
		return nil
	}
	items := make([]TaggedCard, len(p.Deck))
	for i, c := range p.Deck {
		items[i] = TaggedCard{Card: c, OwnerID: v.ownerID}
	}
	return items
}

func (v *deckView) Write(remaining []TaggedCard) error {
	p, err := getPlayer(v.ctx, v.ownerID)
	if err != nil {
		return err
	}
	cp := p.clone()
	cp.Deck = untag(remaining)
	putPlayer(v.ctx, cp)
	return nil
}

// partyView flattens a leader+heroes composite into a tagged list and
// reconstructs the composite on write. Hero slots that lose their card
// become nil placeholders; the slot count never shrinks.
type partyView struct {
	ctx      state.Context
	ownerID  string
	minSlots int
}

func heroSlot(i int) string {
	return "hero-" + strconv.Itoa(i)
}

func (v *partyView) Read() []TaggedCard {
	p, err := getPlayer(v.ctx, v.ownerID)
	if err != nil {
		return nil
	}
	var items []TaggedCard
	if p.Party.Leader != nil {
		items = append(items, TaggedCard{Card: *p.Party.Leader, Slot: SlotLeader, OwnerID: v.ownerID})
	}
	for i, h := range p.Party.Heroes {
		if h != nil {
			items = append(items, TaggedCard{Card: *h, Slot: heroSlot(i), OwnerID: v.ownerID})
		}
	}
	return items
}

func (v *partyView) Write(remaining []TaggedCard) error {
	p, err := getPlayer(v.ctx, v.ownerID)
	if err != nil {
		return err
	}
	cp := p.clone()

	slots := len(cp.Party.Heroes)
	if slots < v.minSlots {
		slots = v.minSlots
	}
	party := Party{Heroes: make([]*cards.Card, slots)}

	var loose []cards.Card
	for _, item := range remaining {
		switch {
		case item.Slot == SlotLeader:
			leader := item.Card
			party.Leader = &leader
		case strings.HasPrefix(item.Slot, "hero-"):
			idx, err := strconv.Atoi(strings.TrimPrefix(item.Slot, "hero-"))
			if err != nil || idx < 0 {
				loose = append(loose, item.Card)
				continue
			}
			for idx >= len(party.Heroes) {
				party.Heroes = append(party.Heroes, nil)
			}
			hero := item.Card
			party.Heroes[idx] = &hero
		default:
			loose = append(loose, item.Card)
		}
	}
	// Cards arriving without a structural tag take the first open slot.
	for _, c := range loose {
		party.Insert(c)
	}

	cp.Party = party
	putPlayer(v.ctx, cp)
	return nil
}

// sharedView reads and replaces a shared stack verbatim.
type sharedView struct {
	ctx state.Context
	key string
}

func (v *sharedView) Read() []TaggedCard {
	items := make([]TaggedCard, 0)
	for _, c := range sharedPile(v.ctx, v.key) {
		items = append(items, TaggedCard{Card: c})
	}
	return items
}

func (v *sharedView) Write(remaining []TaggedCard) error {
	v.ctx.GameState.Set(v.key, untag(remaining))
	return nil
}

// aggregateView unions every other player's hand or party into one list,
// each card tagged with its owning player. Write regroups by owner and
// commits each owner's container independently.
type aggregateView struct {
	ctx      state.Context
	owners   []string
	party    bool
	minSlots int
}

func (v *aggregateView) subview(ownerID string) ContainerView {
	if v.party {
		return &partyView{ctx: v.ctx, ownerID: ownerID, minSlots: v.minSlots}
	}
	return &handView{ctx: v.ctx, ownerID: ownerID}
}

func (v *aggregateView) Read() []TaggedCard {
	var items []TaggedCard
	for _, owner := range v.owners {
		items = append(items, v.subview(owner).Read()...)
	}
	return items
}

func (v *aggregateView) Write(remaining []TaggedCard) error {
	byOwner := make(map[string][]TaggedCard, len(v.owners))
	for _, item := range remaining {
		byOwner[item.OwnerID] = append(byOwner[item.OwnerID], item)
	}
	for _, owner := range v.owners {
		if err := v.subview(owner).Write(byOwner[owner]); err != nil {
			return err
		}
	}
	return nil
}

func untag(items []TaggedCard) []cards.Card {
	out := make([]cards.Card, len(items))
	for i, item := range items {
		out[i] = item.Card
	}
	return out
}

// sharedPile loads a shared stack from the game-state map.
func sharedPile(ctx state.Context, key string) []cards.Card {
	raw, ok := ctx.GameState.Get(key)
	if !ok {
		return nil
	}
	pile, ok := raw.([]cards.Card)
	if !ok {
		return nil
	}
	return pile
}
