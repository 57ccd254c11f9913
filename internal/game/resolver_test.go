package game

import (
	"testing"

	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyViewFlattensLeaderAndHeroes(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")

	p, err := getPlayer(ctx, "p1")
	require.NoError(t, err)
	cp := p.clone()
	leader := testCard("leader-1")
	h0, h2 := testCard("h0"), testCard("h2")
	cp.Party.Leader = &leader
	cp.Party.Heroes = []*cards.Card{&h0, nil, &h2}
	putPlayer(ctx, cp)

	view, err := e.resolver.Resolve(ctx, rules.LocationOwnParty)
	require.NoError(t, err)

	items := view.Read()
	require.Len(t, items, 3)
	assert.Equal(t, SlotLeader, items[0].Slot)
	assert.Equal(t, "leader-1", items[0].Card.ID)
	assert.Equal(t, "hero-0", items[1].Slot)
	assert.Equal(t, "hero-2", items[2].Slot)
	assert.Equal(t, "p1", items[0].OwnerID)
}

func TestPartyViewWriteReconstructsComposite(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")

	p, err := getPlayer(ctx, "p1")
	require.NoError(t, err)
	cp := p.clone()
	leader := testCard("leader-1")
	h0, h1 := testCard("h0"), testCard("h1")
	cp.Party.Leader = &leader
	cp.Party.Heroes = []*cards.Card{&h0, &h1, nil}
	putPlayer(ctx, cp)

	view, err := e.resolver.Resolve(ctx, rules.LocationOwnParty)
	require.NoError(t, err)
	items := view.Read()

	// Drop hero-0, keep the leader and hero-1.
	var remaining []TaggedCard
	for _, item := range items {
		if item.Card.ID != "h0" {
			remaining = append(remaining, item)
		}
	}
	require.NoError(t, view.Write(remaining))

	p, err = getPlayer(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p.Party.Leader)
	assert.Equal(t, "leader-1", p.Party.Leader.ID)
	assert.Nil(t, p.Party.Heroes[0])
	require.NotNil(t, p.Party.Heroes[1])
	assert.Equal(t, "h1", p.Party.Heroes[1].ID)
	assert.Len(t, p.Party.Heroes, 3)
}

func TestPartyViewWriteUntaggedCardTakesFirstOpenSlot(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	h1 := testCard("h1")
	setPartyHeroes(ctx, "p1", nil, &h1, nil)

	view, err := e.resolver.Resolve(ctx, rules.LocationOwnParty)
	require.NoError(t, err)
	items := view.Read()
	items = append(items, TaggedCard{Card: testCard("new"), OwnerID: "p1"})
	require.NoError(t, view.Write(items))

	p, err := getPlayer(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p.Party.Heroes[0])
	assert.Equal(t, "new", p.Party.Heroes[0].ID)
}

func TestAggregateViewTagsOwners(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("a", "b", "c")
	setHand(ctx, "b", testCard("b1"))
	setHand(ctx, "c", testCard("c1"), testCard("c2"))

	view, err := e.resolver.Resolve(ctx, rules.LocationOtherHands)
	require.NoError(t, err)

	items := view.Read()
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].OwnerID)
	assert.Equal(t, "c", items[1].OwnerID)
	assert.Equal(t, "c", items[2].OwnerID)
}

func TestAggregateViewWriteRegroupsByOwner(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("a", "b", "c")
	setHand(ctx, "b", testCard("b1"), testCard("b2"))
	setHand(ctx, "c", testCard("c1"))

	view, err := e.resolver.Resolve(ctx, rules.LocationOtherHands)
	require.NoError(t, err)
	items := view.Read()

	// Remove b2 and c1, keep b1.
	var remaining []TaggedCard
	for _, item := range items {
		if item.Card.ID == "b1" {
			remaining = append(remaining, item)
		}
	}
	require.NoError(t, view.Write(remaining))

	assert.Equal(t, []string{"b1"}, handIDs(ctx, "b"))
	assert.Empty(t, handIDs(ctx, "c"))
}

func TestResolveSharedLocationVerbatim(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	setPile(ctx, keyDiscardPile, testCard("d1"), testCard("d2"))

	view, err := e.resolver.Resolve(ctx, rules.LocationDiscardPile)
	require.NoError(t, err)
	items := view.Read()
	require.Len(t, items, 2)
	assert.Equal(t, "d1", items[0].Card.ID)

	require.NoError(t, view.Write(items[:1]))
	assert.Equal(t, []string{"d1"}, cards.IDs(sharedPile(ctx, keyDiscardPile)))
}

func TestResolveNotFoundForMissingActingPlayer(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	ctx.PlayerID = "ghost"

	_, err := e.resolver.Resolve(ctx, rules.LocationOwnHand)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestResolveNotFoundWithNoOtherPlayers(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1")

	for _, loc := range []rules.Location{
		rules.LocationAnyHand, rules.LocationAnyParty,
		rules.LocationOtherHands, rules.LocationOtherParties,
	} {
		_, err := e.resolver.Resolve(ctx, loc)
		assert.ErrorIs(t, err, ErrLocationNotFound, loc.String())
	}
}

func TestResolveOwnDeck(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	p, err := getPlayer(ctx, "p1")
	require.NoError(t, err)
	cp := p.clone()
	cp.Deck = []cards.Card{testCard("d1")}
	putPlayer(ctx, cp)

	view, err := e.resolver.Resolve(ctx, rules.LocationOwnDeck)
	require.NoError(t, err)
	items := view.Read()
	require.Len(t, items, 1)
	assert.Equal(t, "d1", items[0].Card.ID)
}
