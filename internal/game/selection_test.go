package game

import (
	"testing"

	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(t *testing.T, n int) rules.Amount {
	t.Helper()
	a, err := rules.AmountOf(n)
	require.NoError(t, err)
	return a
}

func TestSelectFirstPicksFromEndOfList(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	setHand(ctx, "p1", testCard("c1"), testCard("c2"), testCard("c3"))

	sel, err := e.Select(ctx, rules.LocationOwnHand, amount(t, 2), rules.SelectionFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c2"}, sel.CardIDs)
	assert.Empty(t, sel.Note)
}

func TestSelectAllResolvesToCurrentSize(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	setHand(ctx, "p1", testCard("c1"), testCard("c2"))

	sel, err := e.Select(ctx, rules.LocationOwnHand, rules.AmountAll, rules.SelectionFirst)
	require.NoError(t, err)
	assert.Len(t, sel.CardIDs, 2)
}

func TestSelectZeroIsNoOp(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")

	sel, err := e.Select(ctx, rules.LocationOwnHand, amount(t, 0), rules.SelectionFirst)
	require.NoError(t, err)
	assert.Empty(t, sel.CardIDs)
	assert.Nil(t, sel.NeedsInput)
}

func TestSelectMoreThanAvailableTakesEverything(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	setPile(ctx, keySupportDeck, testCard("s1"), testCard("s2"))

	sel, err := e.Select(ctx, rules.LocationSupportDeck, amount(t, 5), rules.SelectionFirst)
	require.NoError(t, err)
	assert.Len(t, sel.CardIDs, 2)
	assert.Equal(t, "requested 5, but only 2 available", sel.Note)
}

func TestSelectFromEmptySourceFails(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")

	_, err := e.Select(ctx, rules.LocationOwnHand, amount(t, 1), rules.SelectionFirst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cards available")
}

func TestSelectDeferredModeRequestsInput(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	setHand(ctx, "p1", testCard("c1"), testCard("c2"))

	sel, err := e.Select(ctx, rules.LocationOwnHand, amount(t, 1), rules.SelectionDestinationOwner)
	require.NoError(t, err)
	require.NotNil(t, sel.NeedsInput)
	assert.Equal(t, "card-selection", sel.NeedsInput.Type)
	assert.Contains(t, sel.NeedsInput.Prompt, "Choose 1 card(s)")
	assert.Equal(t, int(rules.DefaultInputTimeout.Milliseconds()), sel.NeedsInput.TimeoutMs)
}

func TestSelectTargetOwnerPromptMentionsGivingUp(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	setHand(ctx, "p2", testCard("c1"))

	sel, err := e.Select(ctx, rules.LocationAnyHand, amount(t, 1), rules.SelectionTargetOwner)
	require.NoError(t, err)
	require.NotNil(t, sel.NeedsInput)
	assert.Contains(t, sel.NeedsInput.Prompt, "give up")
}

func TestDetermineSelectionModePrefersFirstWhenNothingToChoose(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	setHand(ctx, "p1", testCard("c1"), testCard("c2"))

	// Request meets availability: nothing meaningful to choose.
	assert.Equal(t, rules.SelectionFirst,
		e.DetermineSelectionMode(ctx, rules.LocationOwnHand, amount(t, 2)))
	assert.Equal(t, rules.SelectionFirst,
		e.DetermineSelectionMode(ctx, rules.LocationOwnHand, amount(t, 5)))
	assert.Equal(t, rules.SelectionFirst,
		e.DetermineSelectionMode(ctx, rules.LocationOwnHand, rules.AmountAll))

	// Fewer requested than available: the destination owner decides.
	assert.Equal(t, rules.SelectionDestinationOwner,
		e.DetermineSelectionMode(ctx, rules.LocationOwnHand, amount(t, 1)))
}

func TestDetermineSelectionModeSupportDeckAlwaysFirst(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	setPile(ctx, keySupportDeck, testCard("s1"), testCard("s2"), testCard("s3"))

	assert.Equal(t, rules.SelectionFirst,
		e.DetermineSelectionMode(ctx, rules.LocationSupportDeck, amount(t, 1)))
}
