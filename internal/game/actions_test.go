package game

import (
	"testing"

	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawCardOverdrawTakesAllAvailable(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)
	setPile(ctx, keySupportDeck, testCard("s1"), testCard("s2"))

	result := e.AddActionsToQueue(ctx, []rules.Action{{
		Name:   ActionDrawCard,
		Params: rules.Params{rules.AmountParam(ParamAmountName, amount(t, 5))},
	}})

	require.True(t, result.Success, result.Message)
	assert.Contains(t, result.Message, "requested 5, but only 2 available")
	assert.Len(t, handIDs(ctx, "p1"), 2)
	assert.Empty(t, sharedPile(ctx, keySupportDeck))
}

func TestMoveCardActionAmountZeroIsNoOp(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)
	setHand(ctx, "p1", testCard("c1"))

	before := checksum(ctx)
	result := e.AddActionsToQueue(ctx, []rules.Action{{
		Name: ActionMoveCard,
		Params: rules.Params{
			rules.LocationParam(ParamSource, rules.LocationOwnHand),
			rules.LocationParam(ParamDestination, rules.LocationCache),
			rules.AmountParam(ParamAmountName, amount(t, 0)),
		},
	}})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, before, checksum(ctx))
}

func TestMoveCardActionDefersToOwnerThenResumes(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)
	setHand(ctx, "p1", testCard("c1"), testCard("c2"), testCard("c3"))

	// One of three: the heuristic defers to the destination owner.
	result := e.AddActionsToQueue(ctx, []rules.Action{{
		Name: ActionMoveCard,
		Params: rules.Params{
			rules.LocationParam(ParamSource, rules.LocationOwnHand),
			rules.LocationParam(ParamDestination, rules.LocationDiscardPile),
			rules.AmountParam(ParamAmountName, amount(t, 1)),
		},
	}})
	require.False(t, result.Success)
	require.NotNil(t, result.NeedsInput)
	actionID := result.Data["action_id"].(string)

	resumed := e.ProvideActionInput(ctx, actionID, rules.StringParam("user-input", "c2"))
	require.True(t, resumed.Success, resumed.Message)
	assert.Equal(t, []string{"c1", "c3"}, handIDs(ctx, "p1"))
	assert.Len(t, sharedPile(ctx, keyDiscardPile), 1)
}

func TestMoveCardActionExplicitFirstMode(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)
	setHand(ctx, "p1", testCard("c1"), testCard("c2"), testCard("c3"))

	result := e.AddActionsToQueue(ctx, []rules.Action{{
		Name: ActionMoveCard,
		Params: rules.Params{
			rules.LocationParam(ParamSource, rules.LocationOwnHand),
			rules.LocationParam(ParamDestination, rules.LocationCache),
			rules.AmountParam(ParamAmountName, amount(t, 1)),
			rules.SelectionModeParam(ParamMode, rules.SelectionFirst),
		},
	}})

	require.True(t, result.Success, result.Message)
	// First picks from the end of the hand.
	assert.Equal(t, []string{"c1", "c2"}, handIDs(ctx, "p1"))
}

func TestDiscardCardResumesViaCallback(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)
	setHand(ctx, "p1", testCard("c1"), testCard("c2"))

	result := e.AddActionsToQueue(ctx, []rules.Action{{
		Name:   ActionDiscardCard,
		Params: rules.Params{rules.AmountParam(ParamAmountName, amount(t, 1))},
	}})
	require.False(t, result.Success)
	require.NotNil(t, result.NeedsInput)
	actionID := result.Data["action_id"].(string)

	resumed := e.ProvideActionInput(ctx, actionID, rules.StringParam("user-input", "c1"))
	require.True(t, resumed.Success, resumed.Message)
	assert.Equal(t, []string{"c2"}, handIDs(ctx, "p1"))
}

func TestRollDiceAppliesModifiers(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)

	result := e.AddActionsToQueue(ctx, []rules.Action{
		{
			Name: ActionModifyRoll,
			Params: rules.Params{
				rules.StringParam(ParamCardID, "mod-1"),
				rules.NumberParam(ParamDelta, 2),
			},
		},
		{
			Name: ActionModifyRoll,
			Params: rules.Params{
				rules.StringParam(ParamCardID, "mod-2"),
				rules.NumberParam(ParamDelta, -1),
			},
		},
		{Name: ActionRollDice},
	})

	require.True(t, result.Success, result.Message)

	turn, ok := loadTurn(ctx)
	require.True(t, ok)
	assert.Len(t, turn.Modifiers, 2)
}

func TestRollDiceResult(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)

	result := e.runRollDice(ctx, nil)
	require.True(t, result.Success)
	assert.Equal(t, 7, result.Data["roll"])
	assert.Equal(t, 7, result.Data["modified"])
}

func TestEndTurnDrainsPointsAndAdvances(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)

	result := e.AddActionsToQueue(ctx, []rules.Action{{Name: ActionEndTurn}})
	require.True(t, result.Success, result.Message)

	turn, ok := loadTurn(ctx)
	require.True(t, ok)
	assert.Equal(t, "p2", turn.PlayerID)
	assert.Equal(t, 3, turn.ActionPoints)
}

func TestDrawCardFromEmptyDeckFails(t *testing.T) {
	e := newTestEngine()
	ctx := newTestContext("p1", "p2")
	startTurn(ctx, e, "p1", 3)

	result := e.AddActionsToQueue(ctx, []rules.Action{{
		Name:   ActionDrawCard,
		Params: rules.Params{rules.AmountParam(ParamAmountName, amount(t, 1))},
	}})

	require.False(t, result.Success)
	assert.Contains(t, result.Message, "no cards available")
}
