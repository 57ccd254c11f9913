package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
)

// Standard action names. Card effects are authored in terms of these plus
// whatever extra handlers the hosting server registers.
const (
	ActionMoveCard    = "move_card"
	ActionDrawCard    = "draw_card"
	ActionDiscardCard = "discard_card"
	ActionRollDice    = "roll_dice"
	ActionModifyRoll  = "modify_roll"
	ActionEndTurn     = "end_turn"
)

// Parameter names shared by the built-in actions.
const (
	ParamSource      = "source"
	ParamDestination = "destination"
	ParamAmountName  = "amount"
	ParamMode        = "mode"
	ParamCardIDs     = "card-ids"
	ParamCardID      = "card-id"
	ParamDelta       = "delta"
)

func (e *Engine) registerBuiltins() {
	e.registry.Register(ActionMoveCard, Handler{
		Run:      e.runMoveCard,
		Callback: e.resumeMoveCard,
	})
	e.registry.Register(ActionDrawCard, Handler{Run: e.runDrawCard})
	e.registry.Register(ActionDiscardCard, Handler{
		Run:      e.runDiscardCard,
		Callback: e.resumeDiscardCard,
	})
	e.registry.Register(ActionRollDice, Handler{Run: e.runRollDice})
	e.registry.Register(ActionModifyRoll, Handler{Run: e.runModifyRoll})
	e.registry.Register(ActionEndTurn, Handler{Run: e.runEndTurn})
}

// movePipeline is the shared select-then-move path behind move_card and
// discard_card. A nil mode lets the heuristic pick one.
func (e *Engine) movePipeline(ctx state.Context, source, destination rules.Location, amount rules.Amount, mode *rules.SelectionMode) rules.ActionResult {
	chosen := e.DetermineSelectionMode(ctx, source, amount)
	if mode != nil {
		chosen = *mode
	}

	sel, err := e.Select(ctx, source, amount, chosen)
	if err != nil {
		return rules.Fail(err.Error())
	}
	if sel.NeedsInput != nil {
		return rules.ActionResult{
			Success:    false,
			Message:    sel.NeedsInput.Prompt,
			NeedsInput: sel.NeedsInput,
		}
	}
	if len(sel.CardIDs) == 0 {
		return rules.ActionResult{
			Success: true,
			Message: fmt.Sprintf("Moved 0 card(s) from %s to %s", source, destination),
			Data: map[string]any{
				"moved_card_ids": []string{},
				"count":          0,
				"source":         source.String(),
				"destination":    destination.String(),
			},
		}
	}

	result := e.MoveCards(ctx, source, destination, sel.CardIDs)
	if result.Success && sel.Note != "" {
		result.Message = fmt.Sprintf("%s (%s)", result.Message, sel.Note)
	}
	return result
}

func (e *Engine) runMoveCard(ctx state.Context, params rules.Params) rules.ActionResult {
	source, err := params.Location(ParamSource)
	if err != nil {
		return rules.Fail(err.Error())
	}
	destination, err := params.Location(ParamDestination)
	if err != nil {
		return rules.Fail(err.Error())
	}
	amount, err := params.Amount(ParamAmountName)
	if err != nil {
		return rules.Fail(err.Error())
	}

	var mode *rules.SelectionMode
	if params.HasSelectionMode(ParamMode) {
		m, _ := params.SelectionMode(ParamMode)
		mode = &m
	}
	return e.movePipeline(ctx, source, destination, amount, mode)
}

func (e *Engine) resumeMoveCard(ctx state.Context, params rules.Params, input rules.Param) rules.ActionResult {
	source, err := params.Location(ParamSource)
	if err != nil {
		return rules.Fail(err.Error())
	}
	destination, err := params.Location(ParamDestination)
	if err != nil {
		return rules.Fail(err.Error())
	}
	ids, err := cardIDsFromInput(input)
	if err != nil {
		return rules.Fail(err.Error())
	}
	return e.MoveCards(ctx, source, destination, ids)
}

func (e *Engine) runDrawCard(ctx state.Context, params rules.Params) rules.ActionResult {
	amount, err := params.Amount(ParamAmountName)
	if err != nil {
		amount, _ = rules.AmountOf(1)
	}
	first := rules.SelectionFirst
	return e.movePipeline(ctx, rules.LocationSupportDeck, rules.LocationOwnHand, amount, &first)
}

func (e *Engine) runDiscardCard(ctx state.Context, params rules.Params) rules.ActionResult {
	amount, err := params.Amount(ParamAmountName)
	if err != nil {
		return rules.Fail(err.Error())
	}
	return e.movePipeline(ctx, rules.LocationOwnHand, rules.LocationDiscardPile, amount, nil)
}

func (e *Engine) resumeDiscardCard(ctx state.Context, _ rules.Params, input rules.Param) rules.ActionResult {
	ids, err := cardIDsFromInput(input)
	if err != nil {
		return rules.Fail(err.Error())
	}
	return e.MoveCards(ctx, rules.LocationOwnHand, rules.LocationDiscardPile, ids)
}

func (e *Engine) runRollDice(ctx state.Context, _ rules.Params) rules.ActionResult {
	roll, err := e.roller.Roll(context.Background())
	if err != nil {
		return rules.Fail(fmt.Sprintf("dice service unavailable: %v", err))
	}

	delta := 0
	if turn, ok := loadTurn(ctx); ok {
		for _, mod := range turn.Modifiers {
			delta += mod.Delta
		}
	}
	total := roll + delta

	return rules.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Rolled %d (%+d from modifiers) = %d", roll, delta, total),
		Data: map[string]any{
			"roll":     roll,
			"delta":    delta,
			"modified": total,
		},
	}
}

func (e *Engine) runModifyRoll(ctx state.Context, params rules.Params) rules.ActionResult {
	cardID, err := params.String(ParamCardID)
	if err != nil {
		return rules.Fail(err.Error())
	}
	delta, err := params.Number(ParamDelta)
	if err != nil {
		return rules.Fail(err.Error())
	}

	turn, ok := loadTurn(ctx)
	if !ok {
		return rules.Fail("no active turn")
	}
	turn.Modifiers = append(turn.Modifiers, rules.RollModifier{CardID: cardID, Delta: delta})
	storeTurn(ctx, turn)

	return rules.Succeed(fmt.Sprintf("Roll modifier %+d added", delta))
}

func (e *Engine) runEndTurn(ctx state.Context, _ rules.Params) rules.ActionResult {
	turn, ok := loadTurn(ctx)
	if !ok {
		return rules.Fail("no active turn")
	}
	turn.ActionPoints = 0
	storeTurn(ctx, turn)
	return rules.Succeed(fmt.Sprintf("%s ended their turn", turn.PlayerID))
}

// cardIDsFromInput decodes a comma-separated id list supplied as
// resumption input.
func cardIDsFromInput(input rules.Param) (ids []string, err error) {
	if input.Value.Type != rules.ParamString {
		return nil, fmt.Errorf("input parameter %q must be a card id list", input.Name)
	}
	for _, id := range strings.Split(input.Value.String, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("input parameter %q names no cards", input.Name)
	}
	return ids, nil
}
