package game

import (
	"fmt"

	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
	"go.uber.org/zap"
)

// loadTurn fetches the active turn record, if any.
func loadTurn(ctx state.Context) (*rules.Turn, bool) {
	raw, ok := ctx.GameState.Get(keyTurn)
	if !ok {
		return nil, false
	}
	turn, ok := raw.(*rules.Turn)
	return turn, ok
}

func storeTurn(ctx state.Context, turn *rules.Turn) {
	ctx.GameState.Set(keyTurn, turn)
}

// AddActionsToQueue appends the given actions to the active turn's queue
// and immediately processes it. Only the turn's player may enqueue.
func (e *Engine) AddActionsToQueue(ctx state.Context, actions []rules.Action) rules.ActionResult {
	turn, ok := loadTurn(ctx)
	if !ok {
		return rules.Fail("no active turn")
	}
	if ctx.PlayerID != turn.PlayerID {
		return rules.Fail(fmt.Sprintf("it is not %s's turn", ctx.PlayerID))
	}

	for i := range actions {
		if actions[i].ID == "" {
			actions[i].ID = e.newID()
		}
		actions[i].State = rules.ActionStatePending
		actions[i].TimeoutAt = nil
	}
	turn.Queue = append(turn.Queue, actions...)
	storeTurn(ctx, turn)

	return e.processQueue(ctx, nil)
}

// ProcessActionQueue runs the active turn's queue from the head. Exposed
// for callers that mutated the queue out of band.
func (e *Engine) ProcessActionQueue(ctx state.Context) rules.ActionResult {
	return e.processQueue(ctx, nil)
}

// processQueue is the sequential, fail-fast queue loop. Actions execute
// strictly FIFO with at most one in flight; an action leaves the queue only
// after reporting success. resumeInput, when non-nil, routes the head
// action through its callback instead of its run function.
//
// The loop never runs concurrently for one turn: every entry point executes
// on the room's single mutation path.
func (e *Engine) processQueue(ctx state.Context, resumeInput *rules.Param) rules.ActionResult {
	turn, ok := loadTurn(ctx)
	if !ok {
		return rules.Fail("no active turn")
	}

	processed := 0
	var last rules.ActionResult
	for len(turn.Queue) > 0 {
		head := turn.Queue[0]

		if head.State == rules.ActionStateWaitingForInput && resumeInput == nil {
			// Suspended mid-queue; a later ProvideActionInput call resumes.
			return rules.ActionResult{
				Success: true,
				Message: fmt.Sprintf("action %s is waiting for input", head.Name),
				Data:    map[string]any{"actions_processed": processed},
			}
		}

		handler, ok := e.registry.Get(head.Name)
		if !ok {
			return rules.ActionResult{
				Success: false,
				Message: fmt.Sprintf("unknown action %q", head.Name),
				Data:    map[string]any{"actions_processed": processed},
			}
		}

		// Actions always execute as the turn's player.
		runCtx := ctx.ForPlayer(turn.PlayerID)

		var result rules.ActionResult
		if resumeInput != nil {
			input := *resumeInput
			resumeInput = nil
			if handler.Callback != nil {
				result = handler.Callback(runCtx, head.Params, input)
			} else {
				result = handler.Run(runCtx, head.Params)
			}
		} else {
			result = handler.Run(runCtx, head.Params)
		}

		if result.NeedsInput != nil {
			timeout := result.NeedsInput.Timeout()
			at := e.now().Add(timeout)
			turn.Queue[0].State = rules.ActionStateWaitingForInput
			turn.Queue[0].TimeoutAt = &at
			storeTurn(ctx, turn)
			e.SetStatus(ctx, head.Name, result.NeedsInput.Prompt, true, timeout)

			e.logger.Debug("action suspended for input",
				zap.String("room_id", ctx.RoomID),
				zap.String("action", head.Name),
				zap.String("action_id", head.ID),
			)

			if result.Data == nil {
				result.Data = map[string]any{}
			}
			result.Data["actions_processed"] = processed
			result.Data["action_id"] = head.ID
			return result
		}

		if !result.Success {
			if result.Data == nil {
				result.Data = map[string]any{}
			}
			result.Data["actions_processed"] = processed
			e.logger.Debug("action failed, queue halted",
				zap.String("room_id", ctx.RoomID),
				zap.String("action", head.Name),
				zap.String("message", result.Message),
				zap.Int("actions_processed", processed),
			)
			return result
		}

		turn.Queue = turn.Queue[1:]
		storeTurn(ctx, turn)
		processed++
		last = result
	}

	if turn.ActionPoints <= 0 {
		e.advanceTurn(ctx, turn)
	}

	// The last action's message is the interesting one for callers; the
	// processed count rides along in Data.
	final := rules.ActionResult{
		Success: true,
		Message: fmt.Sprintf("processed %d action(s)", processed),
	}
	if processed > 0 && last.Message != "" {
		final.Message = last.Message
		final.Data = last.Data
	}
	if final.Data == nil {
		final.Data = map[string]any{}
	}
	final.Data["actions_processed"] = processed
	return final
}

// ProvideActionInput resumes the head-of-queue action with user-chosen
// input. The action must be waiting for input, within its deadline, and the
// caller must be the turn's player.
func (e *Engine) ProvideActionInput(ctx state.Context, actionID string, input rules.Param) rules.ActionResult {
	turn, ok := loadTurn(ctx)
	if !ok {
		return rules.Fail("no active turn")
	}
	if len(turn.Queue) == 0 {
		return rules.Fail("no action is waiting for input")
	}

	head := &turn.Queue[0]
	if head.ID != actionID {
		return rules.Fail(fmt.Sprintf("action %s is not at the head of the queue", actionID))
	}
	if head.State != rules.ActionStateWaitingForInput {
		return rules.Fail(fmt.Sprintf("action %s is not waiting for input", actionID))
	}
	if head.TimeoutAt != nil && e.now().After(*head.TimeoutAt) {
		return rules.Fail(fmt.Sprintf("input window for action %s has closed", actionID))
	}
	// Only the turn's player may answer. Effects that should defer to the
	// targeted owner instead hit this same check for now.
	if ctx.PlayerID != turn.PlayerID {
		return rules.Fail(fmt.Sprintf("player %s may not provide input for this action", ctx.PlayerID))
	}

	head.Params = head.Params.With(input)
	head.State = rules.ActionStatePending
	head.TimeoutAt = nil
	storeTurn(ctx, turn)
	e.ClearStatus(ctx)

	return e.processQueue(ctx, &input)
}

// advanceTurn hands the turn to the next player by ascending join order,
// wrapping. The outgoing player's points are forced to zero, the incoming
// turn starts with the configured full allotment and an empty queue.
func (e *Engine) advanceTurn(ctx state.Context, turn *rules.Turn) {
	order := playerOrder(ctx)
	if len(order) == 0 {
		return
	}
	idx := 0
	for i, id := range order {
		if id == turn.PlayerID {
			idx = i
			break
		}
	}
	next := order[(idx+1)%len(order)]

	turn.ActionPoints = 0
	if old, err := getPlayer(ctx, turn.PlayerID); err == nil {
		cp := old.clone()
		cp.ActionPoints = 0
		putPlayer(ctx, cp)
	}
	if incoming, err := getPlayer(ctx, next); err == nil {
		cp := incoming.clone()
		cp.ActionPoints = e.cfg.ActionPointsPerTurn
		putPlayer(ctx, cp)
	}

	storeTurn(ctx, rules.NewTurn(next, e.cfg.ActionPointsPerTurn))

	e.logger.Info("turn advanced",
		zap.String("room_id", ctx.RoomID),
		zap.String("from", turn.PlayerID),
		zap.String("to", next),
	)
}
