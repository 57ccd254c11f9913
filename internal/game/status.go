package game

import (
	"time"

	"github.com/slayloop/party-server-go/internal/game/state"
)

// Status is the single display-oriented record describing what the engine
// is currently doing, consumed by presentation layers. TimeoutAt is only
// set for actions awaiting callback input.
type Status struct {
	Key       string        `json:"key"`
	Message   string        `json:"message"`
	Timeout   time.Duration `json:"timeout,omitempty"`
	TimeoutAt *time.Time    `json:"timeout_at,omitempty"`
}

// SetStatus writes the current-status record. A timeout is attached only
// when the action declares it awaits callback input; zero timeout falls
// back to the configured input timeout.
func (e *Engine) SetStatus(ctx state.Context, actionName, message string, hasCallback bool, timeout time.Duration) {
	status := &Status{Key: actionName, Message: message}
	if hasCallback {
		if timeout <= 0 {
			timeout = e.cfg.InputTimeout
		}
		at := e.now().Add(timeout)
		status.Timeout = timeout
		status.TimeoutAt = &at
	}
	ctx.GameState.Set(keyStatus, status)
}

// ClearStatus deletes the current-status record.
func (e *Engine) ClearStatus(ctx state.Context) {
	ctx.GameState.Delete(keyStatus)
}

// CurrentStatus returns the current-status record, if any.
func (e *Engine) CurrentStatus(ctx state.Context) (*Status, bool) {
	raw, ok := ctx.GameState.Get(keyStatus)
	if !ok {
		return nil, false
	}
	status, ok := raw.(*Status)
	return status, ok
}

// HasStatusTimedOut reports whether the stored status carries a timeout
// that has already passed. A status without a timeout never times out.
func (e *Engine) HasStatusTimedOut(ctx state.Context) bool {
	status, ok := e.CurrentStatus(ctx)
	if !ok || status.TimeoutAt == nil {
		return false
	}
	return e.now().After(*status.TimeoutAt)
}

// TimeRemaining returns how long until the stored status times out, zero
// when there is no deadline or it has passed.
func (e *Engine) TimeRemaining(ctx state.Context) time.Duration {
	status, ok := e.CurrentStatus(ctx)
	if !ok || status.TimeoutAt == nil {
		return 0
	}
	remaining := status.TimeoutAt.Sub(e.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}
