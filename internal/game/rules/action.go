package rules

import (
	"time"
)

// ActionState tracks where a queued action is in its lifecycle. A fresh
// action is Pending; one suspended for user input is WaitingForInput until
// the input arrives and it is re-executed.
type ActionState string

const (
	ActionStatePending         ActionState = "PENDING"
	ActionStateWaitingForInput ActionState = "WAITING_FOR_INPUT"
)

// Action is a single registered effect invocation queued on a turn.
type Action struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Params    Params     `json:"params"`
	State     ActionState `json:"state"`
	TimeoutAt *time.Time `json:"timeout_at,omitempty"`
}

// InputRequest describes what a suspended action needs from a human before
// it can continue.
type InputRequest struct {
	Type      string `json:"type"`
	Prompt    string `json:"prompt"`
	TimeoutMs int    `json:"timeout_ms,omitempty"`
}

// DefaultInputTimeout is applied when an input request does not override it.
const DefaultInputTimeout = 30 * time.Second

// Timeout returns the request's timeout, falling back to the default.
func (r *InputRequest) Timeout() time.Duration {
	if r == nil || r.TimeoutMs <= 0 {
		return DefaultInputTimeout
	}
	return time.Duration(r.TimeoutMs) * time.Millisecond
}

// ActionResult is the value every effect handler returns across the engine
// boundary. Failures are reported here, never as panics.
type ActionResult struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	NeedsInput *InputRequest  `json:"needs_input,omitempty"`
}

// Succeed builds a success result with a message.
func Succeed(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}

// Fail builds a failure result with a message.
func Fail(message string) ActionResult {
	return ActionResult{Success: false, Message: message}
}

// RollModifier adjusts a dice roll while it is in play.
type RollModifier struct {
	CardID string `json:"card_id"`
	Delta  int    `json:"delta"`
}

// Turn is the mutable record of whose go it is, their remaining action
// points, and their pending effect queue. It is replaced wholesale when the
// active player changes.
type Turn struct {
	PlayerID     string         `json:"player_id"`
	ActionPoints int            `json:"action_points"`
	Queue        []Action       `json:"queue"`
	PlayedCards  []string       `json:"played_cards"`
	Modifiers    []RollModifier `json:"modifiers"`
}

// NewTurn creates a fresh turn for the given player with full action points
// and an empty queue.
func NewTurn(playerID string, actionPoints int) *Turn {
	return &Turn{
		PlayerID:     playerID,
		ActionPoints: actionPoints,
		Queue:        make([]Action, 0, 4),
		PlayedCards:  make([]string, 0, 4),
		Modifiers:    make([]RollModifier, 0),
	}
}
