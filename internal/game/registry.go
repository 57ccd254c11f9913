package game

import (
	"fmt"
	"sync"

	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
)

// HandlerFunc executes a fresh Pending action.
type HandlerFunc func(ctx state.Context, params rules.Params) rules.ActionResult

// CallbackFunc resumes an action whose Run previously requested input. The
// supplied input parameter has already been appended to params.
type CallbackFunc func(ctx state.Context, params rules.Params, input rules.Param) rules.ActionResult

// Handler is one registered effect. Callback is optional and only consulted
// on the resumption path.
type Handler struct {
	Run      HandlerFunc
	Callback CallbackFunc
}

// Registry maps action names to their handlers. Effect authors register
// here; the queue processor dispatches through it.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under name. Re-registering a name replaces the
// previous handler.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("action name must not be empty")
	}
	if h.Run == nil {
		return fmt.Errorf("action %q has no run function", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
	return nil
}

// Get returns the handler registered under name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// HasCallback reports whether the named action can accept resumption input.
func (r *Registry) HasCallback(name string) bool {
	h, ok := r.Get(name)
	return ok && h.Callback != nil
}

// Names returns all registered action names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
