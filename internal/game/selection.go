package game

import (
	"fmt"

	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
)

// Selection is the outcome of resolving an amount against a location.
// Either CardIDs is populated, or NeedsInput describes the prompt a human
// has to answer before the ids are known.
type Selection struct {
	CardIDs    []string
	NeedsInput *rules.InputRequest
	Note       string // set when fewer cards were available than requested
}

// Select picks card identifiers from the given location according to the
// amount and mode. Amount 0 is a defined no-op. First mode auto-selects
// from the end of the source list, best effort: requesting more than is
// available silently selects everything, as long as at least one card
// exists. Non-First modes defer to a human via NeedsInput.
func (e *Engine) Select(ctx state.Context, loc rules.Location, amount rules.Amount, mode rules.SelectionMode) (Selection, error) {
	view, err := e.resolver.Resolve(ctx, loc)
	if err != nil {
		return Selection{}, fmt.Errorf("resolving %s: %w", loc, err)
	}
	items := view.Read()
	available := len(items)
	want := amount.Resolve(available)

	if want == 0 {
		return Selection{CardIDs: []string{}}, nil
	}
	if available == 0 {
		return Selection{}, fmt.Errorf("no cards available at %s", loc)
	}

	if mode != rules.SelectionFirst {
		prompt := fmt.Sprintf("Choose %d card(s) from %s", want, loc)
		if mode == rules.SelectionTargetOwner {
			prompt = fmt.Sprintf("Choose %d of your card(s) from %s to give up", want, loc)
		}
		return Selection{
			NeedsInput: &rules.InputRequest{
				Type:      "card-selection",
				Prompt:    prompt,
				TimeoutMs: int(e.cfg.InputTimeout.Milliseconds()),
			},
		}, nil
	}

	sel := Selection{}
	if want > available {
		sel.Note = fmt.Sprintf("requested %d, but only %d available", want, available)
		want = available
	}
	// Most recently ordered cards first: pick from the end of the list.
	sel.CardIDs = make([]string, 0, want)
	for i := available - 1; i >= available-want; i-- {
		sel.CardIDs = append(sel.CardIDs, items[i].Card.ID)
	}
	return sel, nil
}

// DetermineSelectionMode picks a mode when the effect author supplied none:
// if the request meets or exceeds what is available there is nothing
// meaningful to choose, so First; otherwise the destination-owning player
// decides. SupportDeck draws are always First regardless of counts.
func (e *Engine) DetermineSelectionMode(ctx state.Context, loc rules.Location, amount rules.Amount) rules.SelectionMode {
	if loc == rules.LocationSupportDeck {
		return rules.SelectionFirst
	}
	view, err := e.resolver.Resolve(ctx, loc)
	if err != nil {
		return rules.SelectionFirst
	}
	available := len(view.Read())
	if amount.All || amount.Count >= available {
		return rules.SelectionFirst
	}
	return rules.SelectionDestinationOwner
}
