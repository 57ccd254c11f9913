package game

import (
	"fmt"

	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
	"go.uber.org/zap"
)

// MoveCards atomically relocates the named cards from source to
// destination. Validation runs before any mutation: if a single id cannot
// be satisfied, or an Any-family source spans more than one owner, the
// whole call fails and no container changes.
func (e *Engine) MoveCards(ctx state.Context, source, destination rules.Location, cardIDs []string) rules.ActionResult {
	if len(cardIDs) == 0 {
		return rules.Fail("no cards specified for move")
	}

	// Any-family sources must resolve every id to the same other player.
	if source.IsAnySingleOther() {
		if result, ok := e.checkSameOwner(ctx, source, cardIDs); !ok {
			return result
		}
	}

	view, err := e.resolver.Resolve(ctx, source)
	if err != nil {
		return rules.Fail(fmt.Sprintf("cannot resolve source %s: %v", source, err))
	}

	items := view.Read()
	moved := make([]cards.Card, 0, len(cardIDs))
	remaining := items
	for _, id := range cardIDs {
		idx := -1
		for i, item := range remaining {
			if item.Card.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return rules.Fail(fmt.Sprintf("card %s not found at %s", id, source))
		}
		moved = append(moved, remaining[idx].Card)
		remaining = append(append([]TaggedCard{}, remaining[:idx]...), remaining[idx+1:]...)
	}

	if err := e.placeCheck(ctx, destination); err != nil {
		return rules.Fail(err.Error())
	}

	// All ids accounted for and the destination is writable. Mutations
	// start here and cannot fail.
	if err := view.Write(remaining); err != nil {
		return rules.Fail(fmt.Sprintf("committing source %s: %v", source, err))
	}
	e.place(ctx, destination, moved)

	e.logger.Debug("cards moved",
		zap.String("room_id", ctx.RoomID),
		zap.String("player_id", ctx.PlayerID),
		zap.String("source", source.String()),
		zap.String("destination", destination.String()),
		zap.Int("count", len(moved)),
	)

	movedIDs := cards.IDs(moved)
	return rules.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Moved %d card(s) from %s to %s", len(moved), source, destination),
		Data: map[string]any{
			"moved_card_ids": movedIDs,
			"count":          len(moved),
			"source":         source.String(),
			"destination":    destination.String(),
		},
	}
}

// checkSameOwner pre-scans an AnyHand/AnyParty source: every id must live
// in the same other player's container. Returns a failure result when not.
func (e *Engine) checkSameOwner(ctx state.Context, source rules.Location, cardIDs []string) (rules.ActionResult, bool) {
	view, err := e.resolver.Resolve(ctx, source)
	if err != nil {
		return rules.Fail(fmt.Sprintf("cannot resolve source %s: %v", source, err)), false
	}
	items := view.Read()
	containerName := "hand"
	if source.IsParty() {
		containerName = "party"
	}

	owner := ""
	for _, id := range cardIDs {
		found := ""
		for _, item := range items {
			if item.Card.ID == id {
				found = item.OwnerID
				break
			}
		}
		if found == "" {
			return rules.Fail(fmt.Sprintf("card %s not found in any other player's %s", id, containerName)), false
		}
		if owner == "" {
			owner = found
		} else if owner != found {
			return rules.Fail(fmt.Sprintf("all selected cards must come from the same player's %s", containerName)), false
		}
	}
	return rules.ActionResult{}, true
}

// placeCheck validates the destination before any mutation happens.
func (e *Engine) placeCheck(ctx state.Context, destination rules.Location) error {
	switch destination {
	case rules.LocationOwnHand, rules.LocationOwnParty, rules.LocationOwnDeck:
		if _, err := getPlayer(ctx, ctx.PlayerID); err != nil {
			return fmt.Errorf("cannot resolve destination %s: %w", destination, err)
		}
	case rules.LocationAnyHand, rules.LocationAnyParty,
		rules.LocationOtherHands, rules.LocationOtherParties:
		if len(otherPlayerIDs(ctx)) == 0 {
			return fmt.Errorf("cannot resolve destination %s: no other players", destination)
		}
	case rules.LocationSupportDeck, rules.LocationCache, rules.LocationDiscardPile,
		rules.LocationMonsterPile, rules.LocationSlainMonsterPile:
		// Shared stacks always accept.
	default:
		return fmt.Errorf("unsupported destination %s", destination)
	}
	return nil
}

// place applies the destination placement policy. Hands append; parties
// fill the first open hero slot; shared stacks append. AnyHand/AnyParty
// pick the first available other player, OtherHands/OtherParties
// round-robin across all of them in receipt order.
func (e *Engine) place(ctx state.Context, destination rules.Location, moved []cards.Card) {
	switch destination {
	case rules.LocationOwnHand:
		appendToHand(ctx, ctx.PlayerID, moved)
	case rules.LocationOwnDeck:
		appendToDeck(ctx, ctx.PlayerID, moved)
	case rules.LocationOwnParty:
		insertIntoParty(ctx, ctx.PlayerID, moved)
	case rules.LocationAnyHand:
		appendToHand(ctx, otherPlayerIDs(ctx)[0], moved)
	case rules.LocationAnyParty:
		insertIntoParty(ctx, otherPlayerIDs(ctx)[0], moved)
	case rules.LocationOtherHands:
		others := otherPlayerIDs(ctx)
		for i, c := range moved {
			appendToHand(ctx, others[i%len(others)], []cards.Card{c})
		}
	case rules.LocationOtherParties:
		others := otherPlayerIDs(ctx)
		for i, c := range moved {
			insertIntoParty(ctx, others[i%len(others)], []cards.Card{c})
		}
	default:
		key := sharedKey(destination)
		pile := append(append([]cards.Card(nil), sharedPile(ctx, key)...), moved...)
		ctx.GameState.Set(key, pile)
	}
}

func appendToHand(ctx state.Context, playerID string, moved []cards.Card) {
	p, err := getPlayer(ctx, playerID)
	if err != nil {
		return
	}
	cp := p.clone()
	cp.Hand = append(cp.Hand, moved...)
	putPlayer(ctx, cp)
}

func appendToDeck(ctx state.Context, playerID string, moved []cards.Card) {
	p, err := getPlayer(ctx, playerID)
	if err != nil {
		return
	}
	cp := p.clone()
	cp.Deck = append(cp.Deck, moved...)
	putPlayer(ctx, cp)
}

func insertIntoParty(ctx state.Context, playerID string, moved []cards.Card) {
	p, err := getPlayer(ctx, playerID)
	if err != nil {
		return
	}
	cp := p.clone()
	for _, c := range moved {
		cp.Party.Insert(c)
	}
	putPlayer(ctx, cp)
}
