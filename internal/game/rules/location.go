package rules

import "fmt"

// Location names a card container reachable by a move. The set is closed:
// every value is a bidirectional read/write endpoint for the move executor.
type Location int

const (
	LocationOwnHand Location = iota
	LocationOwnParty
	LocationOwnDeck
	LocationAnyHand
	LocationAnyParty
	LocationOtherHands
	LocationOtherParties
	LocationSupportDeck
	LocationCache
	LocationDiscardPile
	LocationMonsterPile
	LocationSlainMonsterPile
)

var locationNames = map[Location]string{
	LocationOwnHand:          "own-hand",
	LocationOwnParty:         "own-party",
	LocationOwnDeck:          "own-deck",
	LocationAnyHand:          "any-hand",
	LocationAnyParty:         "any-party",
	LocationOtherHands:       "other-hands",
	LocationOtherParties:     "other-parties",
	LocationSupportDeck:      "support-deck",
	LocationCache:            "cache",
	LocationDiscardPile:      "discard-pile",
	LocationMonsterPile:      "monster-pile",
	LocationSlainMonsterPile: "slain-monster-pile",
}

func (l Location) String() string {
	if name, ok := locationNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LOCATION_%d", int(l))
}

// ParseLocation maps a wire name back to a Location.
func ParseLocation(name string) (Location, error) {
	for l, n := range locationNames {
		if n == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown location %q", name)
}

// IsOwnScoped reports whether the location belongs to the acting player.
func (l Location) IsOwnScoped() bool {
	switch l {
	case LocationOwnHand, LocationOwnParty, LocationOwnDeck:
		return true
	}
	return false
}

// IsAnySingleOther reports whether the location must resolve to exactly one
// other player per move.
func (l Location) IsAnySingleOther() bool {
	return l == LocationAnyHand || l == LocationAnyParty
}

// IsOtherAggregate reports whether the location spans every other player.
func (l Location) IsOtherAggregate() bool {
	return l == LocationOtherHands || l == LocationOtherParties
}

// IsShared reports whether the location is a shared stack owned by no player.
func (l Location) IsShared() bool {
	switch l {
	case LocationSupportDeck, LocationCache, LocationDiscardPile,
		LocationMonsterPile, LocationSlainMonsterPile:
		return true
	}
	return false
}

// IsParty reports whether the location resolves to a party structure
// (leader plus hero slots) rather than a flat list.
func (l Location) IsParty() bool {
	switch l {
	case LocationOwnParty, LocationAnyParty, LocationOtherParties:
		return true
	}
	return false
}
