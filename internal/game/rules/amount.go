package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSpecificAmount bounds how many cards a single move may name explicitly.
const MaxSpecificAmount = 5

// Amount is either a specific count (0..MaxSpecificAmount) or the sentinel
// All, meaning every card currently available at the source.
type Amount struct {
	All   bool
	Count int
}

// AmountAll is the "every available card" sentinel.
var AmountAll = Amount{All: true}

// AmountOf builds a specific amount, validating the allowed range.
func AmountOf(n int) (Amount, error) {
	if n < 0 || n > MaxSpecificAmount {
		return Amount{}, fmt.Errorf("amount %d out of range 0..%d", n, MaxSpecificAmount)
	}
	return Amount{Count: n}, nil
}

// Resolve converts the amount to a concrete count against the number of
// cards available at the source right now.
func (a Amount) Resolve(available int) int {
	if a.All {
		return available
	}
	return a.Count
}

func (a Amount) String() string {
	if a.All {
		return "all"
	}
	return strconv.Itoa(a.Count)
}

// ParseAmount accepts "all" or a decimal count within range.
func ParseAmount(s string) (Amount, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return AmountAll, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}
	return AmountOf(n)
}

// SelectionMode decides how the specific cards satisfying an amount are
// chosen: automatically, or by deferring to a human.
type SelectionMode int

const (
	// SelectionFirst deterministically picks from the end of the source list.
	SelectionFirst SelectionMode = iota
	// SelectionDestinationOwner asks the acting player to choose.
	SelectionDestinationOwner
	// SelectionTargetOwner asks the player who owns the source to choose.
	SelectionTargetOwner
)

var selectionModeNames = map[SelectionMode]string{
	SelectionFirst:            "first",
	SelectionDestinationOwner: "destination-owner",
	SelectionTargetOwner:      "target-owner",
}

func (m SelectionMode) String() string {
	if name, ok := selectionModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SELECTION_MODE_%d", int(m))
}

// ParseSelectionMode maps a wire name back to a SelectionMode.
func ParseSelectionMode(name string) (SelectionMode, error) {
	for m, n := range selectionModeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown selection mode %q", name)
}
