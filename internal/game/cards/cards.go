package cards

import "fmt"

// CardType classifies a card within the game's closed type set.
type CardType int

const (
	TypeHero CardType = iota
	TypeItem
	TypeMagic
	TypeMonster
	TypeModifier
	TypeChallenge
	TypePartyLeader
)

var cardTypeNames = map[CardType]string{
	TypeHero:        "HERO",
	TypeItem:        "ITEM",
	TypeMagic:       "MAGIC",
	TypeMonster:     "MONSTER",
	TypeModifier:    "MODIFIER",
	TypeChallenge:   "CHALLENGE",
	TypePartyLeader: "PARTY_LEADER",
}

func (t CardType) String() string {
	if name, ok := cardTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CARD_TYPE_%d", int(t))
}

// ParseCardType maps a wire name back to a CardType.
func ParseCardType(name string) (CardType, error) {
	for t, n := range cardTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown card type %q", name)
}

// RollRequirement describes a dice threshold a hero effect needs to trigger.
type RollRequirement struct {
	Minimum  int    `json:"minimum"`
	Operator string `json:"operator"` // ">=" or "<="
}

// Met reports whether the given roll satisfies the requirement.
func (r RollRequirement) Met(roll int) bool {
	if r.Operator == "<=" {
		return roll <= r.Minimum
	}
	return roll >= r.Minimum
}

// Card is the immutable-per-move card value. Ownership is positional: the
// container holding the card decides whose it is, not a field on the card.
type Card struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        CardType         `json:"type"`
	Class       string           `json:"class,omitempty"`
	Description string           `json:"description,omitempty"`
	Requirement *RollRequirement `json:"requirement,omitempty"`
}

// IDs extracts the identifiers from a card slice, preserving order.
func IDs(cs []Card) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}
