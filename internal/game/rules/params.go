package rules

import (
	"fmt"

	"github.com/slayloop/party-server-go/internal/game/cards"
)

// ParamType names the decoded type of an action parameter value.
type ParamType string

const (
	ParamLocation      ParamType = "location"
	ParamAmount        ParamType = "amount"
	ParamCardType      ParamType = "card-type"
	ParamSelectionMode ParamType = "selection-mode"
	ParamNumber        ParamType = "number"
	ParamString        ParamType = "string"
	ParamBool          ParamType = "bool"
)

// ParamValue is a tagged union: exactly the field matching Type is set.
// Values are decoded once at the boundary; handlers read them through the
// typed getters on Params and never see raw wire values.
type ParamValue struct {
	Type          ParamType      `json:"type"`
	Location      Location       `json:"location,omitempty"`
	Amount        Amount         `json:"amount,omitempty"`
	CardType      cards.CardType `json:"card_type,omitempty"`
	SelectionMode SelectionMode  `json:"selection_mode,omitempty"`
	Number        int            `json:"number,omitempty"`
	String        string         `json:"string,omitempty"`
	Bool          bool           `json:"bool,omitempty"`
}

// Param is a single named action parameter.
type Param struct {
	Name  string     `json:"name"`
	Value ParamValue `json:"value"`
}

// Params is the ordered parameter list carried by an Action. Order is
// preserved so that resumption input can be appended after the originals.
type Params []Param

// DecodeParam validates a raw wire value against the declared type and
// builds the tagged value. Unknown types fall back to a string carrying the
// raw text.
func DecodeParam(name string, typ ParamType, raw string) (Param, error) {
	v := ParamValue{Type: typ}
	switch typ {
	case ParamLocation:
		loc, err := ParseLocation(raw)
		if err != nil {
			return Param{}, fmt.Errorf("parameter %q: %w", name, err)
		}
		v.Location = loc
	case ParamAmount:
		amt, err := ParseAmount(raw)
		if err != nil {
			return Param{}, fmt.Errorf("parameter %q: %w", name, err)
		}
		v.Amount = amt
	case ParamCardType:
		ct, err := cards.ParseCardType(raw)
		if err != nil {
			return Param{}, fmt.Errorf("parameter %q: %w", name, err)
		}
		v.CardType = ct
	case ParamSelectionMode:
		m, err := ParseSelectionMode(raw)
		if err != nil {
			return Param{}, fmt.Errorf("parameter %q: %w", name, err)
		}
		v.SelectionMode = m
	case ParamNumber:
		var n int
		if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
			return Param{}, fmt.Errorf("parameter %q: invalid number %q", name, raw)
		}
		v.Number = n
	case ParamBool:
		switch raw {
		case "true":
			v.Bool = true
		case "false":
			v.Bool = false
		default:
			return Param{}, fmt.Errorf("parameter %q: invalid bool %q", name, raw)
		}
	default:
		v.Type = ParamString
		v.String = raw
	}
	return Param{Name: name, Value: v}, nil
}

// With returns a copy of the params with an extra parameter appended.
func (p Params) With(extra Param) Params {
	out := make(Params, len(p), len(p)+1)
	copy(out, p)
	return append(out, extra)
}

func (p Params) lookup(name string, typ ParamType) (ParamValue, error) {
	for _, param := range p {
		if param.Name != name {
			continue
		}
		if param.Value.Type != typ {
			return ParamValue{}, fmt.Errorf("parameter %q has type %s, want %s",
				name, param.Value.Type, typ)
		}
		return param.Value, nil
	}
	return ParamValue{}, fmt.Errorf("missing required parameter %q", name)
}

// Location returns the named location parameter.
func (p Params) Location(name string) (Location, error) {
	v, err := p.lookup(name, ParamLocation)
	if err != nil {
		return 0, err
	}
	return v.Location, nil
}

// Amount returns the named amount parameter.
func (p Params) Amount(name string) (Amount, error) {
	v, err := p.lookup(name, ParamAmount)
	if err != nil {
		return Amount{}, err
	}
	return v.Amount, nil
}

// CardType returns the named card type parameter.
func (p Params) CardType(name string) (cards.CardType, error) {
	v, err := p.lookup(name, ParamCardType)
	if err != nil {
		return 0, err
	}
	return v.CardType, nil
}

// SelectionMode returns the named selection mode parameter.
func (p Params) SelectionMode(name string) (SelectionMode, error) {
	v, err := p.lookup(name, ParamSelectionMode)
	if err != nil {
		return 0, err
	}
	return v.SelectionMode, nil
}

// HasSelectionMode reports whether the named selection mode parameter is
// present, for callers that auto-pick a mode when none was supplied.
func (p Params) HasSelectionMode(name string) bool {
	_, err := p.lookup(name, ParamSelectionMode)
	return err == nil
}

// Number returns the named number parameter.
func (p Params) Number(name string) (int, error) {
	v, err := p.lookup(name, ParamNumber)
	if err != nil {
		return 0, err
	}
	return v.Number, nil
}

// String returns the named string parameter.
func (p Params) String(name string) (string, error) {
	v, err := p.lookup(name, ParamString)
	if err != nil {
		return "", err
	}
	return v.String, nil
}

// Bool returns the named bool parameter.
func (p Params) Bool(name string) (bool, error) {
	v, err := p.lookup(name, ParamBool)
	if err != nil {
		return false, err
	}
	return v.Bool, nil
}

// StringParam builds a string parameter.
func StringParam(name, value string) Param {
	return Param{Name: name, Value: ParamValue{Type: ParamString, String: value}}
}

// NumberParam builds a number parameter.
func NumberParam(name string, value int) Param {
	return Param{Name: name, Value: ParamValue{Type: ParamNumber, Number: value}}
}

// LocationParam builds a location parameter.
func LocationParam(name string, value Location) Param {
	return Param{Name: name, Value: ParamValue{Type: ParamLocation, Location: value}}
}

// AmountParam builds an amount parameter.
func AmountParam(name string, value Amount) Param {
	return Param{Name: name, Value: ParamValue{Type: ParamAmount, Amount: value}}
}

// SelectionModeParam builds a selection mode parameter.
func SelectionModeParam(name string, value SelectionMode) Param {
	return Param{Name: name, Value: ParamValue{Type: ParamSelectionMode, SelectionMode: value}}
}
