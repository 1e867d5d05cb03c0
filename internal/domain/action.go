package domain

import "fmt"

// Action is the discrete trading bias produced for one evaluation tick.
type Action int

const (
	ActionNeutral Action = iota
	ActionLong
	ActionShort
)

// action string constants to avoid magic strings
const (
	actionStringNeutral = "NEUTRAL"
	actionStringLong    = "LONG"
	actionStringShort   = "SHORT"
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionLong:
		return actionStringLong
	case ActionShort:
		return actionStringShort
	case ActionNeutral:
		return actionStringNeutral
	default:
		return "UNKNOWN"
	}
}

// ParseAction converts LONG, SHORT or NEUTRAL back into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case actionStringLong:
		return ActionLong, nil
	case actionStringShort:
		return ActionShort, nil
	case actionStringNeutral:
		return ActionNeutral, nil
	}
	return ActionNeutral, fmt.Errorf("unknown action %q", s)
}

// MarshalText renders the action name in JSON payloads.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the action name from JSON payloads.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
