package history

import "fmt"

// Action classifies a delegation event.
type Action string

// Recognised actions. ActionAny is the "no filter" sentinel used in
// criteria; it is never stored.
const (
	ActionAny         Action = ""
	ActionEstablished Action = "established"
	ActionRemoved     Action = "removed"
)

// ParseAction validates an action filter string. The empty string means
// no filtering.
func ParseAction(action string) (Action, error) {
	switch Action(action) {
	case ActionAny, ActionEstablished, ActionRemoved:
		return Action(action), nil
	default:
		return ActionAny, fmt.Errorf("unknown action %q: must be %q or %q", action, ActionEstablished, ActionRemoved)
	}
}

// String returns the underlying string value
func (a Action) String() string {
	return string(a)
}

// IsAny reports whether the action is the "no filter" sentinel.
func (a Action) IsAny() bool {
	return a == ActionAny
}
