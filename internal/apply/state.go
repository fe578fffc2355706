package apply

import "fmt"

// State is a step of an apply run. A run only moves forward; any failure
// before ModsResolved ends it in Failed.
type State int

const (
	StateLoaded State = iota
	StateValidated
	StateFlattened
	StatePoliciesBuilt
	StateWritten
	StateModsResolved
	StateGuideEmitted
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateLoaded:        "loaded",
	StateValidated:     "validated",
	StateFlattened:     "flattened",
	StatePoliciesBuilt: "policies-built",
	StateWritten:       "written",
	StateModsResolved:  "mods-resolved",
	StateGuideEmitted:  "guide-emitted",
	StateDone:          "done",
	StateFailed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// advance records the transition to next.
func (r *Result) advance(next State) {
	r.State = next
	r.Transitions = append(r.Transitions, next)
}
