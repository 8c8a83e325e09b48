// Package machine defines the in-memory document model for a finite-state
// machine design: header metadata, free-text assumptions, global transitions,
// and named states with outputs and per-state transitions.
//
// The model is deliberately loose about referential integrity: a transition
// target is a plain string reference and may name a state that was never
// declared. The validation package checks those references; the model only
// stores them.
package machine

// Header keys recognized by the DSL parser.
const (
	HeaderFeature = "feature"
	HeaderIntent  = "intent"
)

// GlobalTransition is a transition applicable from any current state,
// keyed only by its triggering event.
type GlobalTransition struct {
	Event   string   `json:"event"`
	Actions []string `json:"actions"`
	Target  string   `json:"target"`
	Comment *string  `json:"comment"`
}

// Transition is an outgoing edge of a single state. The guard condition is
// carried as opaque text and never evaluated.
type Transition struct {
	Event     string  `json:"event"`
	Condition string  `json:"condition"`
	Target    string  `json:"target"`
	Comment   *string `json:"comment"`
}

// State holds the declared outputs and outgoing transitions of one state.
type State struct {
	Outputs     map[string]string `json:"outputs"`
	Comment     *string           `json:"comment"`
	Transitions []Transition      `json:"transitions"`
}

// Machine is the root document. State names and event names are stored
// uppercased; free text (comments, conditions, output values) keeps its
// original case.
type Machine struct {
	Header            map[string]string
	Assumptions       []string
	GlobalTransitions []GlobalTransition
	States            map[string]*State

	// order tracks state declaration order so that analysis output is
	// deterministic. Redeclaring a state keeps its original position.
	order []string
}

// New returns an empty Machine with all collections initialized.
func New() *Machine {
	return &Machine{
		Header:            make(map[string]string),
		Assumptions:       []string{},
		GlobalTransitions: []GlobalTransition{},
		States:            make(map[string]*State),
	}
}

// SetState installs a state record under the given name, replacing any prior
// record. First declaration fixes the name's position in StateNames.
func (m *Machine) SetState(name string, s *State) {
	if _, seen := m.States[name]; !seen {
		m.order = append(m.order, name)
	}
	m.States[name] = s
}

// State returns the record for name, or nil if the state was never declared.
func (m *Machine) State(name string) *State {
	return m.States[name]
}

// StateNames returns all declared state names in declaration order.
func (m *Machine) StateNames() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// DefinedStateNames returns the set of all declared state names.
func (m *Machine) DefinedStateNames() map[string]bool {
	defined := make(map[string]bool, len(m.States))
	for name := range m.States {
		defined[name] = true
	}
	return defined
}

// TransitionTargets returns the set union of every transition target across
// the global transitions and every state's transitions.
func (m *Machine) TransitionTargets() map[string]bool {
	targets := make(map[string]bool)
	for _, t := range m.GlobalTransitions {
		targets[t.Target] = true
	}
	for _, s := range m.States {
		for _, t := range s.Transitions {
			targets[t.Target] = true
		}
	}
	return targets
}
