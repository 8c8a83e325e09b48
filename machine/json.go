package machine

import (
	"encoding/json"
	"sort"
)

// document mirrors the canonical JSON layout of a Machine.
type document struct {
	Header            map[string]string  `json:"header"`
	Assumptions       []string           `json:"assumptions"`
	GlobalTransitions []GlobalTransition `json:"global_transitions"`
	States            map[string]*State  `json:"states"`
}

// MarshalJSON serializes the Machine in the canonical document format:
// an object with header, assumptions, global_transitions, and states keys.
func (m *Machine) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{
		Header:            m.Header,
		Assumptions:       m.Assumptions,
		GlobalTransitions: m.GlobalTransitions,
		States:            m.States,
	})
}

// UnmarshalJSON deserializes a canonical document. Absent collections are
// normalized to empty ones so a round trip reproduces an equal Machine.
// State order is not carried by the format; names are ordered lexically.
func (m *Machine) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if doc.Header == nil {
		doc.Header = make(map[string]string)
	}
	if doc.Assumptions == nil {
		doc.Assumptions = []string{}
	}
	if doc.GlobalTransitions == nil {
		doc.GlobalTransitions = []GlobalTransition{}
	}
	if doc.States == nil {
		doc.States = make(map[string]*State)
	}

	for i := range doc.GlobalTransitions {
		if doc.GlobalTransitions[i].Actions == nil {
			doc.GlobalTransitions[i].Actions = []string{}
		}
	}

	order := make([]string, 0, len(doc.States))
	for name, s := range doc.States {
		if s == nil {
			s = &State{}
			doc.States[name] = s
		}
		if s.Outputs == nil {
			s.Outputs = make(map[string]string)
		}
		if s.Transitions == nil {
			s.Transitions = []Transition{}
		}
		order = append(order, name)
	}
	sort.Strings(order)

	m.Header = doc.Header
	m.Assumptions = doc.Assumptions
	m.GlobalTransitions = doc.GlobalTransitions
	m.States = doc.States
	m.order = order
	return nil
}
