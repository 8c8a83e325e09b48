// Package parser handles import and export of the canonical JSON document
// format for machine designs:
//
//	{
//	  "header": {"feature": "...", "intent": "..."},
//	  "assumptions": ["..."],
//	  "global_transitions": [
//	    {"event": "E", "actions": ["A"], "target": "S", "comment": null}
//	  ],
//	  "states": {
//	    "S": {"outputs": {"k": "v"}, "comment": null,
//	          "transitions": [{"event": "E", "condition": "True", "target": "S2", "comment": null}]}
//	  }
//	}
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/fsmlint/go-fsmlint/machine"
)

// FromJSON parses a canonical document into a Machine.
func FromJSON(data []byte) (*machine.Machine, error) {
	m := machine.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("invalid machine document: %w", err)
	}
	return m, nil
}

// ToJSON serializes a Machine to the canonical document format, indented for
// durable storage. Map keys are emitted in sorted order, so output is
// deterministic for a given machine.
func ToJSON(m *machine.Machine) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
