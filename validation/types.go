// Package validation provides structural analysis for a parsed state machine
// design. It is a read-only pass: the validator never mutates the machine and
// never performs I/O. Findings are advisory critiques, not errors — an empty
// critique list is the sole signal that the design is accepted.
package validation

import (
	"github.com/fsmlint/go-fsmlint/machine"
)

// Severity classifies a critique for rendering purposes. It does not affect
// acceptance: any critique, whatever its severity, withholds acceptance.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single critique of the design.
type Issue struct {
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"` // "undefined-state", "deadlock", "comment-hint"
	Message    string   `json:"message"`
	States     []string `json:"states,omitempty"` // affected state names
	Suggestion string   `json:"suggestion,omitempty"`
}

// Summary provides an overview of the validated design.
type Summary struct {
	States            int `json:"states"`
	GlobalTransitions int `json:"global_transitions"`
	Transitions       int `json:"transitions"`
	Critiques         int `json:"critiques"`
}

// Result contains the outcome of validation. Critiques are ordered by check
// (undefined states, then deadlocks, then comment hints) and by state
// declaration order within a check.
type Result struct {
	Valid     bool    `json:"valid"`
	Critiques []Issue `json:"critiques,omitempty"`
	Summary   Summary `json:"summary"`
}

// Messages returns the critiques as plain strings, in order.
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Critiques))
	for i, c := range r.Critiques {
		msgs[i] = c.Message
	}
	return msgs
}

// Validator runs all checks over a completed machine.
type Validator struct {
	m      *machine.Machine
	result *Result
}

// NewValidator creates a validator for the given machine.
func NewValidator(m *machine.Machine) *Validator {
	transitions := 0
	for _, s := range m.States {
		transitions += len(s.Transitions)
	}
	return &Validator{
		m: m,
		result: &Result{
			Summary: Summary{
				States:            len(m.States),
				GlobalTransitions: len(m.GlobalTransitions),
				Transitions:       transitions,
			},
		},
	}
}

// Validate runs every check unconditionally, in order, and returns the
// collected result. All checks always run; none is fatal.
func (v *Validator) Validate() *Result {
	v.checkUndefinedStates()
	v.checkDeadlocks()
	v.checkCommentHints()

	v.result.Valid = len(v.result.Critiques) == 0
	v.result.Summary.Critiques = len(v.result.Critiques)
	return v.result
}

func (v *Validator) add(severity Severity, category, message string, states []string, suggestion string) {
	v.result.Critiques = append(v.result.Critiques, Issue{
		Severity:   severity,
		Category:   category,
		Message:    message,
		States:     states,
		Suggestion: suggestion,
	})
}
