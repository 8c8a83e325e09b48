package validation

import (
	"fmt"
	"sort"
	"strings"
)

// checkUndefinedStates reports transition targets that were never declared in
// STATE_LIST. All offenders are named in a single critique.
func (v *Validator) checkUndefinedStates() {
	defined := v.m.DefinedStateNames()

	var undefined []string
	for target := range v.m.TransitionTargets() {
		if !defined[target] {
			undefined = append(undefined, target)
		}
	}
	if len(undefined) == 0 {
		return
	}
	sort.Strings(undefined)

	v.add(SeverityError, "undefined-state",
		fmt.Sprintf("Undefined state error: the following states are used in transitions but never declared in STATE_LIST: %s.",
			strings.Join(undefined, ", ")),
		undefined,
		"Declare the missing states in STATE_LIST")
}

// checkDeadlocks reports declared states that have no outgoing transitions
// yet are referenced as a target somewhere. A terminal state nobody points at
// is assumed to be dead code and is not flagged here.
func (v *Validator) checkDeadlocks() {
	targets := v.m.TransitionTargets()

	for _, name := range v.m.StateNames() {
		s := v.m.State(name)
		if len(s.Transitions) > 0 {
			continue
		}
		if !targets[name] {
			continue
		}
		v.add(SeverityWarning, "deadlock",
			fmt.Sprintf("Potential deadlock: state '%s' is reachable but has no outgoing transitions. Is this an intended final state?", name),
			[]string{name},
			"Add an outgoing transition or confirm the state is a final state")
	}
}

// checkCommentHints scans comments for design intent markers: state comments
// mentioning v2 or future plans (exact-case substrings), and transition
// comments marked critical (case-insensitive).
func (v *Validator) checkCommentHints() {
	for _, name := range v.m.StateNames() {
		s := v.m.State(name)

		if s.Comment != nil {
			if strings.Contains(*s.Comment, "v2") || strings.Contains(*s.Comment, "future") {
				v.add(SeverityInfo, "comment-hint",
					fmt.Sprintf("Future-proofing notice: the comment for state '%s' ('%s') mentions future plans. Keep this path extensible.", name, *s.Comment),
					[]string{name}, "")
			}
		}

		for _, t := range s.Transitions {
			if t.Comment == nil {
				continue
			}
			if strings.Contains(strings.ToLower(*t.Comment), "critical") {
				v.add(SeverityInfo, "comment-hint",
					fmt.Sprintf("Criticality notice: transition from '%s' on event '%s' is marked as critical. Prioritize this path.", name, t.Event),
					[]string{name}, "")
			}
		}
	}
}
