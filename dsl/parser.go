// Package dsl parses the line-oriented state machine DSL into a
// machine.Machine.
//
// The grammar has three header directives (# FEATURE:, # INTENT:, # ASSUME:),
// three section headers (GLOBAL_TRANSITIONS:, STATE_LIST:, TRANSITIONS:), and
// one body-line shape per section. Parsing is deliberately permissive: a line
// that matches no shape in the active section is dropped without error, and
// defects in the resulting model are surfaced by the validation package, not
// here.
package dsl

import (
	"regexp"
	"strings"

	"github.com/fsmlint/go-fsmlint/machine"
)

// Section identifies the active DSL section while parsing.
type Section int

const (
	SectionNone Section = iota
	SectionGlobal
	SectionStateList
	SectionTransitions
)

// RedeclarePolicy controls what happens when STATE_LIST declares a state
// name that was already declared.
type RedeclarePolicy int

const (
	// RedeclareOverwrite replaces the prior record entirely, resetting any
	// transitions already attached to the name. This is the historical
	// behavior and the default.
	RedeclareOverwrite RedeclarePolicy = iota

	// RedeclareMerge keeps the existing transitions, overlays the new
	// outputs key by key, and replaces the comment only when the new
	// declaration carries one.
	RedeclareMerge
)

// cursor is the parse state threaded through the line dispatcher: the active
// section and, within TRANSITIONS, the active source state.
type cursor struct {
	section Section
	source  string
}

// Parser applies DSL text to a Machine, appending and merging records.
type Parser struct {
	m      *machine.Machine
	policy RedeclarePolicy
}

// Option configures a Parser.
type Option func(*Parser)

// WithRedeclarePolicy sets the state redeclaration policy.
func WithRedeclarePolicy(p RedeclarePolicy) Option {
	return func(ps *Parser) { ps.policy = p }
}

// NewParser returns a parser that mutates m in place.
func NewParser(m *machine.Machine, opts ...Option) *Parser {
	p := &Parser{m: m, policy: RedeclareOverwrite}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Keyword matching is case-insensitive throughout; free text (comments,
// conditions, output values) keeps its original case.
var (
	reFeature = regexp.MustCompile(`(?i)^#\s*FEATURE:\s*(.*)`)
	reIntent  = regexp.MustCompile(`(?i)^#\s*INTENT:\s*(.*)`)
	reAssume  = regexp.MustCompile(`(?i)^#\s*ASSUME:\s*(.*)`)

	// ON_EVENT(<event>): [DO(<actions>)] -> TO(<target>)
	reGlobalLine = regexp.MustCompile(`(?i)ON_EVENT\((\w+)\):\s*(DO\((.*?)\))?\s*->\s*TO\((\w+)\)`)

	// <state> [Output: <k=v, ...>]
	reStateLine = regexp.MustCompile(`(?i)(\w+)\s*(\[Output:\s*(.*?)\])?`)

	// FROM(<state>):
	reFromLine = regexp.MustCompile(`(?i)^FROM\((\w+)\):`)

	// ON_EVENT(<event>): [IF(<condition>)] -> TO(<target>)
	reTransLine = regexp.MustCompile(`(?i)ON_EVENT\((\w+)\):\s*(IF\s*\((.*?)\))?\s*->\s*TO\((\w+)\)`)
)

var sectionPrefixes = map[string]Section{
	"GLOBAL_TRANSITIONS": SectionGlobal,
	"STATE_LIST":         SectionStateList,
	"TRANSITIONS":        SectionTransitions,
}

// Parse walks the text line by line and applies every recognized line to the
// machine. It never fails: unmatched lines are silently skipped.
func (p *Parser) Parse(text string) {
	cur := cursor{section: SectionNone}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cur = p.parseLine(cur, line)
	}
}

// parseLine dispatches a single trimmed, non-empty line and returns the
// cursor for the next line.
func (p *Parser) parseLine(cur cursor, line string) cursor {
	if strings.HasPrefix(line, "#") {
		p.parseHeader(line)
		return cur
	}

	if section, ok := matchSectionHeader(line); ok {
		// Entering a section always clears the active source state.
		return cursor{section: section}
	}

	switch cur.section {
	case SectionGlobal:
		p.parseGlobalLine(line)
	case SectionStateList:
		p.parseStateLine(line)
	case SectionTransitions:
		return p.parseTransitionLine(cur, line)
	}
	return cur
}

// parseHeader tests a #-prefixed line against the three directives. A header
// line matching none of them is ignored.
func (p *Parser) parseHeader(line string) {
	if m := reFeature.FindStringSubmatch(line); m != nil {
		p.m.Header[machine.HeaderFeature] = strings.TrimSpace(m[1])
		return
	}
	if m := reIntent.FindStringSubmatch(line); m != nil {
		p.m.Header[machine.HeaderIntent] = strings.TrimSpace(m[1])
		return
	}
	if m := reAssume.FindStringSubmatch(line); m != nil {
		p.m.Assumptions = append(p.m.Assumptions, strings.TrimSpace(m[1]))
	}
}

// matchSectionHeader reports whether the line switches the active section.
func matchSectionHeader(line string) (Section, bool) {
	upper := strings.ToUpper(line)
	for prefix, section := range sectionPrefixes {
		if strings.HasPrefix(upper, prefix+":") {
			return section, true
		}
	}
	return SectionNone, false
}

// parseGlobalLine appends one global transition. The DO(...) clause is
// optional; without it the action list is empty.
func (p *Parser) parseGlobalLine(line string) {
	m := reGlobalLine.FindStringSubmatch(line)
	if m == nil {
		return
	}

	actions := []string{}
	if m[2] != "" {
		for _, a := range strings.Split(m[3], ",") {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, strings.ToUpper(a))
			}
		}
	}

	p.m.GlobalTransitions = append(p.m.GlobalTransitions, machine.GlobalTransition{
		Event:   strings.ToUpper(m[1]),
		Actions: actions,
		Target:  strings.ToUpper(m[4]),
		Comment: extractComment(line),
	})
}

// parseStateLine declares (or redeclares) a state. The Output clause is a
// comma-separated list of k=v pairs; entries without exactly one '=' are
// skipped.
func (p *Parser) parseStateLine(line string) {
	m := reStateLine.FindStringSubmatch(line)
	if m == nil {
		return
	}
	name := strings.ToUpper(m[1])

	outputs := make(map[string]string)
	if m[3] != "" {
		for _, part := range strings.Split(m[3], ",") {
			kv := strings.Split(part, "=")
			if len(kv) == 2 {
				outputs[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
			}
		}
	}
	comment := extractComment(line)

	if p.policy == RedeclareMerge {
		if prev := p.m.State(name); prev != nil {
			for k, v := range outputs {
				prev.Outputs[k] = v
			}
			if comment != nil {
				prev.Comment = comment
			}
			return
		}
	}

	p.m.SetState(name, &machine.State{
		Outputs:     outputs,
		Comment:     comment,
		Transitions: []machine.Transition{},
	})
}

// parseTransitionLine handles the TRANSITIONS section: FROM(...) lines move
// the source cursor, event lines append a transition to the active source
// state. A transition is kept only when its source state is already declared;
// otherwise it is dropped, so STATE_LIST must precede TRANSITIONS.
func (p *Parser) parseTransitionLine(cur cursor, line string) cursor {
	if m := reFromLine.FindStringSubmatch(line); m != nil {
		cur.source = strings.ToUpper(m[1])
		return cur
	}
	if cur.source == "" {
		return cur
	}

	m := reTransLine.FindStringSubmatch(line)
	if m == nil {
		return cur
	}

	condition := "True"
	if m[2] != "" {
		condition = strings.TrimSpace(m[3])
	}

	if s := p.m.State(cur.source); s != nil {
		s.Transitions = append(s.Transitions, machine.Transition{
			Event:     strings.ToUpper(m[1]),
			Condition: condition,
			Target:    strings.ToUpper(m[4]),
			Comment:   extractComment(line),
		})
	}
	return cur
}

// extractComment returns the trimmed text after the first '#' on the line,
// or nil if the line carries no comment.
func extractComment(line string) *string {
	i := strings.Index(line, "#")
	if i < 0 {
		return nil
	}
	c := strings.TrimSpace(line[i+1:])
	return &c
}
