package dsl

import (
	"reflect"
	"testing"

	"github.com/fsmlint/go-fsmlint/machine"
)

func parse(t *testing.T, text string, opts ...Option) *machine.Machine {
	t.Helper()
	m := machine.New()
	NewParser(m, opts...).Parse(text)
	return m
}

func TestParse_HeaderDirectives(t *testing.T) {
	m := parse(t, `
# FEATURE: Door Lock
# intent: Keep the door secure
# Assume: keypad debouncing is handled in hardware
# ASSUME: power never fails
# just a comment, not a directive
`)

	if got := m.Header[machine.HeaderFeature]; got != "Door Lock" {
		t.Errorf("feature: got %q", got)
	}
	if got := m.Header[machine.HeaderIntent]; got != "Keep the door secure" {
		t.Errorf("intent: got %q", got)
	}
	want := []string{"keypad debouncing is handled in hardware", "power never fails"}
	if !reflect.DeepEqual(m.Assumptions, want) {
		t.Errorf("assumptions: got %v, want %v", m.Assumptions, want)
	}
}

func TestParse_LinesBeforeAnySectionAreDropped(t *testing.T) {
	m := parse(t, `
ON_EVENT(RESET): -> TO(IDLE)
IDLE [Output: Led=GREEN]
`)

	if len(m.GlobalTransitions) != 0 || len(m.States) != 0 {
		t.Errorf("expected nothing parsed, got %d globals, %d states",
			len(m.GlobalTransitions), len(m.States))
	}
}

func TestParse_GlobalTransitions(t *testing.T) {
	m := parse(t, `
GLOBAL_TRANSITIONS:
ON_EVENT(USER_ENTERS_MASTER_CODE): DO(STOP_ALL_TIMERS, CLEAR_ALARM) -> TO(IDLE_LOCKED)
on_event(reset): -> to(idle_locked) # always recoverable
this line matches nothing and is skipped
`)

	if len(m.GlobalTransitions) != 2 {
		t.Fatalf("expected 2 global transitions, got %d", len(m.GlobalTransitions))
	}

	g := m.GlobalTransitions[0]
	if g.Event != "USER_ENTERS_MASTER_CODE" {
		t.Errorf("event: got %q", g.Event)
	}
	if want := []string{"STOP_ALL_TIMERS", "CLEAR_ALARM"}; !reflect.DeepEqual(g.Actions, want) {
		t.Errorf("actions: got %v, want %v", g.Actions, want)
	}
	if g.Target != "IDLE_LOCKED" {
		t.Errorf("target: got %q", g.Target)
	}
	if g.Comment != nil {
		t.Errorf("comment: got %q, want nil", *g.Comment)
	}

	g = m.GlobalTransitions[1]
	if g.Event != "RESET" || g.Target != "IDLE_LOCKED" {
		t.Errorf("lowercase keywords not uppercased: %+v", g)
	}
	if len(g.Actions) != 0 {
		t.Errorf("expected empty actions without DO, got %v", g.Actions)
	}
	if g.Comment == nil || *g.Comment != "always recoverable" {
		t.Errorf("comment: got %v", g.Comment)
	}
}

func TestParse_StateList(t *testing.T) {
	m := parse(t, `
STATE_LIST:
IDLE_LOCKED [Output: Bolt=HIGH, Led=RED] # Standard secured state
ALARM
waiting [output: Buzzer=ON, Broken=a=b, =]
`)

	if len(m.States) != 3 {
		t.Fatalf("expected 3 states, got %d", len(m.States))
	}

	s := m.State("IDLE_LOCKED")
	if s == nil {
		t.Fatal("IDLE_LOCKED not declared")
	}
	if want := map[string]string{"Bolt": "HIGH", "Led": "RED"}; !reflect.DeepEqual(s.Outputs, want) {
		t.Errorf("outputs: got %v, want %v", s.Outputs, want)
	}
	if s.Comment == nil || *s.Comment != "Standard secured state" {
		t.Errorf("comment: got %v", s.Comment)
	}
	if len(s.Transitions) != 0 {
		t.Errorf("fresh state should have no transitions")
	}

	if m.State("ALARM") == nil {
		t.Error("bare state name not declared")
	}

	// Parts without exactly one '=' are skipped; "=" splits into two empty
	// halves and is kept as an empty pair.
	s = m.State("WAITING")
	if s == nil {
		t.Fatal("lowercase state name not uppercased")
	}
	if want := map[string]string{"Buzzer": "ON", "": ""}; !reflect.DeepEqual(s.Outputs, want) {
		t.Errorf("outputs: got %v, want %v", s.Outputs, want)
	}
}

func TestParse_StateTransitions(t *testing.T) {
	m := parse(t, `
STATE_LIST:
IDLE_LOCKED
ALARM_STATE
TRANSITIONS:
FROM(IDLE_LOCKED):
ON_EVENT(KEYPAD_INPUT): IF (Code == INVALID AND Attempts >= 3) -> TO(ALARM_STATE)
ON_EVENT(KEY_ENTERED): -> TO(IDLE_UNLOCKED) # this path is CRITICAL
`)

	s := m.State("IDLE_LOCKED")
	if len(s.Transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(s.Transitions))
	}

	tr := s.Transitions[0]
	if tr.Event != "KEYPAD_INPUT" {
		t.Errorf("event: got %q", tr.Event)
	}
	if tr.Condition != "Code == INVALID AND Attempts >= 3" {
		t.Errorf("condition: got %q", tr.Condition)
	}
	if tr.Target != "ALARM_STATE" {
		t.Errorf("target: got %q", tr.Target)
	}

	tr = s.Transitions[1]
	if tr.Condition != "True" {
		t.Errorf("default condition: got %q", tr.Condition)
	}
	if tr.Target != "IDLE_UNLOCKED" {
		t.Errorf("target may reference an undeclared state: got %q", tr.Target)
	}
	if tr.Comment == nil || *tr.Comment != "this path is CRITICAL" {
		t.Errorf("comment: got %v", tr.Comment)
	}
}

func TestParse_ConditionKeepsOriginalCase(t *testing.T) {
	m := parse(t, `
STATE_LIST:
A
TRANSITIONS:
FROM(a):
ON_EVENT(E): IF (door.isOpen(x) == true) -> TO(A)
`)

	tr := m.State("A").Transitions[0]
	if tr.Condition != "door.isOpen(x) == true" {
		t.Errorf("condition: got %q", tr.Condition)
	}
}

func TestParse_TransitionsWithoutFromAreDropped(t *testing.T) {
	m := parse(t, `
STATE_LIST:
A
TRANSITIONS:
ON_EVENT(E): -> TO(A)
`)

	if n := len(m.State("A").Transitions); n != 0 {
		t.Errorf("expected transition before FROM to be dropped, got %d", n)
	}
}

func TestParse_TransitionsForUndeclaredSourceAreDropped(t *testing.T) {
	m := parse(t, `
STATE_LIST:
A
TRANSITIONS:
FROM(GHOST):
ON_EVENT(E): -> TO(A)
`)

	if len(m.States) != 1 {
		t.Fatalf("expected only declared states, got %v", m.StateNames())
	}
	if targets := m.TransitionTargets(); len(targets) != 0 {
		t.Errorf("expected dropped transition, got targets %v", targets)
	}
}

func TestParse_SectionSwitchClearsSource(t *testing.T) {
	m := parse(t, `
STATE_LIST:
A
TRANSITIONS:
FROM(A):
STATE_LIST:
B
TRANSITIONS:
ON_EVENT(E): -> TO(B)
`)

	if n := len(m.State("A").Transitions); n != 0 {
		t.Errorf("source state must be cleared on section switch, got %d transitions", n)
	}
}

// Redeclaring a state name in STATE_LIST replaces the record and resets its
// transition list under the default policy.
func TestParse_RedeclareOverwriteResetsTransitions(t *testing.T) {
	m := parse(t, `
STATE_LIST:
A
TRANSITIONS:
FROM(A):
ON_EVENT(E): -> TO(B)
STATE_LIST:
A [Output: X=1]
`)

	s := m.State("A")
	if len(s.Transitions) != 0 {
		t.Errorf("overwrite redeclaration must erase transitions, got %d", len(s.Transitions))
	}
	if s.Outputs["X"] != "1" {
		t.Errorf("outputs: got %v", s.Outputs)
	}
}

func TestParse_RedeclareMergeKeepsTransitions(t *testing.T) {
	m := parse(t, `
STATE_LIST:
A [Output: X=1] # original
TRANSITIONS:
FROM(A):
ON_EVENT(E): -> TO(B)
STATE_LIST:
A [Output: Y=2]
`, WithRedeclarePolicy(RedeclareMerge))

	s := m.State("A")
	if len(s.Transitions) != 1 {
		t.Errorf("merge redeclaration must keep transitions, got %d", len(s.Transitions))
	}
	if s.Outputs["X"] != "1" || s.Outputs["Y"] != "2" {
		t.Errorf("outputs: got %v", s.Outputs)
	}
	if s.Comment == nil || *s.Comment != "original" {
		t.Errorf("comment without a new one must be kept, got %v", s.Comment)
	}
}

func TestParse_Idempotence(t *testing.T) {
	text := `
# FEATURE: Door Lock
GLOBAL_TRANSITIONS:
ON_EVENT(MASTER_RESET): -> TO(IDLE_LOCKED)
STATE_LIST:
IDLE_LOCKED
IDLE_UNLOCKED
TRANSITIONS:
FROM(IDLE_LOCKED):
ON_EVENT(KEY_ENTERED): -> TO(IDLE_UNLOCKED)
FROM(IDLE_UNLOCKED):
ON_EVENT(DOOR_CLOSED): -> TO(IDLE_LOCKED)
`
	a := parse(t, text)
	b := parse(t, text)

	if !reflect.DeepEqual(a.DefinedStateNames(), b.DefinedStateNames()) {
		t.Errorf("defined state sets differ: %v vs %v", a.DefinedStateNames(), b.DefinedStateNames())
	}
	if !reflect.DeepEqual(a.TransitionTargets(), b.TransitionTargets()) {
		t.Errorf("target sets differ: %v vs %v", a.TransitionTargets(), b.TransitionTargets())
	}
}

func TestExtractComment(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantNil bool
	}{
		{"A [Output: X=1] # trailing", "trailing", false},
		{"A # first # second", "first # second", false},
		{"A #", "", false},
		{"no comment here", "", true},
	}

	for _, tt := range tests {
		got := extractComment(tt.line)
		if tt.wantNil {
			if got != nil {
				t.Errorf("extractComment(%q) = %q, want nil", tt.line, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("extractComment(%q) = %v, want %q", tt.line, got, tt.want)
		}
	}
}
