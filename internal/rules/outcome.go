// Package rules implements the fixed catalogue of log-line matchers that
// turn raw lines from the game's log file into events.GameEvent values.
// Each rule follows the same shape: a cheap substring prefix gate, then a
// regex capture; multi-line rules request more input via NeedMoreLines
// until their closing condition is observed.
package rules

import "github.com/ilsubyeega/fgtail/internal/events"

// OutcomeKind tags the result of evaluating a single Rule against the
// current input.
type OutcomeKind int

const (
	// None means the rule's prefix gate (or capture) didn't match; the
	// parser should try the next rule in the catalogue.
	None OutcomeKind = iota
	// Parsed means the rule completed and produced an event.
	Parsed
	// NeedMoreLines means the rule's prefix gate matched but its closing
	// condition hasn't been observed yet; the same rule re-evaluates
	// against input ++ "\n" ++ nextLine.
	NeedMoreLines
	// Unreachable means a structural assumption the rule depends on has
	// been violated (a required capture failed to parse). Fatal.
	Unreachable
)

// Outcome is the sum-type result of a Rule evaluation.
type Outcome struct {
	Kind  OutcomeKind
	Event events.GameEvent
}

func ParsedOutcome(event events.GameEvent) Outcome { return Outcome{Kind: Parsed, Event: event} }

var (
	NoneOutcome          = Outcome{Kind: None}
	NeedMoreLinesOutcome = Outcome{Kind: NeedMoreLines}
	UnreachableOutcome   = Outcome{Kind: Unreachable}
)

// Rule evaluates a (possibly multi-line, newline-joined) input buffer and
// returns an Outcome. Implementations must be safe to call repeatedly
// with a growing buffer for multi-line rules.
type Rule func(input string) Outcome
