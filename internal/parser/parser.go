// Package parser drives the rule catalogue in internal/rules over an
// incoming stream of raw log lines, accumulating multi-line blocks and
// emitting one events.GameEvent per completed match.
package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/ilsubyeega/fgtail/internal/events"
	"github.com/ilsubyeega/fgtail/internal/rules"
)

// maxPendingLines bounds the size of an in-flight multi-line block. A rule
// that never resolves would otherwise grow the buffer unbounded.
const maxPendingLines = 100

// FatalError reports a pipeline-integrity or structural-assumption
// violation per spec.md §7 kinds 3 and 4. The caller is expected to abort
// the pipeline on receipt.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string { return "parser: " + e.Reason }

// Emitted pairs a committed event with the timestamp extracted from the
// triggering input, when timestamp extraction is enabled.
type Emitted struct {
	Event     events.GameEvent
	Timestamp *time.Time
}

// TimestampLogger receives a best-effort diagnostic when §4.4 timestamp
// extraction fails to parse a line that otherwise matched the HH:MM:SS.mmm
// shape. Implemented by internal/logging in the real binary.
type TimestampLogger interface {
	Warn(msg string, args ...any)
}

// Options configures optional parser behavior.
type Options struct {
	// ExtractTimestamps enables the §4.4 timestamp-extraction pass.
	ExtractTimestamps bool
	// Logger receives timestamp-parse-failure diagnostics. Ignored if nil.
	Logger TimestampLogger
}

// pending tracks the single in-flight multi-line block, if any.
type pending struct {
	rule   rules.Rule
	buffer string
	lines  int
}

// Parser holds the rule catalogue and at-most-one pending block state.
// Not safe for concurrent use: intended to be driven by a single goroutine
// per spec.md §5.
type Parser struct {
	rules   []rules.Rule
	pending *pending
	opts    Options
}

// New builds a Parser over the given rule catalogue.
func New(catalogue *rules.Catalogue, opts Options) *Parser {
	return &Parser{rules: catalogue.Rules(), opts: opts}
}

// Run consumes lines from in and sends Emitted values to out until in is
// closed or ctx is cancelled. Returns the first FatalError encountered, if
// any; a nil return with in exhausted is a clean shutdown.
func (p *Parser) Run(ctx context.Context, in <-chan string, out chan<- Emitted) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-in:
			if !ok {
				return nil
			}
			event, ferr := p.Feed(line)
			if ferr != nil {
				return ferr
			}
			if event == nil {
				continue
			}
			emitted := Emitted{Event: event}
			if p.opts.ExtractTimestamps {
				emitted.Timestamp = p.extractTimestamp(line)
			}
			select {
			case out <- emitted:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Feed evaluates a single incoming line against the current state and
// returns a committed event, or nil if no rule completed on this line.
func (p *Parser) Feed(line string) (events.GameEvent, error) {
	var (
		candidates []rules.Rule
		input      string
	)

	if p.pending != nil {
		p.pending.buffer = p.pending.buffer + "\n" + line
		p.pending.lines++
		if p.pending.lines > maxPendingLines {
			return nil, &FatalError{Reason: fmt.Sprintf("pending block exceeded %d lines without resolving", maxPendingLines)}
		}
		candidates = []rules.Rule{p.pending.rule}
		input = p.pending.buffer
	} else {
		candidates = p.rules
		input = line
	}

	hadPending := p.pending != nil

	for _, rule := range candidates {
		outcome := rule(input)
		switch outcome.Kind {
		case rules.Parsed:
			p.pending = nil
			return outcome.Event, nil
		case rules.NeedMoreLines:
			lines := 1
			if hadPending {
				lines = p.pending.lines
			}
			p.pending = &pending{rule: rule, buffer: input, lines: lines}
			return nil, nil
		case rules.Unreachable:
			return nil, &FatalError{Reason: "rule reported an unreachable state"}
		case rules.None:
			continue
		}
	}

	// No rule matched. If a block was pending, the rule that requested
	// more lines has effectively changed its mind (on a later line it
	// would have matched None) -- abandon the block and resynchronise.
	if hadPending {
		p.pending = nil
	}
	return nil, nil
}

// extractTimestamp implements spec.md §4.4: scan for the first
// HH:MM:SS.mmm occurrence and combine with today's date in local time.
func (p *Parser) extractTimestamp(line string) *time.Time {
	idx := findTimeOfDay(line)
	if idx < 0 {
		return nil
	}
	raw := line[idx : idx+12]
	tod, err := time.ParseInLocation("15:04:05.000", raw, time.Local)
	if err != nil {
		if p.opts.Logger != nil {
			p.opts.Logger.Warn("timestamp extraction failed", "line", line, "error", err)
		}
		return nil
	}
	now := time.Now()
	combined := time.Date(now.Year(), now.Month(), now.Day(), tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(), time.Local)
	return &combined
}

// findTimeOfDay returns the byte index of the first substring matching
// HH:MM:SS.mmm (fixed width, digits and literal separators only), or -1.
func findTimeOfDay(line string) int {
	const width = len("15:04:05.000")
	for i := 0; i+width <= len(line); i++ {
		candidate := line[i : i+width]
		if isTimeOfDayShape(candidate) {
			return i
		}
	}
	return -1
}

func isTimeOfDayShape(s string) bool {
	if len(s) != 12 {
		return false
	}
	isDigit := func(b byte) bool { return b >= '0' && b <= '9' }
	return isDigit(s[0]) && isDigit(s[1]) && s[2] == ':' &&
		isDigit(s[3]) && isDigit(s[4]) && s[5] == ':' &&
		isDigit(s[6]) && isDigit(s[7]) && s[8] == '.' &&
		isDigit(s[9]) && isDigit(s[10]) && isDigit(s[11])
}
