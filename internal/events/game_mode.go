package events

import (
	"encoding/json"
	"fmt"
)

// GameMode is a closed enumeration over the show-id classifications the
// parser can produce. It is a tagged union: exactly one of the Is*
// predicates is true for any constructed value.
type GameMode struct {
	kind gameModeKind

	// Extra fields, valid when kind == gameModeKindExtra.
	extraName string
	extraID   string

	// UnknownAssumed fields, valid when kind == gameModeKindUnknownAssumed.
	// Only the kind of the inferred mode is kept.
	assumedKind gameModeKind
	rawID       string

	// Unknown fields, valid when kind == gameModeKindUnknown.
	unknownID string
}

type gameModeKind int

const (
	gameModeKindKnockout gameModeKind = iota
	gameModeKindRankedKnockout
	gameModeKindClassicSolo
	gameModeKindClassicDuo
	gameModeKindClassicSquads
	gameModeKindExplore
	gameModeKindCreatorSpotlight
	gameModeKindExtra
	gameModeKindUnknownAssumed
	gameModeKindUnknown
)

var (
	Knockout         = GameMode{kind: gameModeKindKnockout}
	RankedKnockout   = GameMode{kind: gameModeKindRankedKnockout}
	ClassicSolo      = GameMode{kind: gameModeKindClassicSolo}
	ClassicDuo       = GameMode{kind: gameModeKindClassicDuo}
	ClassicSquads    = GameMode{kind: gameModeKindClassicSquads}
	Explore          = GameMode{kind: gameModeKindExplore}
	CreatorSpotlight = GameMode{kind: gameModeKindCreatorSpotlight}
)

// ExtraGameMode builds the "Extra" variant for a show resolved via the
// shows reference table.
func ExtraGameMode(name, id string) GameMode {
	return GameMode{kind: gameModeKindExtra, extraName: name, extraID: id}
}

// UnknownAssumedGameMode builds the heuristic-classification variant: the
// show id did not match any known literal or reference-table entry, but a
// substring heuristic inferred a plausible mode.
func UnknownAssumedGameMode(assumed GameMode, raw string) GameMode {
	return GameMode{kind: gameModeKindUnknownAssumed, assumedKind: assumed.kind, rawID: raw}
}

// UnknownGameMode builds the fully-unclassified variant: neither a literal
// match, a reference-table entry, nor a substring heuristic applied.
func UnknownGameMode(raw string) GameMode {
	return GameMode{kind: gameModeKindUnknown, unknownID: raw}
}

func (m GameMode) IsExtra() bool          { return m.kind == gameModeKindExtra }
func (m GameMode) IsUnknownAssumed() bool { return m.kind == gameModeKindUnknownAssumed }
func (m GameMode) IsUnknown() bool        { return m.kind == gameModeKindUnknown }

// Extra returns the show name/id for the Extra variant.
func (m GameMode) Extra() (name, id string) { return m.extraName, m.extraID }

// Assumed returns the heuristically-inferred mode and the raw id for the
// UnknownAssumed variant.
func (m GameMode) Assumed() (GameMode, string) { return GameMode{kind: m.assumedKind}, m.rawID }

// Unknown returns the raw id for the Unknown variant.
func (m GameMode) Unknown() string { return m.unknownID }

func (m GameMode) String() string {
	switch m.kind {
	case gameModeKindKnockout:
		return "Knockout"
	case gameModeKindRankedKnockout:
		return "Ranked Knockout"
	case gameModeKindClassicSolo:
		return "Classic Solo"
	case gameModeKindClassicDuo:
		return "Classic Duo"
	case gameModeKindClassicSquads:
		return "Classic Squads"
	case gameModeKindExplore:
		return "Explore"
	case gameModeKindCreatorSpotlight:
		return "Creator Spotlight"
	case gameModeKindExtra:
		return fmt.Sprintf("%s (%s)", m.extraName, m.extraID)
	case gameModeKindUnknownAssumed:
		return fmt.Sprintf("Unknown: %s (Assumed %s)", m.rawID, GameMode{kind: m.assumedKind})
	case gameModeKindUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes the variant as a JSON object carrying its kind and
// variant-specific data, so capture/broadcast consumers see the actual
// classification instead of an empty object.
func (m GameMode) MarshalJSON() ([]byte, error) {
	switch m.kind {
	case gameModeKindExtra:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
			ID   string `json:"id"`
		}{"extra", m.extraName, m.extraID})
	case gameModeKindUnknownAssumed:
		return json.Marshal(struct {
			Kind    string   `json:"kind"`
			Assumed GameMode `json:"assumed"`
			RawID   string   `json:"raw_id"`
		}{"unknown_assumed", GameMode{kind: m.assumedKind}, m.rawID})
	case gameModeKindUnknown:
		return json.Marshal(struct {
			Kind  string `json:"kind"`
			RawID string `json:"raw_id"`
		}{"unknown", m.unknownID})
	default:
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{m.String()})
	}
}
