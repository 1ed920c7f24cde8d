package rules

import (
	"strings"

	"github.com/ilsubyeega/fgtail/internal/events"
	"github.com/ilsubyeega/fgtail/internal/refdata"
)

// ReferenceData is the slice of refdata.Assets the rule catalogue needs.
// Declared as an interface so rule evaluation can be unit tested against a
// fake table without embedding the real JSON bundle.
type ReferenceData interface {
	ShowDisplayName(showID string) string
	IsKnownShow(showID string) bool
	RoundDisplayName(roundID string) string
}

var _ ReferenceData = (*refdata.Assets)(nil)

// classifyGameMode resolves a show id captured from a "Selected show is …"
// line into a GameMode, following the literal table, then the shows
// reference table, then the substring-heuristic fallback, in that order.
func classifyGameMode(showID string, ref ReferenceData) events.GameMode {
	switch showID {
	case "ranked_show_knockout":
		return events.RankedKnockout
	case "knockout_mode":
		return events.Knockout
	case "classic_solo_main_show":
		return events.ClassicSolo
	case "classic_duos_show":
		return events.ClassicDuo
	case "classic_squads_show":
		return events.ClassicSquads
	case "spotlight_mode":
		return events.CreatorSpotlight
	case "casual_show":
		return events.Explore
	}

	if ref.IsKnownShow(showID) {
		return events.ExtraGameMode(ref.ShowDisplayName(showID), showID)
	}

	fallback, matched := fallbackGameMode(showID)
	if !matched {
		return events.UnknownGameMode(showID)
	}
	return events.UnknownAssumedGameMode(fallback, showID)
}

// fallbackGameMode applies the substring heuristic described in spec.md
// §4.3 "Fallback classification of game modes". ok is false when no
// substring matched.
func fallbackGameMode(showID string) (mode events.GameMode, ok bool) {
	switch {
	case strings.Contains(showID, "solo"):
		return events.ClassicSolo, true
	case strings.Contains(showID, "duo"):
		return events.ClassicDuo, true
	case strings.Contains(showID, "squads"):
		return events.ClassicSquads, true
	case strings.Contains(showID, "ranked"):
		return events.RankedKnockout, true
	case strings.Contains(showID, "knockout"):
		return events.Knockout, true
	case strings.Contains(showID, "explore"):
		return events.Explore, true
	default:
		return events.GameMode{}, false
	}
}

// classifyRoundInfo resolves a round id captured from "Finished loading
// game level, assumed to be …" into a RoundInfo, bypassing the reference
// table entirely for user-generated ("ugc-"-prefixed) rounds.
func classifyRoundInfo(roundID string, ref ReferenceData) events.RoundInfo {
	if strings.HasPrefix(roundID, "ugc-") {
		return events.RoundInfo{ID: roundID, DisplayName: "Creative: " + roundID}
	}
	return events.RoundInfo{ID: roundID, DisplayName: ref.RoundDisplayName(roundID)}
}
