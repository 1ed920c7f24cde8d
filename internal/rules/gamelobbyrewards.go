package rules

import (
	"strconv"
	"strings"

	"github.com/ilsubyeega/fgtail/internal/events"
)

var (
	reRoundTitle = `\[Round (?P<order>[0-9]+) \| (?P<round_id_str>[a-zA-Z0-9_-]+)\]`
	reRoundProp  = `> (?P<key>[a-zA-Z0-9 _-]+): (?P<value>[a-zA-Z0-9_-]*)`
)

// isOutOfScopeLine reports whether line is known to fall after the end of
// an end-of-episode rewards block: a subsequent reward-service log, a
// spectator-shot retry, or an exception trace.
func isOutOfScopeLine(line string) bool {
	return strings.Contains(line, "[RewardService] Processing claimed rewards") ||
		strings.Contains(line, ".TryUseSpectatingPlayersShot") ||
		strings.Contains(line, "Exception")
}

// looksLikeRewardLine reports whether line still looks like it belongs to
// the rewards block (a "> key: value" property, a "[Round …]" header, or
// the opening tag itself).
func looksLikeRewardLine(line string) bool {
	return (strings.Contains(line, "> ") && strings.Contains(line, ":")) ||
		(strings.Contains(line, "[Round") && strings.Contains(line, "]")) ||
		strings.Contains(line, "CompletedEpisodeDto")
}

// gameLobbyRewards parses the end-of-episode rewards block, which has a
// fixed header of (up to) four totals followed by per-round sub-blocks,
// and carries no explicit terminator. Completion is decided heuristically:
// see spec.md §4.3 "The hardest rule".
func (c *Catalogue) gameLobbyRewards(input string) Outcome {
	if !strings.Contains(input, " [CompletedEpisodeDto] ") {
		return NoneOutcome
	}

	lines := strings.Split(input, "\n")
	lastLine := lines[len(lines)-1]

	if !isOutOfScopeLine(input) {
		if looksLikeRewardLine(lastLine) || len(lines) < 8 {
			return NeedMoreLinesOutcome
		}

		minNonRewardWidth := -1
		for _, l := range lines {
			if looksLikeRewardLine(l) {
				continue
			}
			if minNonRewardWidth == -1 || len(l) < minNonRewardWidth {
				minNonRewardWidth = len(l)
			}
		}
		if minNonRewardWidth == -1 {
			// lastLine already failed looksLikeRewardLine above, so at
			// least one non-reward-looking line always exists here.
			return UnreachableOutcome
		}
		diff := minNonRewardWidth - len(lastLine)
		if diff < 0 {
			diff = -diff
		}
		if diff < 5 {
			return NeedMoreLinesOutcome
		}
	}

	var (
		kudos, fame, crowns, currentCrownShards *int
		rounds                                  []events.CompletedRound
	)

	roundOrder := -1
	temp := newCompletedRound()

	titleRe := compile(reRoundTitle)
	propRe := compile(reRoundProp)

	for _, line := range lines {
		if isOutOfScopeLine(line) {
			break
		}
		if strings.Contains(line, "[") && strings.Contains(line, "Round ") && strings.Contains(line, "]") {
			if roundOrder != -1 {
				rounds = append(rounds, temp)
				temp = newCompletedRound()
			}
			m := titleRe.FindStringSubmatch(line)
			if m == nil {
				return UnreachableOutcome
			}
			groups := namedGroups(titleRe, m)
			order, err := strconv.Atoi(groups["order"])
			if err != nil {
				return UnreachableOutcome
			}
			roundID := groups["round_id_str"]
			roundOrder = order
			temp.RoundOrder = order
			temp.RoundID = roundID
			temp.RoundDisplayName = c.ref.RoundDisplayName(roundID)
		} else if strings.Contains(line, "> ") && strings.Contains(line, ": ") {
			m := propRe.FindStringSubmatch(line)
			if m == nil {
				return UnreachableOutcome
			}
			groups := namedGroups(propRe, m)
			key, value := groups["key"], groups["value"]

			if roundOrder == -1 {
				switch key {
				case "Kudos":
					if n, err := strconv.Atoi(value); err == nil {
						kudos = &n
					} else {
						return UnreachableOutcome
					}
				case "Fame":
					if n, err := strconv.Atoi(value); err == nil {
						fame = &n
					} else {
						return UnreachableOutcome
					}
				case "Crowns":
					if n, err := strconv.Atoi(value); err == nil {
						crowns = &n
					} else {
						return UnreachableOutcome
					}
				case "CurrentCrownShards":
					if n, err := strconv.Atoi(value); err == nil {
						currentCrownShards = &n
					} else {
						return UnreachableOutcome
					}
				}
				continue
			}

			if value == "" {
				continue
			}
			switch key {
			case "Qualified":
				temp.Qualified = value == "True"
			case "Position":
				if n, err := strconv.Atoi(value); err == nil {
					temp.Position = n
				} else {
					return UnreachableOutcome
				}
			case "Team Score":
				if n, err := strconv.Atoi(value); err == nil {
					temp.TeamScore = n
				} else {
					return UnreachableOutcome
				}
			case "Kudos":
				if n, err := strconv.Atoi(value); err == nil {
					temp.Kudos = n
				} else {
					return UnreachableOutcome
				}
			case "Fame":
				if n, err := strconv.Atoi(value); err == nil {
					temp.Fame = n
				} else {
					return UnreachableOutcome
				}
			case "Bonus Tier":
				if n, err := strconv.Atoi(value); err == nil {
					temp.BonusTier = n
				} else {
					return UnreachableOutcome
				}
			case "Bonus Kudos":
				if n, err := strconv.Atoi(value); err == nil {
					temp.BonusKudos = n
				} else {
					return UnreachableOutcome
				}
			case "Bonus Fame":
				if n, err := strconv.Atoi(value); err == nil {
					temp.BonusFame = n
				} else {
					return UnreachableOutcome
				}
			case "BadgeId":
				temp.Badge = events.ParseRoundBadge(value)
			default:
				return UnreachableOutcome
			}
		}
	}

	if roundOrder != -1 {
		rounds = append(rounds, temp)
	}

	return ParsedOutcome(events.GameLobbyRewards{
		Episode: events.CompletedEpisode{
			Kudos:              kudos,
			Fame:               fame,
			Crowns:             crowns,
			CurrentCrownShards: currentCrownShards,
			Rounds:             rounds,
		},
	})
}

func newCompletedRound() events.CompletedRound {
	return events.CompletedRound{Badge: events.BadgeFail}
}
