package events

import (
	"encoding/json"
	"strings"
)

// GameState enumerates the FGClient state-machine states observed in
// [GameStateMachine] log lines.
type GameState struct {
	name string
}

var (
	StateMainMenu                  = GameState{"StateMainMenu"}
	StateMatchmaking               = GameState{"StateMatchmaking"}
	StateConnectToGame             = GameState{"StateConnectToGame"}
	StateConnectionAuthentication  = GameState{"StateConnectionAuthentication"}
	StateGameLoading               = GameState{"StateGameLoading"}
	StateWaitingForUser            = GameState{"StateWaitingForUser"}
	StateGameInProgress            = GameState{"StateGameInProgress"}
	StateQualificationScreen       = GameState{"StateQualificationScreen"}
	StateRoundReadyUp              = GameState{"StateRoundReadyUp"}
	StateUltimatePartyRewardFlow   = GameState{"StateUltimatePartyRewardFlow"}
	StateVictoryScreen             = GameState{"StateVictoryScreen"}
	StateWaitingForRewards         = GameState{"StateWaitingForRewards"}
	StateDisconnectingFromServer   = GameState{"StateDisconnectingFromServer"}
	StateRewardScreen              = GameState{"StateRewardScreen"}
	StateReloadingToMainMenu       = GameState{"StateReloadingToMainMenu"}
)

// ParseGameState maps a raw state token (optionally prefixed with
// "FGClient.") to a GameState, falling back to Unknown(raw).
func ParseGameState(raw string) GameState {
	text := strings.TrimPrefix(raw, "FGClient.")
	switch text {
	case "StateMainMenu":
		return StateMainMenu
	case "StateMatchmaking":
		return StateMatchmaking
	case "StateConnectToGame":
		return StateConnectToGame
	case "StateConnectionAuthentication":
		return StateConnectionAuthentication
	case "StateGameLoading":
		return StateGameLoading
	case "StateWaitingForUser":
		return StateWaitingForUser
	case "StateGameInProgress":
		return StateGameInProgress
	case "StateQualificationScreen":
		return StateQualificationScreen
	case "StateRoundReadyUp":
		return StateRoundReadyUp
	case "StateUltimatePartyRewardFlow":
		return StateUltimatePartyRewardFlow
	case "StateVictoryScreen":
		return StateVictoryScreen
	case "StateWaitingForRewards":
		return StateWaitingForRewards
	case "StateDisconnectingFromServer":
		return StateDisconnectingFromServer
	case "StateRewardScreen":
		return StateRewardScreen
	case "StateReloadingToMainMenu":
		return StateReloadingToMainMenu
	default:
		return GameState{"Unknown:" + text}
	}
}

// IsUnknown reports whether the state didn't match a known value.
func (s GameState) IsUnknown() bool { return strings.HasPrefix(s.name, "Unknown:") }

// Raw returns the underlying raw token for Unknown states, else "".
func (s GameState) Raw() string {
	if s.IsUnknown() {
		return strings.TrimPrefix(s.name, "Unknown:")
	}
	return ""
}

func (s GameState) String() string { return s.name }

// MarshalJSON encodes the raw state name, so capture/broadcast consumers
// see the actual state instead of an empty object.
func (s GameState) MarshalJSON() ([]byte, error) { return json.Marshal(s.name) }

// ClientReadinessState enumerates [ClientGameManager] readiness states.
type ClientReadinessState struct{ name string }

var (
	ReceivedLevelDetails = ClientReadinessState{"ReceivedLevelDetails"}
	LevelLoaded          = ClientReadinessState{"LevelLoaded"}
	ObjectsSpawned       = ClientReadinessState{"ObjectsSpawned"}
	ReadyToPlay          = ClientReadinessState{"ReadyToPlay"}
)

// ParseClientReadinessState maps a raw readiness token, falling back to Unknown(raw).
func ParseClientReadinessState(raw string) ClientReadinessState {
	switch raw {
	case "ReceivedLevelDetails":
		return ReceivedLevelDetails
	case "LevelLoaded":
		return LevelLoaded
	case "ObjectsSpawned":
		return ObjectsSpawned
	case "ReadyToPlay":
		return ReadyToPlay
	default:
		return ClientReadinessState{"Unknown:" + raw}
	}
}

func (s ClientReadinessState) IsUnknown() bool { return strings.HasPrefix(s.name, "Unknown:") }
func (s ClientReadinessState) Raw() string {
	if s.IsUnknown() {
		return strings.TrimPrefix(s.name, "Unknown:")
	}
	return ""
}
func (s ClientReadinessState) String() string { return s.name }

// MarshalJSON encodes the raw readiness name, so capture/broadcast
// consumers see the actual state instead of an empty object.
func (s ClientReadinessState) MarshalJSON() ([]byte, error) { return json.Marshal(s.name) }

// GameSessionStateEnum enumerates [GameSession] state-change tokens. Named
// distinctly from the GameSessionState event struct in events.go, which
// wraps a before/after pair of this type.
type GameSessionStateEnum struct{ name string }

var (
	Precountdown = GameSessionStateEnum{"Precountdown"}
	Countdown    = GameSessionStateEnum{"Countdown"}
	Playing      = GameSessionStateEnum{"Playing"}
	GameOver     = GameSessionStateEnum{"GameOver"}
	Results      = GameSessionStateEnum{"Results"}
)

// ParseGameSessionState maps a raw session-state token, falling back to Unknown(raw).
func ParseGameSessionState(raw string) GameSessionStateEnum {
	switch raw {
	case "Precountdown":
		return Precountdown
	case "Countdown":
		return Countdown
	case "Playing":
		return Playing
	case "GameOver":
		return GameOver
	case "Results":
		return Results
	default:
		return GameSessionStateEnum{"Unknown:" + raw}
	}
}

func (s GameSessionStateEnum) IsUnknown() bool { return strings.HasPrefix(s.name, "Unknown:") }
func (s GameSessionStateEnum) Raw() string {
	if s.IsUnknown() {
		return strings.TrimPrefix(s.name, "Unknown:")
	}
	return ""
}
func (s GameSessionStateEnum) String() string { return s.name }

// MarshalJSON encodes the raw session-state name, so capture/broadcast
// consumers see the actual state instead of an empty object.
func (s GameSessionStateEnum) MarshalJSON() ([]byte, error) { return json.Marshal(s.name) }

// Platform enumerates the platform identifiers seen in spectator-target lines.
type Platform struct{ name string }

var (
	PCEpicGamesStore        = Platform{"pc_egs"}
	PCSteam                 = Platform{"pc_steam"}
	PCStandalone            = Platform{"pc_standalone"}
	Switch                  = Platform{"switch"}
	XboxOne                 = Platform{"xb1"}
	XboxSeriesX             = Platform{"xsx"}
	PlayStation4            = Platform{"ps4"}
	PlayStation5            = Platform{"ps5"}
	AndroidStandalone       = Platform{"android_standalone"}
	AndroidEpicGamesAccount = Platform{"android_ega"}
	IOSEpicGamesAccount     = Platform{"ios_ega"}
)

// ParsePlatform maps a raw platform token, falling back to Unknown(raw).
func ParsePlatform(raw string) Platform {
	switch raw {
	case "pc_egs":
		return PCEpicGamesStore
	case "pc_steam":
		return PCSteam
	case "pc_standalone":
		return PCStandalone
	case "switch":
		return Switch
	case "xb1":
		return XboxOne
	case "xsx":
		return XboxSeriesX
	case "ps4":
		return PlayStation4
	case "ps5":
		return PlayStation5
	case "android_standalone":
		return AndroidStandalone
	case "android_ega":
		return AndroidEpicGamesAccount
	case "ios_ega":
		return IOSEpicGamesAccount
	default:
		return Platform{"Unknown:" + raw}
	}
}

func (p Platform) IsUnknown() bool { return strings.HasPrefix(p.name, "Unknown:") }
func (p Platform) Raw() string {
	if p.IsUnknown() {
		return strings.TrimPrefix(p.name, "Unknown:")
	}
	return ""
}
func (p Platform) String() string { return p.name }

// MarshalJSON encodes the raw platform identifier, so capture/broadcast
// consumers see the actual platform instead of an empty object.
func (p Platform) MarshalJSON() ([]byte, error) { return json.Marshal(p.name) }

// RoundBadge enumerates the per-round reward badge identifiers.
type RoundBadge struct{ name string }

var (
	BadgeGold   = RoundBadge{"gold"}
	BadgeSilver = RoundBadge{"silver"}
	BadgeBronze = RoundBadge{"bronze"}
	BadgeNone   = RoundBadge{"none"}
	BadgeFail   = RoundBadge{"fail"}
)

// ParseRoundBadge maps a raw badge token, falling back to Unknown(raw).
func ParseRoundBadge(raw string) RoundBadge {
	switch raw {
	case "gold":
		return BadgeGold
	case "silver":
		return BadgeSilver
	case "bronze":
		return BadgeBronze
	case "none":
		return BadgeNone
	case "fail":
		return BadgeFail
	default:
		return RoundBadge{"Unknown:" + raw}
	}
}

func (b RoundBadge) IsUnknown() bool { return strings.HasPrefix(b.name, "Unknown:") }
func (b RoundBadge) Raw() string {
	if b.IsUnknown() {
		return strings.TrimPrefix(b.name, "Unknown:")
	}
	return ""
}
func (b RoundBadge) String() string { return b.name }

// MarshalJSON encodes the raw badge identifier, so capture/broadcast
// consumers see the actual badge instead of an empty object.
func (b RoundBadge) MarshalJSON() ([]byte, error) { return json.Marshal(b.name) }
