package rules

import (
	"strconv"
	"strings"

	"github.com/ilsubyeega/fgtail/internal/events"
)

// Catalogue holds the fixed rule list together with the reference-data
// dependency a handful of rules need (game mode / round display names).
type Catalogue struct {
	ref ReferenceData
}

// New builds a Catalogue backed by ref.
func New(ref ReferenceData) *Catalogue {
	return &Catalogue{ref: ref}
}

// Rules returns the full rule list in the exact evaluation order required
// by spec.md §6.4.
func (c *Catalogue) Rules() []Rule {
	return []Rule{
		c.gameStateChanged,
		c.beginMatchmaking,
		c.matchmakingMessageReceived,
		c.serverConnected,
		c.createLocalPlayer,
		c.successfullyJoined,
		c.networkMetrics,
		c.setClientReadiness,
		c.loadedRound,
		c.requestLocalPlayer,
		c.handleRemotePlayer,
		c.handleLocalPlayer,
		c.appendSpectatorTarget,
		c.playerSpawned,
		c.setLocalSquadID,
		c.setLocalPartyID,
		c.gameSessionState,
		c.setNumPlayersAchievingObjective,
		c.setPlayerScore,
		c.handleUnspawn,
		c.setPlayerProgress,
		c.gameLobbyRewards,
		c.creativeRoundLoader,
		c.leaveMatch,
		c.roundOver,
		c.serverMessageStartLoadingLevel,
		c.serverMessageReadyRoundResponse,
		c.serverMessageRoundResults,
		c.serverMessageEndRound,
	}
}

var reGameStateChanged = `Replacing (?P<before>[a-zA-Z0-9_.-]+) with (?P<after>[a-zA-Z0-9_.-]+)?`

func (c *Catalogue) gameStateChanged(input string) Outcome {
	if !strings.Contains(input, "[GameStateMachine] Replacing ") || !strings.Contains(input, " with ") {
		return NoneOutcome
	}
	m := compile(reGameStateChanged).FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(compile(reGameStateChanged), m)
	after, ok := groups["after"]
	if !ok {
		return UnreachableOutcome
	}
	var before *events.GameState
	if raw, ok := groups["before"]; ok {
		s := events.ParseGameState(raw)
		before = &s
	}
	return ParsedOutcome(events.GameStateChanged{Before: before, After: events.ParseGameState(after)})
}

func (c *Catalogue) beginMatchmaking(input string) Outcome {
	if !strings.Contains(input, "[Matchmaking] Begin matchmaking") {
		return NoneOutcome
	}
	return ParsedOutcome(events.BeginMatchmaking{})
}

var reMatchmakingStatusField = `"(?P<key>[a-zA-Z0-9_.-]+)": ("?)(?P<value>(null|([a-zA-Z0-9_.-]+)))("?)`

func (c *Catalogue) matchmakingMessageReceived(input string) Outcome {
	if !strings.Contains(input, "[FNMMSClientRemoteService] Status message received:") {
		return NoneOutcome
	}
	if !strings.Contains(input, "\"state\": ") {
		return NeedMoreLinesOutcome
	}

	re := compile(reMatchmakingStatusField)
	for _, line := range strings.Split(input, "\n") {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		groups := namedGroups(re, m)
		key, value := groups["key"], groups["value"]
		switch key {
		case "name":
			switch value {
			case "Play":
				return ParsedOutcome(events.MatchmakingMessageReceived{
					Message: events.NewMatchmakingMessage(events.MMPlay),
				})
			case "Error":
				return NoneOutcome
			}
		case "queuedPlayers":
			if value != "null" {
				if n, err := strconv.Atoi(value); err == nil {
					return ParsedOutcome(events.MatchmakingMessageReceived{
						Message: events.NewMatchmakingQueued(n),
					})
				}
			}
		case "state":
			switch value {
			case "Connecting":
				return ParsedOutcome(events.MatchmakingMessageReceived{
					Message: events.NewMatchmakingMessage(events.MMConnecting),
				})
			case "QueueFull":
				return ParsedOutcome(events.MatchmakingMessageReceived{
					Message: events.NewMatchmakingMessage(events.MMQueueFull),
				})
			case "Waiting":
				return ParsedOutcome(events.MatchmakingMessageReceived{
					Message: events.NewMatchmakingMessage(events.MMWaiting),
				})
			case "SessionAssignment":
				return ParsedOutcome(events.MatchmakingMessageReceived{
					Message: events.NewMatchmakingMessage(events.MMSessionAssignment),
				})
			}
		}
	}
	// The "state": gate matched, so a further-iteration line carrying a
	// recognised key/value is structurally required; none arriving is a
	// grammar shift the rule cannot otherwise explain.
	return UnreachableOutcome
}

var reServerConnected = `InitiateNetworkConnectRequest with server IP: (?P<ip>[0-9.]+):(?P<port>[0-9]+)?`

func (c *Catalogue) serverConnected(input string) Outcome {
	if !strings.Contains(input, "[StateConnectToGame] InitiateNetworkConnectRequest with server IP: ") {
		return NoneOutcome
	}
	re := compile(reServerConnected)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return UnreachableOutcome
	}
	groups := namedGroups(re, m)
	ip, ok := groups["ip"]
	if !ok {
		return UnreachableOutcome
	}
	var port *string
	if p, ok := groups["port"]; ok {
		port = &p
	}
	return ParsedOutcome(events.ServerConnected{IP: ip, Port: port})
}

var reCreateLocalPlayer = `Added new player as Participant, player ID = (?P<player_id>\d+)`

func (c *Catalogue) createLocalPlayer(input string) Outcome {
	if !strings.Contains(input, "[CreateLocalPlayerInstances] Added new player as Participant") {
		return NoneOutcome
	}
	re := compile(reCreateLocalPlayer)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	id, err := strconv.Atoi(groups["player_id"])
	if err != nil {
		return UnreachableOutcome
	}
	return ParsedOutcome(events.CreateLocalPlayer{PlayerID: id})
}

var (
	reSelectedShow = `Selected show is (?P<selected_show>[a-zA-Z0-9_]+)`
	reSession      = `Session: (?P<session>[a-zA-Z0-9_-]+)`
)

func (c *Catalogue) successfullyJoined(input string) Outcome {
	if !strings.Contains(input, "[HandleSuccessfulLogin] Selected show is ") {
		return NoneOutcome
	}
	if !strings.Contains(input, "[HandleSuccessfulLogin] Session: ") {
		return NeedMoreLinesOutcome
	}

	m := compile(reSelectedShow).FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	showID := namedGroups(compile(reSelectedShow), m)["selected_show"]

	var session *string
	if m2 := compile(reSession).FindStringSubmatch(input); m2 != nil {
		if s, ok := namedGroups(compile(reSession), m2)["session"]; ok {
			session = &s
		}
	}

	return ParsedOutcome(events.SuccessfullyJoined{
		GameMode: classifyGameMode(showID, c.ref),
		Session:  session,
	})
}

var reNetworkMetrics = `Network - RTT: (?P<latency>[0-9,]+)ms`

func (c *Catalogue) networkMetrics(input string) Outcome {
	if !strings.Contains(input, "[FG_UnityInternetNetworkManager] Networking Metrics after") {
		return NoneOutcome
	}
	if !strings.Contains(input, "Network - RTT: ") {
		return NeedMoreLinesOutcome
	}
	re := compile(reNetworkMetrics)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return UnreachableOutcome
	}
	raw := strings.ReplaceAll(namedGroups(re, m)["latency"], ",", "")
	latency, err := strconv.Atoi(raw)
	if err != nil {
		latency = -1
	}
	return ParsedOutcome(events.NetworkMetrics{LatencyMs: latency})
}

var reClientReadiness = `Setting this client as readiness state '(?P<state>[a-zA-Z0-9]+)'`

func (c *Catalogue) setClientReadiness(input string) Outcome {
	if !strings.Contains(input, "[ClientGameManager] Setting this client as readiness state") {
		return NoneOutcome
	}
	re := compile(reClientReadiness)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return UnreachableOutcome
	}
	state := namedGroups(re, m)["state"]
	return ParsedOutcome(events.SetClientReadiness{State: events.ParseClientReadinessState(state)})
}

var reLoadedRound = `Finished loading game level, assumed to be (?P<level>[a-zA-Z0-9_-]+)\.`

func (c *Catalogue) loadedRound(input string) Outcome {
	if !strings.Contains(input, "[StateGameLoading] Finished loading game level,") {
		return NoneOutcome
	}
	re := compile(reLoadedRound)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	level := namedGroups(re, m)["level"]
	return ParsedOutcome(events.LoadedRound{Round: classifyRoundInfo(level, c.ref)})
}

var reRequestLocalPlayer = `Requesting spawn of local player, ID=(?P<id>[0-9]+)`

func (c *Catalogue) requestLocalPlayer(input string) Outcome {
	if !strings.Contains(input, "Requesting spawn of local player, ID=") {
		return NoneOutcome
	}
	re := compile(reRequestLocalPlayer)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	id, err := strconv.Atoi(namedGroups(re, m)["id"])
	if err != nil {
		return UnreachableOutcome
	}
	return ParsedOutcome(events.RequestLocalPlayer{PlayerID: id})
}

var reHandleRemotePlayer = `Handling bootstrap for remote player (?P<player_name>[\s\S]+) \[(?P<net_id>[0-9]+)\] \((?P<class>[\s\S]+)\), playerID = (?P<player_id>[0-9]+), squadID = (?P<squad_id>[0-9]+)`

func (c *Catalogue) handleRemotePlayer(input string) Outcome {
	if !strings.Contains(input, "[ClientGameManager] Handling bootstrap for remote player ") {
		return NoneOutcome
	}
	re := compile(reHandleRemotePlayer)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	playerID, err1 := strconv.Atoi(groups["player_id"])
	netPlayerID, err2 := strconv.Atoi(groups["net_id"])
	if err1 != nil || err2 != nil {
		return UnreachableOutcome
	}
	var squadID *int
	if sid, err := strconv.Atoi(groups["squad_id"]); err == nil {
		squadID = &sid
	}
	return ParsedOutcome(events.HandleRemotePlayer{
		PlayerID:    playerID,
		NetPlayerID: netPlayerID,
		SquadID:     squadID,
	})
}

var reHandleLocalPlayer = `\[ClientGameManager\] Handling bootstrap for local player (?P<player_name>[\s\S]+) \[(?P<net_id>[0-9]+)\] \((?P<class>[\s\S]+)\), playerID = (?P<player_id>[0-9]+), squadID = (?P<squad_id>[0-9]+)`

func (c *Catalogue) handleLocalPlayer(input string) Outcome {
	if !strings.Contains(input, "[ClientGameManager] Handling bootstrap for local player ") {
		return NoneOutcome
	}
	re := compile(reHandleLocalPlayer)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	playerID, err1 := strconv.Atoi(groups["player_id"])
	netPlayerID, err2 := strconv.Atoi(groups["net_id"])
	if err1 != nil || err2 != nil {
		return UnreachableOutcome
	}
	var squadID *int
	if sid, err := strconv.Atoi(groups["squad_id"]); err == nil {
		squadID = &sid
	}
	return ParsedOutcome(events.HandleLocalPlayer{
		PlayerID:    playerID,
		NetPlayerID: netPlayerID,
		SquadID:     squadID,
	})
}

var reAppendSpectatorTarget = `Adding Spectator target ([\s\S]+) \((?P<platform>[\s\S]+)\) with Party ID: (?P<party_id>[0-9 ]+) Squad ID: (?P<squad_id>[0-9]+) and playerID: (?P<player_id>[0-9]+)`

func (c *Catalogue) appendSpectatorTarget(input string) Outcome {
	if !strings.Contains(input, "[CameraDirector] Adding Spectator target") {
		return NoneOutcome
	}
	re := compile(reAppendSpectatorTarget)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	playerID, err := strconv.Atoi(groups["player_id"])
	if err != nil {
		return UnreachableOutcome
	}
	platform := events.ParsePlatform(groups["platform"])

	wrapNoWhitespace := func(s string) (int, bool) {
		s = strings.ReplaceAll(s, " ", "")
		if s == "" {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	var squadID, partyID *int
	if n, ok := wrapNoWhitespace(groups["squad_id"]); ok {
		squadID = &n
	}
	if n, ok := wrapNoWhitespace(groups["party_id"]); ok {
		partyID = &n
	}

	return ParsedOutcome(events.AppendSpectatorTarget{
		PlayerID: playerID,
		SquadID:  squadID,
		PartyID:  partyID,
		Platform: platform,
	})
}

var rePlayerSpawned = `OnPlayerSpawned - NetID=(?P<net_player_id>[0-9]+) ID=(?P<player_id>[0-9]+) was spawned`

func (c *Catalogue) playerSpawned(input string) Outcome {
	if !strings.Contains(input, "[StateGameLoading] OnPlayerSpawned - NetID") {
		return NoneOutcome
	}
	re := compile(rePlayerSpawned)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	playerID, err1 := strconv.Atoi(groups["player_id"])
	netPlayerID, err2 := strconv.Atoi(groups["net_player_id"])
	if err1 != nil || err2 != nil {
		return UnreachableOutcome
	}
	return ParsedOutcome(events.PlayerSpawned{PlayerID: playerID, NetPlayerID: netPlayerID})
}

var reSetLocalSquadID = `Set Local Squad ID: (?P<player_id>[0-9]+)?`

func (c *Catalogue) setLocalSquadID(input string) Outcome {
	if !strings.Contains(input, "[CameraDirector] Set Local Squad ID: ") {
		return NoneOutcome
	}
	re := compile(reSetLocalSquadID)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	var squadID *int
	if raw, ok := groups["player_id"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return UnreachableOutcome
		}
		squadID = &n
	}
	return ParsedOutcome(events.SetLocalSquadID{SquadID: squadID})
}

var reSetLocalPartyID = `Set Local Party ID: (?P<party_id>[0-9]+)?`

func (c *Catalogue) setLocalPartyID(input string) Outcome {
	if !strings.Contains(input, "[CameraDirector] Set Local Party ID: ") {
		return NoneOutcome
	}
	re := compile(reSetLocalPartyID)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	var partyID *int
	if raw, ok := groups["party_id"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return UnreachableOutcome
		}
		partyID = &n
	}
	return ParsedOutcome(events.SetLocalPartyID{PartyID: partyID})
}

var reGameSessionState = `Changing state from (?P<before>[a-zA-Z0-9_-]+) to (?P<after>[a-zA-Z0-9_-]+)?`

func (c *Catalogue) gameSessionState(input string) Outcome {
	if !strings.Contains(input, "[GameSession] Changing state from ") {
		return NoneOutcome
	}
	re := compile(reGameSessionState)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	after, ok := groups["after"]
	if !ok {
		return UnreachableOutcome
	}
	var before *events.GameSessionStateValue
	if raw, ok := groups["before"]; ok {
		s := events.ParseGameSessionState(raw)
		before = &s
	}
	return ParsedOutcome(events.GameSessionState{Before: before, After: events.ParseGameSessionState(after)})
}

var reNumPlayersAchievingObjective = ` NumPlayersAchievingObjective=(?P<num_players>[0-9]+)`

func (c *Catalogue) setNumPlayersAchievingObjective(input string) Outcome {
	if !strings.Contains(input, "[ClientGameSession] NumPlayersAchievingObjective=") {
		return NoneOutcome
	}
	re := compile(reNumPlayersAchievingObjective)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	n, err := strconv.Atoi(namedGroups(re, m)["num_players"])
	if err != nil {
		return UnreachableOutcome
	}
	return ParsedOutcome(events.SetNumPlayersAchievingObjective{NumPlayers: n})
}

var rePlayerScore = `Player (?P<net_player_id>[0-9]+)? score = (?P<score>[0-9]+)?`

func (c *Catalogue) setPlayerScore(input string) Outcome {
	if !strings.Contains(input, "Player ") || !strings.Contains(input, " score = ") {
		return NoneOutcome
	}
	re := compile(rePlayerScore)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	netPlayerID, err1 := strconv.Atoi(groups["net_player_id"])
	score, err2 := strconv.Atoi(groups["score"])
	if err1 != nil || err2 != nil {
		return UnreachableOutcome
	}
	return ParsedOutcome(events.SetPlayerScore{NetPlayerID: netPlayerID, Score: score})
}

var reHandleUnspawn = `Handling unspawn for player (?P<net_player_id>[0-9]+)`

func (c *Catalogue) handleUnspawn(input string) Outcome {
	if !strings.Contains(input, "[ClientGameManager] Handling unspawn for player ") {
		return NoneOutcome
	}
	re := compile(reHandleUnspawn)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	netPlayerID, err := strconv.Atoi(namedGroups(re, m)["net_player_id"])
	if err != nil {
		return UnreachableOutcome
	}
	return ParsedOutcome(events.HandleUnspawn{NetPlayerID: netPlayerID})
}

var reSetPlayerProgress = `HandleServerPlayerProgress PlayerId=(?P<player_id>[0-9]+) is succeeded=(?P<is_succeeded>True|False)`

func (c *Catalogue) setPlayerProgress(input string) Outcome {
	if !strings.Contains(input, "ClientGameManager::HandleServerPlayerProgress PlayerId=") {
		return NoneOutcome
	}
	re := compile(reSetPlayerProgress)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	groups := namedGroups(re, m)
	playerID, err := strconv.Atoi(groups["player_id"])
	if err != nil {
		return UnreachableOutcome
	}
	return ParsedOutcome(events.SetPlayerProgress{
		PlayerID:  playerID,
		Succeeded: groups["is_succeeded"] == "True",
	})
}

var reCreativeRoundLoader = ` Load UGC via share code: (?P<code>[0-9-]+):(?P<version>[0-9]+)`

func (c *Catalogue) creativeRoundLoader(input string) Outcome {
	if !strings.Contains(input, "[RoundLoader] Load UGC via share code: ") {
		return NoneOutcome
	}
	re := compile(reCreativeRoundLoader)
	m := re.FindStringSubmatch(input)
	if m == nil {
		return NoneOutcome
	}
	code := namedGroups(re, m)["code"]
	return ParsedOutcome(events.CreativeRoundLoader{Code: code})
}

func (c *Catalogue) leaveMatch(input string) Outcome {
	if !strings.Contains(input, "[LeaveMatchPopupManager] Calling CloseScreen()") {
		return NoneOutcome
	}
	return ParsedOutcome(events.LeaveMatch{})
}

func (c *Catalogue) roundOver(input string) Outcome {
	if !strings.Contains(input, "[ClientGameManager] Server notifying that the round is over.") {
		return NoneOutcome
	}
	return ParsedOutcome(events.RoundOver{})
}

func (c *Catalogue) serverMessageStartLoadingLevel(input string) Outcome {
	if !strings.Contains(input, "GameMessageServerStartLoadingLevel received") {
		return NoneOutcome
	}
	return ParsedOutcome(events.ServerMessageStartLoadingLevel{})
}

func (c *Catalogue) serverMessageReadyRoundResponse(input string) Outcome {
	if !strings.Contains(input, "GameMessageServerReadyRoundResponse received") {
		return NoneOutcome
	}
	return ParsedOutcome(events.ServerMessageReadyRoundResponse{})
}

func (c *Catalogue) serverMessageRoundResults(input string) Outcome {
	if !strings.Contains(input, "GameMessageServerRoundResults received") {
		return NoneOutcome
	}
	return ParsedOutcome(events.ServerMessageRoundResults{})
}

func (c *Catalogue) serverMessageEndRound(input string) Outcome {
	if !strings.Contains(input, "GameMessageServerEndRound received") {
		return NoneOutcome
	}
	return ParsedOutcome(events.ServerMessageEndRound{})
}
