// Package events defines the GameEvent data model emitted by the parser:
// the closed catalogue of structured messages described in spec.md §3,
// and the enumerations each event variant carries.
package events

// PlayerID identifies a local player slot. The game log only ever prints
// small non-negative integers for this, but nothing in the grammar rules
// out a wider range, so it is kept as a plain int.
type PlayerID = int

// NetPlayerID identifies a networked player object. Incremented by one
// each time a player is loaded; distinct from PlayerID.
type NetPlayerID = int

// CreativeShareCode identifies a user-generated (UGC) round.
type CreativeShareCode = string

// Kind tags the concrete type of a GameEvent for cheap dispatch without a
// type switch (e.g. for metrics or logging "event=...").
type Kind string

const (
	KindGameStateChanged                  Kind = "game_state_changed"
	KindBeginMatchmaking                  Kind = "begin_matchmaking"
	KindMatchmakingMessageReceived        Kind = "matchmaking_message_received"
	KindServerConnected                   Kind = "server_connected"
	KindCreateLocalPlayer                 Kind = "create_local_player"
	KindSuccessfullyJoined                Kind = "successfully_joined"
	KindNetworkMetrics                    Kind = "network_metrics"
	KindSetClientReadiness                Kind = "set_client_readiness"
	KindLoadedRound                       Kind = "loaded_round"
	KindRequestLocalPlayer                Kind = "request_local_player"
	KindHandleRemotePlayer                Kind = "handle_remote_player"
	KindHandleLocalPlayer                 Kind = "handle_local_player"
	KindAppendSpectatorTarget             Kind = "append_spectator_target"
	KindPlayerSpawned                     Kind = "player_spawned"
	KindSetLocalSquadID                   Kind = "set_local_squad_id"
	KindSetLocalPartyID                   Kind = "set_local_party_id"
	KindGameSessionState                  Kind = "game_session_state"
	KindSetNumPlayersAchievingObjective   Kind = "set_num_players_achieving_objective"
	KindSetPlayerScore                    Kind = "set_player_score"
	KindHandleUnspawn                     Kind = "handle_unspawn"
	KindSetPlayerProgress                 Kind = "set_player_progress"
	KindGameLobbyRewards                  Kind = "game_lobby_rewards"
	KindCreativeRoundLoader               Kind = "creative_round_loader"
	KindLeaveMatch                        Kind = "leave_match"
	KindRoundOver                         Kind = "round_over"
	KindServerMessageStartLoadingLevel    Kind = "server_message_start_loading_level"
	KindServerMessageReadyRoundResponse   Kind = "server_message_ready_round_response"
	KindServerMessageRoundResults         Kind = "server_message_round_results"
	KindServerMessageEndRound             Kind = "server_message_end_round"
)

// GameEvent is implemented by every concrete event struct below. It is the
// idiomatic Go stand-in for the source's closed Rust enum: a type switch
// over GameEvent recovers the concrete variant.
type GameEvent interface {
	EventKind() Kind
}

// GameStateChanged records a [GameStateMachine] state transition.
type GameStateChanged struct {
	Before *GameState
	After  GameState
}

func (GameStateChanged) EventKind() Kind { return KindGameStateChanged }

// BeginMatchmaking marks the start of a matchmaking attempt.
type BeginMatchmaking struct{}

func (BeginMatchmaking) EventKind() Kind { return KindBeginMatchmaking }

// MatchmakingMessage is the payload of MatchmakingMessageReceived.
type MatchmakingMessage struct {
	kind          matchmakingKind
	queuedPlayers int
}

type matchmakingKind int

const (
	MMConnecting matchmakingKind = iota
	MMQueueFull
	MMWaiting
	MMQueued
	MMSessionAssignment
	MMPlay
)

func NewMatchmakingMessage(kind matchmakingKind) MatchmakingMessage {
	return MatchmakingMessage{kind: kind}
}

func NewMatchmakingQueued(queuedPlayers int) MatchmakingMessage {
	return MatchmakingMessage{kind: MMQueued, queuedPlayers: queuedPlayers}
}

func (m MatchmakingMessage) Kind() matchmakingKind { return m.kind }
func (m MatchmakingMessage) QueuedPlayers() int    { return m.queuedPlayers }

// MatchmakingMessageReceived wraps a single matchmaking status update.
type MatchmakingMessageReceived struct {
	Message MatchmakingMessage
}

func (MatchmakingMessageReceived) EventKind() Kind { return KindMatchmakingMessageReceived }

// ServerConnected records the [StateConnectToGame] connection attempt.
type ServerConnected struct {
	IP   string
	Port *string
}

func (ServerConnected) EventKind() Kind { return KindServerConnected }

// CreateLocalPlayer records local player instantiation.
type CreateLocalPlayer struct {
	PlayerID PlayerID
}

func (CreateLocalPlayer) EventKind() Kind { return KindCreateLocalPlayer }

// SuccessfullyJoined records a completed lobby join.
type SuccessfullyJoined struct {
	GameMode GameMode
	Session  *string
}

func (SuccessfullyJoined) EventKind() Kind { return KindSuccessfullyJoined }

// NetworkMetrics carries parsed round-trip latency in milliseconds. -1
// indicates a value that could not be parsed.
type NetworkMetrics struct {
	LatencyMs int
}

func (NetworkMetrics) EventKind() Kind { return KindNetworkMetrics }

// SetClientReadiness records a readiness-state transition.
type SetClientReadiness struct {
	State ClientReadinessState
}

func (SetClientReadiness) EventKind() Kind { return KindSetClientReadiness }

// RoundInfo describes a loaded round.
type RoundInfo struct {
	ID          string
	DisplayName string
}

// LoadedRound records a completed round load.
type LoadedRound struct {
	Round RoundInfo
}

func (LoadedRound) EventKind() Kind { return KindLoadedRound }

// RequestLocalPlayer records a local-player spawn request.
type RequestLocalPlayer struct {
	PlayerID PlayerID
}

func (RequestLocalPlayer) EventKind() Kind { return KindRequestLocalPlayer }

// HandleRemotePlayer records bootstrap data for a remote player.
type HandleRemotePlayer struct {
	PlayerID    PlayerID
	NetPlayerID NetPlayerID
	SquadID     *int
}

func (HandleRemotePlayer) EventKind() Kind { return KindHandleRemotePlayer }

// HandleLocalPlayer records bootstrap data for the local player.
type HandleLocalPlayer struct {
	PlayerID    PlayerID
	NetPlayerID NetPlayerID
	SquadID     *int
}

func (HandleLocalPlayer) EventKind() Kind { return KindHandleLocalPlayer }

// AppendSpectatorTarget records a spectator camera target addition.
type AppendSpectatorTarget struct {
	PlayerID PlayerID
	SquadID  *int
	PartyID  *int
	Platform Platform
}

func (AppendSpectatorTarget) EventKind() Kind { return KindAppendSpectatorTarget }

// PlayerSpawned records a single player spawn.
type PlayerSpawned struct {
	PlayerID    PlayerID
	NetPlayerID NetPlayerID
}

func (PlayerSpawned) EventKind() Kind { return KindPlayerSpawned }

// SetLocalSquadID records the current local squad id, if any.
type SetLocalSquadID struct {
	SquadID *int
}

func (SetLocalSquadID) EventKind() Kind { return KindSetLocalSquadID }

// SetLocalPartyID records the current local party id, if any.
type SetLocalPartyID struct {
	PartyID *int
}

func (SetLocalPartyID) EventKind() Kind { return KindSetLocalPartyID }

// GameSessionState records a [GameSession] state change.
type GameSessionState struct {
	Before *GameSessionStateValue
	After  GameSessionStateValue
}

// GameSessionStateValue avoids a name collision between the event struct
// and the enumeration defined in enums.go.
type GameSessionStateValue = GameSessionStateEnum

func (GameSessionState) EventKind() Kind { return KindGameSessionState }

// SetNumPlayersAchievingObjective records the live objective-completion count.
type SetNumPlayersAchievingObjective struct {
	NumPlayers int
}

func (SetNumPlayersAchievingObjective) EventKind() Kind {
	return KindSetNumPlayersAchievingObjective
}

// SetPlayerScore records a server-reported score update.
type SetPlayerScore struct {
	NetPlayerID NetPlayerID
	Score       int
}

func (SetPlayerScore) EventKind() Kind { return KindSetPlayerScore }

// HandleUnspawn records a player unspawn notification.
type HandleUnspawn struct {
	NetPlayerID NetPlayerID
}

func (HandleUnspawn) EventKind() Kind { return KindHandleUnspawn }

// SetPlayerProgress records a succeeded/failed objective update.
type SetPlayerProgress struct {
	PlayerID  PlayerID
	Succeeded bool
}

func (SetPlayerProgress) EventKind() Kind { return KindSetPlayerProgress }

// CompletedRound is one per-round entry of a CompletedEpisode.
type CompletedRound struct {
	RoundOrder        int
	RoundID           string
	RoundDisplayName  string
	Qualified         bool
	Position          int
	TeamScore         int
	Kudos             int
	Fame              int
	BonusTier         int
	BonusKudos        int
	BonusFame         int
	Badge             RoundBadge
}

// CompletedEpisode is the end-of-match summary (§3).
type CompletedEpisode struct {
	Kudos               *int
	Fame                *int
	Crowns              *int
	CurrentCrownShards  *int
	Rounds              []CompletedRound
}

// GameLobbyRewards wraps a committed CompletedEpisode.
type GameLobbyRewards struct {
	Episode CompletedEpisode
}

func (GameLobbyRewards) EventKind() Kind { return KindGameLobbyRewards }

// CreativeRoundLoader records a UGC round load by share code.
type CreativeRoundLoader struct {
	Code CreativeShareCode
}

func (CreativeRoundLoader) EventKind() Kind { return KindCreativeRoundLoader }

// LeaveMatch records the 3D-session teardown signal.
type LeaveMatch struct{}

func (LeaveMatch) EventKind() Kind { return KindLeaveMatch }

// RoundOver records the server's round-over notification.
type RoundOver struct{}

func (RoundOver) EventKind() Kind { return KindRoundOver }

// The four boundary markers share no fields; each is its own zero-size type.
type ServerMessageStartLoadingLevel struct{}

func (ServerMessageStartLoadingLevel) EventKind() Kind {
	return KindServerMessageStartLoadingLevel
}

type ServerMessageReadyRoundResponse struct{}

func (ServerMessageReadyRoundResponse) EventKind() Kind {
	return KindServerMessageReadyRoundResponse
}

type ServerMessageRoundResults struct{}

func (ServerMessageRoundResults) EventKind() Kind { return KindServerMessageRoundResults }

type ServerMessageEndRound struct{}

func (ServerMessageEndRound) EventKind() Kind { return KindServerMessageEndRound }
