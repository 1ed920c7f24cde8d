package rules

import (
	"testing"

	"github.com/ilsubyeega/fgtail/internal/events"
)

type fakeRefData struct {
	shows  map[string]string
	rounds map[string]string
}

func (f fakeRefData) ShowDisplayName(id string) string {
	if name, ok := f.shows[id]; ok {
		return name
	}
	return id + " (Unknown)"
}

func (f fakeRefData) IsKnownShow(id string) bool {
	_, ok := f.shows[id]
	return ok
}

func (f fakeRefData) RoundDisplayName(id string) string {
	if name, ok := f.rounds[id]; ok {
		return name
	}
	return id + " (Unknown)"
}

func newTestCatalogue() *Catalogue {
	return New(fakeRefData{
		shows:  map[string]string{"my_custom_show": "My Custom Show"},
		rounds: map[string]string{"fall_mountain": "Fall Mountain"},
	})
}

func TestGameStateChangedParsesBeforeAndAfter(t *testing.T) {
	c := newTestCatalogue()
	outcome := c.gameStateChanged("[GameStateMachine] Replacing StateMainMenu with StateMatchmaking")
	if outcome.Kind != Parsed {
		t.Fatalf("expected Parsed, got %v", outcome.Kind)
	}
	changed, ok := outcome.Event.(events.GameStateChanged)
	if !ok {
		t.Fatalf("expected GameStateChanged, got %T", outcome.Event)
	}
	if changed.Before == nil || *changed.Before != events.StateMainMenu {
		t.Fatalf("unexpected before state: %+v", changed.Before)
	}
	if changed.After != events.StateMatchmaking {
		t.Fatalf("unexpected after state: %v", changed.After)
	}
}

func TestGameStateChangedIgnoresUnrelatedLines(t *testing.T) {
	c := newTestCatalogue()
	if outcome := c.gameStateChanged("just some unrelated log line"); outcome.Kind != None {
		t.Fatalf("expected None, got %v", outcome.Kind)
	}
}

func TestServerConnectedParsesIPAndPort(t *testing.T) {
	c := newTestCatalogue()
	outcome := c.serverConnected("[StateConnectToGame] InitiateNetworkConnectRequest with server IP: 10.0.0.5:7777")
	if outcome.Kind != Parsed {
		t.Fatalf("expected Parsed, got %v", outcome.Kind)
	}
	connected := outcome.Event.(events.ServerConnected)
	if connected.IP != "10.0.0.5" || connected.Port == nil || *connected.Port != "7777" {
		t.Fatalf("unexpected event: %+v", connected)
	}
}

func TestCreateLocalPlayerParsesPlayerID(t *testing.T) {
	c := newTestCatalogue()
	outcome := c.createLocalPlayer("[CreateLocalPlayerInstances] Added new player as Participant, player ID = 3")
	if outcome.Kind != Parsed {
		t.Fatalf("expected Parsed, got %v", outcome.Kind)
	}
	if got := outcome.Event.(events.CreateLocalPlayer).PlayerID; got != 3 {
		t.Fatalf("expected player id 3, got %d", got)
	}
}

func TestNetworkMetricsRequiresASecondLineThenParsesLatency(t *testing.T) {
	c := newTestCatalogue()
	first := c.networkMetrics("[FG_UnityInternetNetworkManager] Networking Metrics after match:")
	if first.Kind != NeedMoreLines {
		t.Fatalf("expected NeedMoreLines, got %v", first.Kind)
	}
	combined := "[FG_UnityInternetNetworkManager] Networking Metrics after match:\nNetwork - RTT: 1,234ms"
	second := c.networkMetrics(combined)
	if second.Kind != Parsed {
		t.Fatalf("expected Parsed, got %v", second.Kind)
	}
	if got := second.Event.(events.NetworkMetrics).LatencyMs; got != 1234 {
		t.Fatalf("expected latency 1234, got %d", got)
	}
}

func TestSuccessfullyJoinedClassifiesKnownAndFallbackShows(t *testing.T) {
	c := newTestCatalogue()
	first := c.successfullyJoined("[HandleSuccessfulLogin] Selected show is my_custom_show")
	if first.Kind != NeedMoreLines {
		t.Fatalf("expected NeedMoreLines, got %v", first.Kind)
	}
	combined := "[HandleSuccessfulLogin] Selected show is my_custom_show\n[HandleSuccessfulLogin] Session: abc-123"
	second := c.successfullyJoined(combined)
	if second.Kind != Parsed {
		t.Fatalf("expected Parsed, got %v", second.Kind)
	}
	joined := second.Event.(events.SuccessfullyJoined)
	if !joined.GameMode.IsExtra() {
		t.Fatalf("expected the reference-table show to classify as Extra, got %v", joined.GameMode)
	}
	if joined.Session == nil || *joined.Session != "abc-123" {
		t.Fatalf("unexpected session: %+v", joined.Session)
	}
}

func TestLeaveMatchAndRoundOverAreZeroFieldEvents(t *testing.T) {
	c := newTestCatalogue()
	if outcome := c.leaveMatch("[LeaveMatchPopupManager] Calling CloseScreen()"); outcome.Kind != Parsed {
		t.Fatalf("expected Parsed, got %v", outcome.Kind)
	} else if _, ok := outcome.Event.(events.LeaveMatch); !ok {
		t.Fatalf("expected LeaveMatch, got %T", outcome.Event)
	}
	if outcome := c.roundOver("[ClientGameManager] Server notifying that the round is over."); outcome.Kind != Parsed {
		t.Fatalf("expected Parsed, got %v", outcome.Kind)
	} else if _, ok := outcome.Event.(events.RoundOver); !ok {
		t.Fatalf("expected RoundOver, got %T", outcome.Event)
	}
}

func TestRulesReturnsEveryRuleInFixedOrder(t *testing.T) {
	c := newTestCatalogue()
	rules := c.Rules()
	if len(rules) != 29 {
		t.Fatalf("expected 29 rules, got %d", len(rules))
	}
	// The first rule must be gameStateChanged and the last serverMessageEndRound,
	// per spec.md §6.4's fixed evaluation order.
	if outcome := rules[0]("[GameStateMachine] Replacing StateMainMenu with StateMatchmaking"); outcome.Kind != Parsed {
		t.Fatalf("expected the first rule to be gameStateChanged, got outcome %v", outcome.Kind)
	}
	if outcome := rules[len(rules)-1]("GameMessageServerEndRound received"); outcome.Kind != Parsed {
		t.Fatalf("expected the last rule to be serverMessageEndRound, got outcome %v", outcome.Kind)
	}
}
