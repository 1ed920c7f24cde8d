package events

import "testing"

func TestParseGameStateStripsClientPrefixAndFallsBackToUnknown(t *testing.T) {
	if got := ParseGameState("FGClient.StateMatchmaking"); got != StateMatchmaking {
		t.Fatalf("expected StateMatchmaking, got %v", got)
	}
	if got := ParseGameState("StateGameInProgress"); got != StateGameInProgress {
		t.Fatalf("expected StateGameInProgress, got %v", got)
	}
	unknown := ParseGameState("StateSomethingNew")
	if !unknown.IsUnknown() {
		t.Fatalf("expected unknown state for unmapped token")
	}
	if unknown.Raw() != "StateSomethingNew" {
		t.Fatalf("expected raw token preserved, got %q", unknown.Raw())
	}
}

func TestParseClientReadinessStateFallsBackToUnknown(t *testing.T) {
	if got := ParseClientReadinessState("ReadyToPlay"); got != ReadyToPlay {
		t.Fatalf("expected ReadyToPlay, got %v", got)
	}
	unknown := ParseClientReadinessState("NotARealState")
	if !unknown.IsUnknown() || unknown.Raw() != "NotARealState" {
		t.Fatalf("expected unknown fallback, got %+v", unknown)
	}
}

func TestParseGameSessionStateFallsBackToUnknown(t *testing.T) {
	if got := ParseGameSessionState("Countdown"); got != Countdown {
		t.Fatalf("expected Countdown, got %v", got)
	}
	unknown := ParseGameSessionState("Frozen")
	if !unknown.IsUnknown() {
		t.Fatalf("expected unknown session state")
	}
}

func TestParsePlatformKnownAndUnknown(t *testing.T) {
	if got := ParsePlatform("ps5"); got != PlayStation5 {
		t.Fatalf("expected PlayStation5, got %v", got)
	}
	unknown := ParsePlatform("new_console")
	if !unknown.IsUnknown() || unknown.Raw() != "new_console" {
		t.Fatalf("expected unknown platform fallback, got %+v", unknown)
	}
}

func TestParseRoundBadgeKnownAndUnknown(t *testing.T) {
	if got := ParseRoundBadge("gold"); got != BadgeGold {
		t.Fatalf("expected BadgeGold, got %v", got)
	}
	unknown := ParseRoundBadge("platinum")
	if !unknown.IsUnknown() {
		t.Fatalf("expected unknown badge fallback")
	}
}
