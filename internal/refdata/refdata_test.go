package refdata

import "testing"

func TestLoadIsIdempotentAndIndexesEveryTable(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	again, err := Load()
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if a != again {
		t.Fatal("expected Load to return the same cached *Assets on repeat calls")
	}
	if len(a.GameRules) == 0 || len(a.LevelsRound) == 0 || len(a.LocalisedStrings) == 0 || len(a.Shows) == 0 {
		t.Fatalf("expected every table to be populated, got %+v", a)
	}
}

func TestRoundDisplayNameFallbackTiers(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := a.RoundDisplayName("fall_mountain"); got != "Fall Mountain" {
		t.Fatalf("expected resolved display name, got %q", got)
	}
	if got := a.RoundDisplayName("totally_unknown_round"); got != "totally_unknown_round (Unknown)" {
		t.Fatalf("expected unknown-round fallback, got %q", got)
	}
}

func TestShowDisplayNameFallbackTiers(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := a.ShowDisplayName("solo_show"); got != "Solo" {
		t.Fatalf("expected resolved show name, got %q", got)
	}
	if got := a.ShowDisplayName("nonexistent_show"); got != "nonexistent_show (Unknown)" {
		t.Fatalf("expected unknown-show fallback, got %q", got)
	}
}

func TestLocalisedStringStripsPrefixAndFallsBack(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := a.LocalisedString("localised_strings.solo_show"); got != "Solo" {
		t.Fatalf("expected prefixed lookup to resolve, got %q", got)
	}
	if got := a.LocalisedString("localised_strings.nope"); got != "unknown_localized_key.nope" {
		t.Fatalf("expected unknown-key fallback, got %q", got)
	}
}

func TestIsKnownShow(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !a.IsKnownShow("solo_show") {
		t.Fatal("expected solo_show to be known")
	}
	if a.IsKnownShow("not_a_show") {
		t.Fatal("expected not_a_show to be unknown")
	}
}
