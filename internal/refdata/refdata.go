// Package refdata loads the static game-data tables (round display names,
// show display names, and localised strings) bundled with the client build.
// The data is embedded at compile time via go:embed, mirroring the original
// client's include_str! of its extra_datas/*.json assets.
package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed assets/*.json
var assetsFS embed.FS

// GameRule describes one entry of game_rules.json. Only the fields below
// are decoded; every other field of an entry is ignored.
type GameRule struct {
	ID               string `json:"id"`
	HasTimer         *bool  `json:"has_timer"`
	Duration         int    `json:"duration"`
	TeamMode         string `json:"team_mode"`
	RoundEndCondition string `json:"round_end_condition"`
	IsScoringGame    *bool  `json:"is_scoring_game"`
}

// LevelsRoundItem describes one entry of levels_round.json.
type LevelsRoundItem struct {
	ID                 string   `json:"id"`
	DisplayName        *string  `json:"display_name"`
	GameRules          string   `json:"game_rules"`
	MainAmbienceState  string   `json:"main_ambience_state"`
	LoadingScreenName  string   `json:"loading_screen_name"`
	LevelBadgeName     string   `json:"level_badge_name"`
	Tags               []string `json:"tags"`
	LevelArchetype     string   `json:"level_archetype"`
}

// ShowsItemType describes the nested show_type object of a shows.json entry.
type ShowsItemType struct {
	ShowtypeSwitch string `json:"showtype_switch"`
	SquadSize      *int   `json:"squad_size"`
}

// ShowsItem describes one entry of shows.json.
type ShowsItem struct {
	ID                      string        `json:"id"`
	ShowName                *string       `json:"show_name"`
	ShowDescription         *string       `json:"show_description"`
	ContentLabel            string        `json:"content_label"`
	MinPartySize            int           `json:"min_party_size"`
	MaxPartySize            int           `json:"max_party_size"`
	ShowType                ShowsItemType `json:"show_type"`
	EpisodeRewardSettingsID string        `json:"episode_reward_settings_id"`
}

type localisedStringEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Assets is the loaded, indexed reference-data table set.
type Assets struct {
	GameRules         map[string]GameRule
	LevelsRound       map[string]LevelsRoundItem
	LocalisedStrings  map[string]string
	Shows             map[string]ShowsItem
}

var (
	loadOnce   sync.Once
	loaded     *Assets
	loadErr    error
)

// Load parses and indexes the embedded reference-data assets. Safe to call
// concurrently; the actual parse happens at most once per process.
func Load() (*Assets, error) {
	loadOnce.Do(func() {
		loaded, loadErr = load()
	})
	return loaded, loadErr
}

// MustLoad is Load, panicking on error. Intended for use at process startup
// before any log line is parsed, per SPEC_FULL.md's eager front-loading.
func MustLoad() *Assets {
	a, err := Load()
	if err != nil {
		panic(fmt.Sprintf("refdata: %v", err))
	}
	return a
}

func load() (*Assets, error) {
	gameRules, err := readList[GameRule]("assets/game_rules.json")
	if err != nil {
		return nil, fmt.Errorf("refdata: game_rules.json: %w", err)
	}
	levelsRound, err := readList[LevelsRoundItem]("assets/levels_round.json")
	if err != nil {
		return nil, fmt.Errorf("refdata: levels_round.json: %w", err)
	}
	localised, err := readList[localisedStringEntry]("assets/localised_strings.json")
	if err != nil {
		return nil, fmt.Errorf("refdata: localised_strings.json: %w", err)
	}
	shows, err := readList[ShowsItem]("assets/shows.json")
	if err != nil {
		return nil, fmt.Errorf("refdata: shows.json: %w", err)
	}

	a := &Assets{
		GameRules:        make(map[string]GameRule, len(gameRules)),
		LevelsRound:      make(map[string]LevelsRoundItem, len(levelsRound)),
		LocalisedStrings: make(map[string]string, len(localised)),
		Shows:            make(map[string]ShowsItem, len(shows)),
	}
	for _, r := range gameRules {
		a.GameRules[r.ID] = r
	}
	for _, r := range levelsRound {
		a.LevelsRound[r.ID] = r
	}
	for _, r := range localised {
		a.LocalisedStrings[r.ID] = r.Text
	}
	for _, r := range shows {
		a.Shows[r.ID] = r
	}
	return a, nil
}

func readList[T any](path string) ([]T, error) {
	raw, err := assetsFS.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LocalisedString resolves a (possibly "localised_strings."-prefixed) key
// to its display text, falling back to "unknown_localized_key.<key>".
func (a *Assets) LocalisedString(key string) string {
	trimmed := strings.TrimPrefix(key, "localised_strings.")
	if text, ok := a.LocalisedStrings[trimmed]; ok {
		return text
	}
	return "unknown_localized_key." + trimmed
}

// RoundDisplayName resolves a round id to a human-readable display name,
// following the original client's three-tier fallback: known round with a
// display name -> localised text; known round with no display name ->
// "<id> (no display name)"; unknown round -> "<id> (Unknown)". Ids
// starting with "ugc-" skip the table and yield "Creative: <id>".
func (a *Assets) RoundDisplayName(roundID string) string {
	if strings.HasPrefix(roundID, "ugc-") {
		return "Creative: " + roundID
	}
	round, ok := a.LevelsRound[roundID]
	if !ok {
		return fmt.Sprintf("%s (Unknown)", roundID)
	}
	if round.DisplayName == nil {
		return fmt.Sprintf("%s (no display name)", roundID)
	}
	return a.LocalisedString(*round.DisplayName)
}

// ShowDisplayName resolves a show id to a human-readable display name with
// the same three-tier fallback as RoundDisplayName.
func (a *Assets) ShowDisplayName(showID string) string {
	show, ok := a.Shows[showID]
	if !ok {
		return fmt.Sprintf("%s (Unknown)", showID)
	}
	if show.ShowName == nil {
		return fmt.Sprintf("%s (no display name)", showID)
	}
	return a.LocalisedString(*show.ShowName)
}

// IsKnownShow reports whether showID has an entry in the shows table.
func (a *Assets) IsKnownShow(showID string) bool {
	_, ok := a.Shows[showID]
	return ok
}
