// internal/models/roster.go
package models

import "strings"

const (
	PositionQB = "QB"
	PositionRB = "RB"
	PositionWR = "WR"
	PositionTE = "TE"

	PositionTypeStarter = "starter"
	PositionTypeBench   = "bench"
)

// Player is a roster entry as supplied by the fantasy-data provider.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	PositionType string `json:"positionType"` // "starter" or "bench"
	Status       string `json:"status,omitempty"`
	NFLTeam      string `json:"nflTeam"`
}

// IsStarter reports whether the player occupies a starting slot.
func (p Player) IsStarter() bool {
	return strings.EqualFold(p.PositionType, PositionTypeStarter)
}

// IsBench reports whether the player sits on the bench.
func (p Player) IsBench() bool {
	return strings.EqualFold(p.PositionType, PositionTypeBench)
}

// IsHealthy treats an empty status as healthy, matching provider output for
// players without an injury designation.
func (p Player) IsHealthy() bool {
	switch strings.ToLower(strings.TrimSpace(p.Status)) {
	case "", "healthy", "active":
		return true
	}
	return false
}

// FlexEligible reports whether the player can fill an RB/WR/TE flex slot.
func (p Player) FlexEligible() bool {
	switch strings.ToUpper(p.Position) {
	case PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// Matchup describes a team's opponent for the current week.
type Matchup struct {
	Opponent string `json:"opponent"`
}

// MatchupMap is keyed by NFL team abbreviation.
type MatchupMap map[string]Matchup

// League carries the league state the engine needs.
type League struct {
	CurrentWeek int `json:"currentWeek"`
}

// NewsItem is a breaking news headline with an optional summary.
type NewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary,omitempty"`
}
