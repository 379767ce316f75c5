// internal/research/contextual.go
package research

import "fantasy-research/internal/models"

const (
	maxMatchupStarters = 5
	minFlexCandidates  = 2
	maxFlexCandidates  = 3
)

// ContextualQueries generates pending questions for a roster without asking
// any of them. Order is fixed: injury questions in roster order, then matchup
// questions for the first five starters that have a matchup entry, then at
// most one flex comparison.
func ContextualQueries(roster []models.Player, matchups models.MatchupMap, league models.League) []Query {
	week := league.CurrentWeek
	if week < 1 {
		week = 1
	}

	queries := make([]Query, 0)

	for _, p := range roster {
		if !p.IsHealthy() {
			queries = append(queries, InjuryQuery(p, week))
		}
	}

	starters := make([]models.Player, 0, maxMatchupStarters)
	for _, p := range roster {
		if p.IsStarter() {
			starters = append(starters, p)
			if len(starters) == maxMatchupStarters {
				break
			}
		}
	}
	for _, p := range starters {
		if m, ok := matchups[p.NFLTeam]; ok {
			queries = append(queries, MatchupQuery(p, m.Opponent, week))
		}
	}

	var flex []models.Player
	for _, p := range roster {
		if p.IsBench() && p.FlexEligible() {
			flex = append(flex, p)
		}
	}
	if len(flex) >= minFlexCandidates {
		if len(flex) > maxFlexCandidates {
			flex = flex[:maxFlexCandidates]
		}
		queries = append(queries, FlexQuery(flex, week))
	}

	return queries
}
