// internal/research/prompts.go
package research

import (
	"fmt"
	"strings"

	"fantasy-research/internal/models"
)

// maxWaiverCandidates caps how many available players are offered to the model.
const maxWaiverCandidates = 10

func playerNames(players []models.Player) string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

func playerNamesWithPosition(players []models.Player) string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Position))
	}
	return strings.Join(names, ", ")
}

// FreeTextQuery wraps a caller-supplied question. It carries no category
// because free-text answers are never persisted.
func FreeTextQuery(text string) Query {
	return Query{Prompt: strings.TrimSpace(text)}
}

func StartSitQuery(starters, bench []models.Player) Query {
	lines := []string{
		"Analyze my lineup for this week:",
		"STARTERS: " + playerNamesWithPosition(starters),
		"BENCH: " + playerNamesWithPosition(bench),
		"",
		"Provide:",
		"1. Any recommended lineup changes with reasoning",
		"2. Confidence score for current lineup (0-100)",
		"3. Top 3 risky starts and safe alternatives",
		"4. Ceiling play vs floor play recommendations",
		"5. Weather or game script concerns",
	}
	return Query{Category: models.CategoryStartSit, Prompt: strings.Join(lines, "\n")}
}

func TradeQuery(giving, receiving []models.Player, teamNeeds []string) Query {
	needs := "none specified"
	if len(teamNeeds) > 0 {
		needs = strings.Join(teamNeeds, ", ")
	}

	lines := []string{
		"Evaluate this trade proposal:",
		"GIVING: " + playerNames(giving),
		"RECEIVING: " + playerNames(receiving),
		"",
		"My team needs: " + needs,
		"",
		"Consider:",
		"1. Rest of season value and schedule",
		"2. Injury history and current health",
		"3. Team situation and usage trends",
		"4. Impact on my roster construction",
		"5. Fair market value assessment",
		"",
		"Provide:",
		"- Trade grade (A-F)",
		"- Win probability impact",
		"- Alternative counter-offers if declining",
		"- Long-term vs short-term value",
	}
	return Query{Category: models.CategoryTrade, Prompt: strings.Join(lines, "\n")}
}

// WaiverQuery offers at most the first ten available players. faabBudget is
// included only when supplied.
func WaiverQuery(roster, available []models.Player, faabBudget *float64) Query {
	if len(available) > maxWaiverCandidates {
		available = available[:maxWaiverCandidates]
	}

	bidLine := "4. FAAB bid recommendations (if applicable)"
	lines := []string{
		"Recommend waiver wire pickups from these available players:",
		playerNames(available),
		"",
		"My roster needs: " + strings.Join(IdentifyRosterNeeds(roster), ", "),
	}
	if faabBudget != nil {
		lines = append(lines, fmt.Sprintf("FAAB Budget remaining: $%s", formatBudget(*faabBudget)))
		bidLine = "4. FAAB bid recommendations for each priority add"
	}
	lines = append(lines,
		"",
		"Provide:",
		"1. Top 3 priority adds with reasoning",
		"2. Sleeper picks with upside",
		"3. Suggested drops from my roster",
		bidLine,
		"5. Stash candidates for playoffs",
	)
	return Query{Category: models.CategoryWaiver, Prompt: strings.Join(lines, "\n")}
}

func formatBudget(b float64) string {
	if b == float64(int64(b)) {
		return fmt.Sprintf("%d", int64(b))
	}
	return fmt.Sprintf("%.2f", b)
}

func NewsQuery(item models.NewsItem) Query {
	lines := []string{
		"Provide context and fantasy impact for this news:",
		fmt.Sprintf("%q", strings.TrimSpace(item.Headline)),
	}
	if summary := strings.TrimSpace(item.Summary); summary != "" {
		lines = append(lines, "Details: "+summary)
	}
	lines = append(lines,
		"",
		"Include:",
		"1. Immediate fantasy impact (this week)",
		"2. Rest of season implications",
		"3. Beneficiaries of this news",
		"4. Required roster moves",
		"5. Waiver wire priorities",
	)
	return Query{Category: models.CategoryNews, Prompt: strings.Join(lines, "\n")}
}

func InjuryQuery(p models.Player, week int) Query {
	return Query{
		Category:  models.CategoryInjury,
		SubjectID: p.ID,
		Prompt: fmt.Sprintf("What is the latest injury update for %s of the %s? Include practice participation, expected playing time, and fantasy impact for Week %d. Provide a confidence score (0-100) for them playing.",
			p.Name, p.NFLTeam, week),
	}
}

func MatchupQuery(p models.Player, opponent string, week int) Query {
	return Query{
		Category:  models.CategoryMatchup,
		SubjectID: p.ID,
		Prompt: fmt.Sprintf("Analyze %s (%s) vs %s defense in Week %d. Consider: 1) Defense ranking vs %s, 2) Recent performance trends, 3) Weather conditions, 4) Historical performance in similar matchups. Provide specific point projection and start/sit recommendation.",
			p.Name, p.Position, opponent, week, p.Position),
	}
}

func FlexQuery(candidates []models.Player, week int) Query {
	return Query{
		Category: models.CategoryStartSit,
		Prompt: fmt.Sprintf("Compare these flex options for Week %d: %s. Consider matchups, recent usage, and scoring upside. Rank them and provide confidence scores.",
			week, playerNames(candidates)),
	}
}
