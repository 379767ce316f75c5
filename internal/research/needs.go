// internal/research/needs.go
package research

import (
	"strings"

	"fantasy-research/internal/models"
)

const fallbackNeed = "best player available"

var positionDepth = []struct {
	position string
	min      int
	need     string
}{
	{models.PositionRB, 5, "RB depth"},
	{models.PositionWR, 5, "WR depth"},
	{models.PositionTE, 2, "TE backup"},
	{models.PositionQB, 2, "QB backup"},
}

// IdentifyRosterNeeds lists positional shortfalls in a fixed order. A position
// with no players counts as short. The result is never empty.
func IdentifyRosterNeeds(roster []models.Player) []string {
	counts := make(map[string]int, len(positionDepth))
	for _, p := range roster {
		counts[strings.ToUpper(strings.TrimSpace(p.Position))]++
	}

	needs := make([]string, 0, len(positionDepth))
	for _, d := range positionDepth {
		if counts[d.position] < d.min {
			needs = append(needs, d.need)
		}
	}
	if len(needs) == 0 {
		return []string{fallbackNeed}
	}
	return needs
}
