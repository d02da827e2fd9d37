// Package analysis aggregates classified collection cards and runs the
// full load, classify and persist pipeline.
package analysis

import (
	"sort"

	"github.com/cardscout/cardscout-go/internal/collection"
)

// GroupCount is one row of a ranked leaderboard.
type GroupCount struct {
	Name  string
	Sport string
	Count int
}

// CountPlayers groups cards by player and ranks by descending count.
// Ties keep first-seen order. Cards without a player are skipped but not
// dropped from the input. Groups below minCount are filtered out after
// aggregation.
func CountPlayers(cards []collection.Card, minCount int) []GroupCount {
	return countBy(cards, minCount, func(c *collection.Card) string { return c.Player })
}

// CountSets groups cards by set name with the same ranking rules as
// CountPlayers.
func CountSets(cards []collection.Card, minCount int) []GroupCount {
	return countBy(cards, minCount, func(c *collection.Card) string { return c.Set })
}

func countBy(cards []collection.Card, minCount int, key func(*collection.Card) string) []GroupCount {
	index := make(map[string]int)
	var groups []GroupCount

	for i := range cards {
		name := key(&cards[i])
		if name == "" {
			continue
		}
		if pos, ok := index[name]; ok {
			groups[pos].Count++
			continue
		}
		index[name] = len(groups)
		groups = append(groups, GroupCount{Name: name, Sport: cards[i].Sport, Count: 1})
	}

	// stable sort keeps first-seen order on equal counts
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	if minCount > 1 {
		filtered := groups[:0]
		for _, g := range groups {
			if g.Count >= minCount {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}
	return groups
}
