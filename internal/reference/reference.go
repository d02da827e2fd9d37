// Package reference holds the grade-worthy card reference data used to
// classify collection cards: known valuable sets by tier, players worth
// checking and keyword signals for parallels and inserts.
package reference

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/errors"
	"github.com/cardscout/cardscout-go/internal/logging"
)

//go:embed seed_data.yaml
var seedData []byte

// SetEntry is one reference card set.
type SetEntry struct {
	Name  string `yaml:"name"`
	Sport string `yaml:"sport"`
	Year  int    `yaml:"year"`
}

// Data is the parsed reference dataset.
type Data struct {
	Tier1Sets []SetEntry          `yaml:"tier1_sets"`
	Tier2Sets []SetEntry          `yaml:"tier2_sets"`
	Players   map[string][]string `yaml:"players"`
	Keywords  []string            `yaml:"keywords"`
}

var logger *slog.Logger

func init() {
	logger = logging.ForService("reference")
	if logger == nil {
		logger = slog.Default().With("service", "reference")
	}
}

// Load parses the embedded reference dataset.
func Load() (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(seedData, &data); err != nil {
		return nil, errors.New(fmt.Errorf("failed to parse reference data: %w", err)).
			Category(errors.CategoryConfiguration).
			Build()
	}
	return &data, nil
}

// Seed writes the reference dataset into the store. Sets are upserted so
// tier changes propagate, players and keywords are insert-if-absent.
func Seed(store datastore.Interface, data *Data) error {
	for _, set := range data.Tier1Sets {
		if err := store.UpsertCardSet(&datastore.CardSet{Name: set.Name, Tier: 1, Sport: set.Sport}); err != nil {
			return err
		}
	}
	for _, set := range data.Tier2Sets {
		if err := store.UpsertCardSet(&datastore.CardSet{Name: set.Name, Tier: 2, Sport: set.Sport}); err != nil {
			return err
		}
	}

	playerCount := 0
	for sport, players := range data.Players {
		for _, name := range players {
			if err := store.InsertKeyPlayer(&datastore.KeyPlayer{Name: name, Sport: sport}); err != nil {
				return err
			}
			playerCount++
		}
	}

	for _, term := range data.Keywords {
		if err := store.InsertKeyword(&datastore.Keyword{Term: term}); err != nil {
			return err
		}
	}

	logger.Info("seeded reference data",
		"tier1_sets", len(data.Tier1Sets),
		"tier2_sets", len(data.Tier2Sets),
		"players", playerCount,
		"keywords", len(data.Keywords))
	return nil
}

// Lookups provides in-memory matching against the reference data.
type Lookups struct {
	sets     []setMatcher
	players  map[string][]string // lowercase name -> sports
	keywords []string
}

type setMatcher struct {
	name  string
	lower string
	tier  int
	sport string
}

// NewLookups builds matchers from store rows. Set matchers are ordered
// longest name first so the most specific set wins.
func NewLookups(sets []datastore.CardSet, players []datastore.KeyPlayer, keywords []datastore.Keyword) *Lookups {
	l := &Lookups{
		players: make(map[string][]string, len(players)),
	}

	for _, s := range sets {
		l.sets = append(l.sets, setMatcher{
			name:  s.Name,
			lower: strings.ToLower(s.Name),
			tier:  s.Tier,
			sport: s.Sport,
		})
	}
	sort.SliceStable(l.sets, func(i, j int) bool {
		if len(l.sets[i].lower) != len(l.sets[j].lower) {
			return len(l.sets[i].lower) > len(l.sets[j].lower)
		}
		return l.sets[i].lower < l.sets[j].lower
	})

	for _, p := range players {
		key := strings.ToLower(p.Name)
		l.players[key] = append(l.players[key], strings.ToLower(p.Sport))
	}

	for _, k := range keywords {
		l.keywords = append(l.keywords, k.Term)
	}

	return l
}

// NewLookupsFromData builds matchers straight from the embedded dataset,
// for use without a database.
func NewLookupsFromData(data *Data) *Lookups {
	var sets []datastore.CardSet
	for _, s := range data.Tier1Sets {
		sets = append(sets, datastore.CardSet{Name: s.Name, Tier: 1, Sport: s.Sport})
	}
	for _, s := range data.Tier2Sets {
		sets = append(sets, datastore.CardSet{Name: s.Name, Tier: 2, Sport: s.Sport})
	}

	var players []datastore.KeyPlayer
	for sport, names := range data.Players {
		for _, name := range names {
			players = append(players, datastore.KeyPlayer{Name: name, Sport: sport})
		}
	}

	var keywords []datastore.Keyword
	for _, term := range data.Keywords {
		keywords = append(keywords, datastore.Keyword{Term: term})
	}

	return NewLookups(sets, players, keywords)
}

// NewLookupsFromStore loads reference rows and builds matchers.
func NewLookupsFromStore(store datastore.Interface) (*Lookups, error) {
	sets, err := store.GetCardSets()
	if err != nil {
		return nil, err
	}
	players, err := store.GetKeyPlayers()
	if err != nil {
		return nil, err
	}
	keywords, err := store.GetKeywords()
	if err != nil {
		return nil, err
	}
	return NewLookups(sets, players, keywords), nil
}

// SetMatch matches a card title against the reference sets. Matching is
// case-insensitive and substring based in either direction, so a short
// title inside a long set name also counts. Longest set name wins.
func (l *Lookups) SetMatch(title string) (name string, tier int, sport string, ok bool) {
	lower := strings.ToLower(title)
	if lower == "" {
		return "", 0, "", false
	}
	for _, s := range l.sets {
		if strings.Contains(lower, s.lower) || strings.Contains(s.lower, lower) {
			return s.name, s.tier, s.sport, true
		}
	}
	return "", 0, "", false
}

// IsKeyPlayer reports whether the name and sport pair is in the reference
// list. Both are matched exactly and case-insensitively, an empty sport
// matches any sport the player is listed under.
func (l *Lookups) IsKeyPlayer(name, sport string) bool {
	sports, ok := l.players[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return false
	}
	if sport == "" {
		return true
	}
	want := strings.ToLower(strings.TrimSpace(sport))
	for _, s := range sports {
		if s == want {
			return true
		}
	}
	return false
}

// KeywordHits returns all reference keywords contained in the title,
// case-insensitively, in reference order.
func (l *Lookups) KeywordHits(title string) []string {
	lower := strings.ToLower(title)
	var hits []string
	for _, k := range l.keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			hits = append(hits, k)
		}
	}
	return hits
}
