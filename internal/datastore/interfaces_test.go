package datastore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardscout/cardscout-go/internal/conf"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	store := &SQLiteStore{Settings: settings}
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUpsertCardSetUpdatesTier(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertCardSet(&CardSet{Name: "Topps Chrome", Tier: 2, Sport: "baseball"}))
	require.NoError(t, store.UpsertCardSet(&CardSet{Name: "Topps Chrome", Tier: 1, Sport: "baseball"}))

	sets, err := store.GetCardSets()
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 1, sets[0].Tier)
}

func TestInsertKeyPlayerIgnoresDuplicate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.InsertKeyPlayer(&KeyPlayer{Name: "Mike Trout", Sport: "baseball"}))
	require.NoError(t, store.InsertKeyPlayer(&KeyPlayer{Name: "Mike Trout", Sport: "baseball"}))
	require.NoError(t, store.InsertKeyPlayer(&KeyPlayer{Name: "Bo Jackson", Sport: "baseball"}))
	require.NoError(t, store.InsertKeyPlayer(&KeyPlayer{Name: "Bo Jackson", Sport: "football"}))

	players, err := store.GetKeyPlayers()
	require.NoError(t, err)
	require.Len(t, players, 3, "duplicate name+sport is ignored, same name in another sport is kept")
}

func TestInsertKeywordIgnoresDuplicate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.InsertKeyword(&Keyword{Term: "refractor"}))
	require.NoError(t, store.InsertKeyword(&Keyword{Term: "refractor"}))

	keywords, err := store.GetKeywords()
	require.NoError(t, err)
	assert.Len(t, keywords, 1)
}

func TestUpsertAggregatesLastWriteWins(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertSetAggregate(&SetAggregate{SetName: "Prizm", CardCount: 3}))
	require.NoError(t, store.UpsertSetAggregate(&SetAggregate{SetName: "Prizm", CardCount: 7}))
	require.NoError(t, store.UpsertPlayerAggregate(&PlayerAggregate{PlayerName: "Luka Doncic", CardCount: 2}))
	require.NoError(t, store.UpsertPlayerAggregate(&PlayerAggregate{PlayerName: "Luka Doncic", CardCount: 5}))

	sets, err := store.GetSetAggregates(0)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 7, sets[0].CardCount)

	players, err := store.GetPlayerAggregates(0)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, 5, players[0].CardCount)
}

func TestGetAggregatesFiltersAndOrders(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertPlayerAggregate(&PlayerAggregate{PlayerName: "Bravo", CardCount: 5}))
	require.NoError(t, store.UpsertPlayerAggregate(&PlayerAggregate{PlayerName: "Alpha", CardCount: 5}))
	require.NoError(t, store.UpsertPlayerAggregate(&PlayerAggregate{PlayerName: "Charlie", CardCount: 2}))

	players, err := store.GetPlayerAggregates(3)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Alpha", players[0].PlayerName)
	assert.Equal(t, "Bravo", players[1].PlayerName)
}

func TestUpsertValuableCardReplacesByTitle(t *testing.T) {
	store := newTestStore(t)

	card := &ValuableCard{Title: "2020 Topps Chrome Luis Robert RC", Reason: "Rookie Card", Priority: 1, RunID: "run-a"}
	require.NoError(t, store.UpsertValuableCard(card))

	updated := &ValuableCard{Title: "2020 Topps Chrome Luis Robert RC", SetName: "Topps Chrome", Reason: "Tier 1 Set", Priority: 3, RunID: "run-b"}
	require.NoError(t, store.UpsertValuableCard(updated))

	cards, err := store.GetValuableCards(0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Tier 1 Set", cards[0].Reason)
	assert.Equal(t, 3, cards[0].Priority)
	assert.Equal(t, "run-b", cards[0].RunID)
}

func TestSearchValuableCards(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertValuableCard(&ValuableCard{Title: "2018 Prizm Luka Doncic RC", Player: "Luka Doncic", Reason: "Key Player", Priority: 3}))
	require.NoError(t, store.UpsertValuableCard(&ValuableCard{Title: "1989 Upper Deck Ken Griffey Jr", Player: "Ken Griffey Jr", Reason: "Key Player", Priority: 3}))

	cards, err := store.SearchValuableCards("Doncic", 10)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Contains(t, cards[0].Title, "Luka")
}

func TestGuideSetLifecycle(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertGuideSet(&GuideSet{GuideID: "12345", Name: "2003 Topps Chrome Basketball", Sport: "basketball", URL: "/priceguide/basketball-card-values/2003-topps-chrome/12345"}))
	require.NoError(t, store.UpsertGuideSet(&GuideSet{GuideID: "12345", Name: "2003 Topps Chrome", Sport: "basketball"}))

	pending, err := store.GetUnscrapedGuideSets(0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "2003 Topps Chrome", pending[0].Name)

	require.NoError(t, store.MarkGuideSetScraped("12345"))

	pending, err = store.GetUnscrapedGuideSets(0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	stats, err := store.GuideStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSets)
	assert.Equal(t, int64(1), stats.ScrapedSets)
}

func TestGuideCardUpsertAndHighValueQuery(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertGuideCard(&GuideCard{GuideSetID: "12345", CardNumber: "111", Player: "LeBron James", Grade9Value: 400, Grade10Value: 1500}))
	require.NoError(t, store.UpsertGuideCard(&GuideCard{GuideSetID: "12345", CardNumber: "111", Player: "LeBron James", Grade9Value: 450, Grade10Value: 1600}))
	require.NoError(t, store.UpsertGuideCard(&GuideCard{GuideSetID: "12345", CardNumber: "52", Player: "Bench Player", Grade9Value: 8, Grade10Value: 20}))

	cards, err := store.GetHighValueGuideCards(100, 0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "LeBron James", cards[0].Player)
	assert.Equal(t, 1600.0, cards[0].Grade10Value)
}
