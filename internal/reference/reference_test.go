package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardscout/cardscout-go/internal/datastore"
)

func TestLoadEmbeddedData(t *testing.T) {
	data, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, data.Tier1Sets)
	assert.NotEmpty(t, data.Tier2Sets)
	assert.NotEmpty(t, data.Keywords)
	assert.Contains(t, data.Players, "basketball")
	assert.Contains(t, data.Players, "baseball")
	assert.Contains(t, data.Players["hockey"], "Wayne Gretzky")
}

func testLookups() *Lookups {
	sets := []datastore.CardSet{
		{Name: "1986 Fleer", Tier: 1, Sport: "basketball"},
		{Name: "2018 Prizm Basketball", Tier: 1, Sport: "basketball"},
		{Name: "2013 Prizm Basketball", Tier: 2, Sport: "basketball"},
	}
	players := []datastore.KeyPlayer{
		{Name: "Ken Griffey Jr", Sport: "baseball"},
		{Name: "Bo Jackson", Sport: "baseball"},
		{Name: "Bo Jackson", Sport: "football"},
	}
	keywords := []datastore.Keyword{
		{Term: "Refractor"},
		{Term: "Silver Prizm"},
		{Term: "/25"},
	}
	return NewLookups(sets, players, keywords)
}

func TestSetMatchSubstringBothDirections(t *testing.T) {
	l := testLookups()

	// title longer than reference entry
	name, tier, sport, ok := l.SetMatch("1986 Fleer Basketball")
	require.True(t, ok)
	assert.Equal(t, "1986 Fleer", name)
	assert.Equal(t, 1, tier)
	assert.Equal(t, "basketball", sport)

	// title shorter than reference entry
	_, tier, _, ok = l.SetMatch("2013 Prizm")
	require.True(t, ok)
	assert.Equal(t, 2, tier)

	_, _, _, ok = l.SetMatch("1991 Donruss")
	assert.False(t, ok)

	_, _, _, ok = l.SetMatch("")
	assert.False(t, ok)
}

func TestSetMatchPrefersLongestName(t *testing.T) {
	sets := []datastore.CardSet{
		{Name: "Prizm", Tier: 2, Sport: "basketball"},
		{Name: "2018 Prizm Basketball", Tier: 1, Sport: "basketball"},
	}
	l := NewLookups(sets, nil, nil)

	name, tier, _, ok := l.SetMatch("2018 Prizm Basketball Silver")
	require.True(t, ok)
	assert.Equal(t, "2018 Prizm Basketball", name)
	assert.Equal(t, 1, tier)
}

func TestIsKeyPlayer(t *testing.T) {
	l := testLookups()

	assert.True(t, l.IsKeyPlayer("ken griffey jr", "baseball"))
	assert.True(t, l.IsKeyPlayer("  Ken Griffey Jr  ", "BASEBALL"))
	assert.False(t, l.IsKeyPlayer("Ken Griffey Jr", "football"))
	assert.True(t, l.IsKeyPlayer("Bo Jackson", "football"))
	assert.True(t, l.IsKeyPlayer("Bo Jackson", ""))
	assert.False(t, l.IsKeyPlayer("Random Guy", "baseball"))
}

func TestKeywordHitsCaseInsensitive(t *testing.T) {
	l := testLookups()

	hits := l.KeywordHits("2020 Topps Chrome REFRACTOR /25")
	assert.Equal(t, []string{"Refractor", "/25"}, hits)

	assert.Empty(t, l.KeywordHits("1990 Fleer base card"))
}

func TestSeedWritesAllReferenceRows(t *testing.T) {
	store := newSeedTestStore(t)

	data := &Data{
		Tier1Sets: []SetEntry{{Name: "1986 Fleer Basketball", Sport: "basketball", Year: 1986}},
		Tier2Sets: []SetEntry{{Name: "2013 Prizm Basketball", Sport: "basketball", Year: 2013}},
		Players:   map[string][]string{"baseball": {"Mike Trout"}},
		Keywords:  []string{"Refractor"},
	}
	require.NoError(t, Seed(store, data))
	// seeding twice must not duplicate rows
	require.NoError(t, Seed(store, data))

	sets, err := store.GetCardSets()
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, 1, sets[0].Tier)

	players, err := store.GetKeyPlayers()
	require.NoError(t, err)
	assert.Len(t, players, 1)

	keywords, err := store.GetKeywords()
	require.NoError(t, err)
	assert.Len(t, keywords, 1)
}

func TestNewLookupsFromData(t *testing.T) {
	data := &Data{
		Tier1Sets: []SetEntry{{Name: "1986 Fleer Basketball", Sport: "basketball", Year: 1986}},
		Tier2Sets: []SetEntry{{Name: "2013 Prizm Basketball", Sport: "basketball", Year: 2013}},
		Players:   map[string][]string{"baseball": {"Mike Trout"}},
		Keywords:  []string{"Refractor"},
	}
	l := NewLookupsFromData(data)

	name, tier, _, ok := l.SetMatch("1986 Fleer Basketball #57")
	require.True(t, ok)
	assert.Equal(t, "1986 Fleer Basketball", name)
	assert.Equal(t, 1, tier)

	_, tier, _, ok = l.SetMatch("2013 Prizm Basketball")
	require.True(t, ok)
	assert.Equal(t, 2, tier)

	assert.True(t, l.IsKeyPlayer("mike trout", "baseball"))
	assert.False(t, l.IsKeyPlayer("Mike Trout", "football"))
	assert.Equal(t, []string{"Refractor"}, l.KeywordHits("Topps Refractor"))
}
