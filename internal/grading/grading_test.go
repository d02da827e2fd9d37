package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardscout/cardscout-go/internal/collection"
	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/reference"
)

func testClassifier() *Classifier {
	sets := []datastore.CardSet{
		{Name: "1986 Fleer Basketball", Tier: 1, Sport: "basketball"},
		{Name: "2013 Prizm Basketball", Tier: 2, Sport: "basketball"},
	}
	players := []datastore.KeyPlayer{
		{Name: "Ken Griffey Jr", Sport: "baseball"},
	}
	keywords := []datastore.Keyword{
		{Term: "Refractor"},
		{Term: "/25"},
	}
	return NewClassifier(reference.NewLookups(sets, players, keywords))
}

func TestFlagTokensAreCumulative(t *testing.T) {
	c := testClassifier()

	result, ok := c.Classify(collection.Card{
		Player: "Some Guy",
		Set:    "1991 Donruss",
		Flags:  "RC,SN,AUTO,MEM",
	})
	require.True(t, ok)
	assert.Equal(t, []string{"Rookie Card", "Serial Numbered", "Autograph", "Memorabilia"}, result.Reasons)
	assert.Equal(t, PriorityOther, result.Priority)
}

func TestFlagTokensSplitOnSlash(t *testing.T) {
	c := testClassifier()

	result, ok := c.Classify(collection.Card{
		Player: "Some Guy",
		Set:    "1991 Donruss",
		Flags:  "RC/AUTO",
	})
	require.True(t, ok)
	assert.Equal(t, []string{"Rookie Card", "Autograph"}, result.Reasons)
}

func TestFlagTokenNoFalsePositiveOnSubstring(t *testing.T) {
	c := testClassifier()

	// "ARC" must not trigger the rookie flag
	_, ok := c.Classify(collection.Card{Set: "1991 Donruss", Flags: "ARC"})
	assert.False(t, ok)

	result, ok := c.Classify(collection.Card{Set: "1991 Donruss", Flags: "rc"})
	require.True(t, ok)
	assert.Equal(t, []string{"Rookie Card"}, result.Reasons)
}

func TestTierOneSetGetsTopPriority(t *testing.T) {
	c := testClassifier()

	result, ok := c.Classify(collection.Card{
		Player: "Unknown Player",
		Set:    "1986 Fleer Basketball",
		Sport:  "basketball",
	})
	require.True(t, ok)
	assert.Equal(t, 1, result.SetTier)
	assert.Equal(t, PriorityTier1, result.Priority)
	assert.Contains(t, result.Reasons, "Tier 1 Set")
}

func TestTierTwoSetGetsMediumPriority(t *testing.T) {
	c := testClassifier()

	result, ok := c.Classify(collection.Card{Set: "2013 Prizm Basketball"})
	require.True(t, ok)
	assert.Equal(t, PriorityTier2, result.Priority)
}

func TestKeywordReasonUsesFirstHit(t *testing.T) {
	c := testClassifier()

	result, ok := c.Classify(collection.Card{Set: "2007 Topps REFRACTOR /25"})
	require.True(t, ok)
	assert.Equal(t, []string{"Refractor", "/25"}, result.KeywordHits)
	assert.Contains(t, result.Reasons, "Set: Refractor")
	assert.NotContains(t, result.Reasons, "Set: /25")
}

func TestKeywordScanIncludesNotes(t *testing.T) {
	c := testClassifier()

	result, ok := c.Classify(collection.Card{Set: "1991 Donruss", Notes: "numbered /25 on back"})
	require.True(t, ok)
	assert.Contains(t, result.Reasons, "Set: /25")
}

func TestKeyPlayerIsStandaloneSignal(t *testing.T) {
	c := testClassifier()

	result, ok := c.Classify(collection.Card{
		Player: "Ken Griffey Jr",
		Set:    "1989 Upper Deck",
		Sport:  "baseball",
		Flags:  "RC",
	})
	require.True(t, ok)
	assert.Equal(t, []string{"Rookie Card"}, result.Reasons)
	assert.True(t, result.KeyPlayer)
	assert.Zero(t, result.SetTier)
	assert.Equal(t, PriorityOther, result.Priority)
}

func TestKeyPlayerOnlyMatchStillIncluded(t *testing.T) {
	c := testClassifier()

	result, ok := c.Classify(collection.Card{
		Player: "Ken Griffey Jr",
		Set:    "1991 Donruss",
		Sport:  "baseball",
	})
	require.True(t, ok)
	assert.True(t, result.KeyPlayer)
	assert.Equal(t, "Key Player", result.Reason())
	assert.Equal(t, PriorityOther, result.Priority)
}

func TestNoSignalIsExcluded(t *testing.T) {
	c := testClassifier()

	_, ok := c.Classify(collection.Card{
		Player: "Bench Warmer",
		Set:    "1991 Donruss",
		Sport:  "baseball",
	})
	assert.False(t, ok)
}
