package marketplace

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/reference"
)

func TestSearchURLBasic(t *testing.T) {
	raw := SearchURL("Ken Griffey Jr 1989 Upper Deck", SearchOptions{Sold: true, MinPrice: 25})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "Ken Griffey Jr 1989 Upper Deck", q.Get("_nkw"))
	assert.Equal(t, "261328", q.Get("_sacat"))
	assert.Equal(t, "1", q.Get("LH_Complete"))
	assert.Equal(t, "1", q.Get("LH_Sold"))
	assert.Equal(t, "25", q.Get("_udlo"))
}

func TestSearchURLActiveOmitsSoldParams(t *testing.T) {
	raw := SearchURL("Luka Doncic", SearchOptions{})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Empty(t, q.Get("LH_Sold"))
	assert.Empty(t, q.Get("LH_Complete"))
	assert.Empty(t, q.Get("_udlo"))
}

func TestSearchURLQueryModifiers(t *testing.T) {
	raw := SearchURL("Mahomes", SearchOptions{ExcludeAutos: true, GradedOnly: true})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	query := u.Query().Get("_nkw")
	assert.Contains(t, query, "-autograph")
	assert.Contains(t, query, "-signed")
	assert.Contains(t, query, "(PSA,BGS,SGC,CGC)")

	raw = SearchURL("Mahomes", SearchOptions{ExcludeGraded: true})
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("_nkw"), "-PSA -BGS -SGC -CGC")
}

func TestTruncateTitleWordBoundary(t *testing.T) {
	long := strings.Repeat("Longword ", 12) // 108 chars
	got := truncateTitle(long)
	assert.LessOrEqual(t, len(got), 80)
	assert.False(t, strings.HasSuffix(got, " "))
	assert.True(t, strings.HasSuffix(got, "Longword"), "cut lands on a word boundary")

	short := "1989 Upper Deck Ken Griffey Jr Rookie #1"
	assert.Equal(t, short, truncateTitle(short))
}

func testLookups() *reference.Lookups {
	sets := []datastore.CardSet{{Name: "1986 Fleer", Tier: 1, Sport: "basketball"}}
	players := []datastore.KeyPlayer{{Name: "Ken Griffey Jr", Sport: "baseball"}}
	return reference.NewLookups(sets, players, nil)
}

func TestBuildListingFillsSpecifics(t *testing.T) {
	listing := BuildListing(CardDetails{
		Player:     "Mark Brunell",
		Year:       "1995",
		SetName:    "Sports Illustrated Kids",
		Brand:      "Sports Illustrated",
		Sport:      "football",
		Team:       "Jacksonville Jaguars",
		IsRookie:   true,
		Condition:  "Near Mint or Better",
		Price:      "$3-$8",
	}, nil)

	assert.Equal(t, "1995 Sports Illustrated Sports Illustrated Kids Mark Brunell Rookie", listing.Title)
	assert.LessOrEqual(t, len(listing.Title), 80)
	assert.Equal(t, "261328", listing.CategoryID)
	assert.Equal(t, "Football", listing.ItemSpecifics["Sport"])
	assert.Equal(t, "Yes", listing.ItemSpecifics["Rookie"])
	assert.Equal(t, "No", listing.ItemSpecifics["Graded"])
	assert.Equal(t, "Near Mint or Better", listing.ItemSpecifics["Condition"])
	assert.Equal(t, "N/A", listing.ItemSpecifics["Card Number"])
	assert.Equal(t, "Base", listing.ItemSpecifics["Variety"])
	assert.Contains(t, listing.Description, "Rookie Card.")
	assert.Contains(t, listing.Description, "top loader")
	assert.Contains(t, listing.Keywords, "Rookie")
}

func TestBuildListingGraded(t *testing.T) {
	listing := BuildListing(CardDetails{
		Player:     "Michael Jordan",
		Year:       "1986",
		SetName:    "1986 Fleer Basketball",
		Brand:      "Fleer",
		Sport:      "basketball",
		CardNumber: "57",
		IsGraded:   true,
		Grade:      "PSA 9",
		CertNumber: "12345678",
	}, testLookups())

	assert.Equal(t, "PSA 9", listing.ItemSpecifics["Grade"])
	assert.Equal(t, "12345678", listing.ItemSpecifics["Certification Number"])
	assert.Empty(t, listing.ItemSpecifics["Condition"])
	assert.Contains(t, listing.Description, "Cert: 12345678")
	assert.True(t, listing.Context.Tier1Set)
	assert.False(t, listing.Context.KeyPlayer)
}

func TestBuildListingValueContextKeyPlayer(t *testing.T) {
	listing := BuildListing(CardDetails{
		Player:  "Ken Griffey Jr",
		Year:    "1989",
		SetName: "Upper Deck",
		Brand:   "Upper Deck",
		Sport:   "baseball",
	}, testLookups())

	assert.True(t, listing.Context.KeyPlayer)
	assert.False(t, listing.Context.Tier1Set)
	// set equals brand, not repeated in the title
	assert.Equal(t, "1989 Upper Deck Ken Griffey Jr", listing.Title)
}

func TestFormatTextAndCSVRow(t *testing.T) {
	listing := BuildListing(CardDetails{
		Player: "Luka Doncic", Year: "2018", SetName: "Prizm", Brand: "Panini",
		Sport: "basketball", CardNumber: "280", Condition: "Near Mint or Better",
	}, nil)

	text := listing.FormatText()
	assert.Contains(t, text, "TITLE (80 char max):")
	assert.Contains(t, text, "Player: Luka Doncic")

	row := listing.CSVRow()
	require.Len(t, row, len(CSVHeader))
	assert.Equal(t, listing.Title, row[0])
	assert.Equal(t, "261328", row[3])
}
