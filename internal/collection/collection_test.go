package collection

import (
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractYear(t *testing.T) {
	assert.Equal(t, "2020", ExtractYear("2020-21 Upper Deck Series 1 Hockey"))
	assert.Equal(t, "1986", ExtractYear("1986 Fleer Basketball"))
	assert.Equal(t, "1952", ExtractYear("Topps 1952 reprint"))
	assert.Equal(t, "", ExtractYear("Panini Prizm"))
	assert.Equal(t, "", ExtractYear(""))
}

func TestLoadMapsHeaderAliases(t *testing.T) {
	input := "name,set,category,number,flags,notes\n" +
		"Ken Griffey Jr,1989 Upper Deck,Baseball,1,RC,first card\n"

	cards, report, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 1, report.Loaded)

	card := cards[0]
	assert.Equal(t, "Ken Griffey Jr", card.Player)
	assert.Equal(t, "1989 Upper Deck", card.Set)
	assert.Equal(t, "baseball", card.Sport)
	assert.Equal(t, "1", card.Number)
	assert.Equal(t, "RC", card.Flags)
	assert.Equal(t, "1989", card.Year, "year extracted from set name")
}

func TestLoadKeepsRecordsWithMissingFields(t *testing.T) {
	input := "name,set,category\n" +
		",1986 Fleer Basketball,basketball\n" +
		"Mystery Player,,\n"

	cards, report, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 2, report.Loaded)
	assert.Empty(t, report.Skipped)

	assert.Empty(t, cards[0].Player)
	assert.Equal(t, "1986", cards[0].Year)
	assert.Empty(t, cards[1].Set)
	assert.Empty(t, cards[1].Year)
	assert.Equal(t, 1, report.MissingYear)
}

func TestLoadSkipsMalformedRowsAndContinues(t *testing.T) {
	input := "name,set,category\n" +
		"Good Player,2018 Prizm Basketball,basketball\n" +
		"\"unterminated,2019 Prizm,basketball\n" +
		"Another Player,2020 Prizm Basketball,basketball\n"

	cards, report, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(cards), 1)
	assert.Equal(t, "Good Player", cards[0].Player)
	assert.NotEmpty(t, report.Skipped)
}

func TestLoadRejectsUnrecognizedHeader(t *testing.T) {
	input := "foo,bar,baz\n1,2,3\n"
	_, _, err := Load(strings.NewReader(input))
	require.Error(t, err)
}

func TestCardTitle(t *testing.T) {
	card := Card{Player: "Luka Doncic", Set: "2018 Prizm Basketball", Year: "2018", Number: "280"}
	assert.Equal(t, "2018 Prizm Basketball Luka Doncic #280", card.Title())

	card = Card{Player: "Luka Doncic", Set: "Prizm Basketball", Year: "2018"}
	assert.Equal(t, "2018 Prizm Basketball Luka Doncic", card.Title())

	assert.Equal(t, "", (&Card{}).Title())
}

// faultyReader serves its buffered content and then fails every
// subsequent read with the same error, like a reader over a bad disk.
type faultyReader struct {
	data io.Reader
	err  error
}

func (r *faultyReader) Read(p []byte) (int, error) {
	n, err := r.data.Read(p)
	if err == io.EOF {
		return n, r.err
	}
	return n, err
}

func TestLoadFailsOnPersistentReadError(t *testing.T) {
	r := &faultyReader{
		data: strings.NewReader("name,set,category\nGood Player,2018 Prizm Basketball,basketball\n"),
		err:  stderrors.New("device error"),
	}

	done := make(chan error, 1)
	go func() {
		_, _, err := Load(r)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorContains(t, err, "device error")
	case <-time.After(2 * time.Second):
		t.Fatal("Load did not return, a persistent read error must abort the batch")
	}
}
