// Package collection parses collection export CSV files into card records.
package collection

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/cardscout/cardscout-go/internal/errors"
	"github.com/cardscout/cardscout-go/internal/logging"
)

// Card is one row of a collection export, one record per physical card.
// Fields may be empty, a missing field skips derived data for that card
// but never drops the record.
type Card struct {
	Player string
	Set    string
	Sport  string
	Year   string
	Brand  string
	Team   string
	Number string
	Flags  string
	Notes  string
}

// Title renders the card's display title from its populated fields.
func (c *Card) Title() string {
	parts := make([]string, 0, 4)
	if c.Year != "" && !strings.Contains(c.Set, c.Year) {
		parts = append(parts, c.Year)
	}
	if c.Set != "" {
		parts = append(parts, c.Set)
	}
	if c.Player != "" {
		parts = append(parts, c.Player)
	}
	if c.Number != "" {
		parts = append(parts, "#"+c.Number)
	}
	return strings.Join(parts, " ")
}

// Report summarizes a load: how many rows parsed, how many were skipped
// and why. Skipped rows never abort the load.
type Report struct {
	TotalRows   int
	Loaded      int
	Skipped     []SkippedRow
	MissingYear int
}

// SkippedRow records a row that could not be parsed.
type SkippedRow struct {
	Line   int
	Reason string
}

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// ExtractYear returns the first 4-digit year starting with 19 or 20 found
// in the string, or empty when none is present.
func ExtractYear(s string) string {
	return yearPattern.FindString(s)
}

var logger *slog.Logger

func init() {
	logger = logging.ForService("collection")
	if logger == nil {
		logger = slog.Default().With("service", "collection")
	}
}

// column aliases accepted in the header row, lowercased
var columnAliases = map[string]string{
	"name":        "player",
	"player":      "player",
	"player name": "player",
	"set":         "set",
	"set name":    "set",
	"category":    "sport",
	"sport":       "sport",
	"year":        "year",
	"brand":       "brand",
	"team":        "team",
	"number":      "number",
	"card number": "number",
	"card_number": "number",
	"flags":       "flags",
	"notes":       "notes",
	"note":        "notes",
}

// LoadFile reads a collection export from disk.
func LoadFile(path string) ([]Card, *Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.New(fmt.Errorf("failed to open collection file: %w", err)).
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	cards, report, err := Load(f)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("loaded collection export",
		"path", path,
		"rows", report.TotalRows,
		"loaded", report.Loaded,
		"skipped", len(report.Skipped))
	return cards, report, nil
}

// Load parses a collection export. The header row is required and maps
// columns by name, unknown columns are ignored. Malformed rows are
// reported and skipped, not fatal.
func Load(r io.Reader) ([]Card, *Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, errors.New(fmt.Errorf("failed to read header row: %w", err)).
			Category(errors.CategoryFileParsing).
			Build()
	}

	fields := make(map[string]int)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if canonical, ok := columnAliases[key]; ok {
			if _, seen := fields[canonical]; !seen {
				fields[canonical] = i
			}
		}
	}
	if _, ok := fields["player"]; !ok {
		if _, ok := fields["set"]; !ok {
			return nil, nil, errors.Newf("header row has no recognized columns").
				Category(errors.CategoryFileParsing).
				Build()
		}
	}

	report := &Report{}
	var cards []Card
	line := 1

	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Only parse errors are row-scoped, the reader has moved past
			// the bad record. Anything else means the source itself failed
			// and would error again on every read.
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, nil, errors.New(fmt.Errorf("failed to read collection row: %w", err)).
					Category(errors.CategoryFileIO).
					Context("line", line).
					Build()
			}
			report.TotalRows++
			report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}
		report.TotalRows++

		get := func(name string) string {
			idx, ok := fields[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		card := Card{
			Player: get("player"),
			Set:    get("set"),
			Sport:  strings.ToLower(get("sport")),
			Year:   get("year"),
			Brand:  get("brand"),
			Team:   get("team"),
			Number: get("number"),
			Flags:  get("flags"),
			Notes:  get("notes"),
		}

		if card.Year == "" && card.Set != "" {
			card.Year = ExtractYear(card.Set)
		}
		if card.Year == "" {
			report.MissingYear++
		}

		cards = append(cards, card)
		report.Loaded++
	}

	return cards, report, nil
}
