package marketplace

import (
	"fmt"
	"strings"

	"github.com/cardscout/cardscout-go/internal/reference"
)

const titleMaxLen = 80

// sport names as the marketplace expects them
var sportNames = map[string]string{
	"football":   "Football",
	"baseball":   "Baseball",
	"basketball": "Basketball",
	"hockey":     "Ice Hockey",
}

var knownBrands = map[string]bool{
	"Topps": true, "Panini": true, "Upper Deck": true, "Donruss": true,
	"Fleer": true, "Score": true, "Bowman": true, "Leaf": true,
	"Stadium Club": true, "Fleer Ultra": true, "Hoops": true,
	"O-Pee-Chee": true, "Sportflics": true, "SkyBox": true,
	"Sports Illustrated": true,
}

// CardDetails are the attributes of a single card being listed.
type CardDetails struct {
	Player     string
	Year       string
	SetName    string
	Brand      string
	Sport      string
	CardNumber string
	Team       string
	IsRookie   bool
	IsGraded   bool
	Grade      string
	CertNumber string
	Condition  string
	Variety    string // Base, Refractor, Silver Prizm, ...
	Features   string // Serial Numbered, Autograph, ...
	ExtraText  string
	Price      string
}

// ValueContext annotates a listing with reference data matches.
type ValueContext struct {
	KeyPlayer bool
	Tier1Set  bool
	Tier2Set  bool
}

// Listing is a complete marketplace listing draft with every item
// specific filled in.
type Listing struct {
	Title         string
	Description   string
	ItemSpecifics map[string]string
	Price         string
	CategoryID    string
	Keywords      string
	Context       ValueContext
}

// truncateTitle cuts at the marketplace's title limit on a word boundary.
func truncateTitle(title string) string {
	if len(title) <= titleMaxLen {
		return title
	}
	cut := title[:titleMaxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

// BuildListing assembles a full listing draft. Lookups may be nil when no
// reference data is available, the value context is then empty.
func BuildListing(card CardDetails, lookups *reference.Lookups) *Listing {
	sportName, ok := sportNames[strings.ToLower(card.Sport)]
	if !ok && card.Sport != "" {
		lower := strings.ToLower(card.Sport)
		sportName = strings.ToUpper(lower[:1]) + lower[1:]
	}

	ctx := ValueContext{}
	if lookups != nil {
		if card.Player != "" {
			ctx.KeyPlayer = lookups.IsKeyPlayer(card.Player, "")
		}
		if _, tier, _, ok := lookups.SetMatch(card.SetName); ok {
			ctx.Tier1Set = tier == 1
			ctx.Tier2Set = tier == 2
		}
	}

	// Title format: Year Brand Player Set [Rookie] [Grade] [#Number]
	var titleParts []string
	if card.Year != "" {
		titleParts = append(titleParts, card.Year)
	}
	if card.Brand != "" && card.Brand != "Other" {
		titleParts = append(titleParts, card.Brand)
	}
	if card.SetName != "" && !strings.EqualFold(card.SetName, card.Brand) {
		titleParts = append(titleParts, card.SetName)
	}
	if card.Player != "" {
		titleParts = append(titleParts, card.Player)
	}
	if card.IsRookie {
		titleParts = append(titleParts, "Rookie")
	}
	if card.IsGraded && card.Grade != "" {
		titleParts = append(titleParts, card.Grade)
	}
	if card.CardNumber != "" && card.CardNumber != "N/A" {
		titleParts = append(titleParts, "#"+card.CardNumber)
	}
	title := truncateTitle(strings.Join(titleParts, " "))

	setDisplay := fmt.Sprintf("%s %s %s", card.Year, card.Brand, card.SetName)
	if strings.EqualFold(card.SetName, card.Brand) {
		setDisplay = fmt.Sprintf("%s %s", card.Year, card.Brand)
	}
	rookie := ""
	if card.IsRookie {
		rookie = "Rookie "
	}

	var descLines []string
	descLines = append(descLines, fmt.Sprintf("%s %sCard.", strings.TrimSpace(setDisplay), rookie))
	if card.Player != "" {
		descLines = append(descLines, fmt.Sprintf("Player: %s.", card.Player))
	}
	if card.CardNumber != "" {
		descLines = append(descLines, fmt.Sprintf("Card #: %s.", card.CardNumber))
	}
	if card.Team != "" {
		descLines = append(descLines, fmt.Sprintf("Team: %s.", card.Team))
	}
	switch {
	case card.IsGraded && card.CertNumber != "":
		descLines = append(descLines, fmt.Sprintf("Graded: %s. Cert: %s.", card.Grade, card.CertNumber))
	case card.IsGraded:
		descLines = append(descLines, fmt.Sprintf("Graded: %s.", card.Grade))
	default:
		descLines = append(descLines, fmt.Sprintf("Condition: %s.", card.Condition))
	}
	if card.IsGraded {
		descLines = append(descLines, "Ships in card saver/sleeve.")
	} else {
		descLines = append(descLines, "Ships securely in top loader and rigid mailer.")
	}
	if ctx.KeyPlayer || ctx.Tier1Set || ctx.Tier2Set {
		descLines = append(descLines, "", "Sought-after card, see recent sold listings.")
	}
	if card.ExtraText != "" {
		descLines = append(descLines, "", strings.TrimSpace(card.ExtraText))
	}

	brand := card.Brand
	if !knownBrands[brand] {
		brand = "Other"
	}
	cardNumber := card.CardNumber
	if cardNumber == "" {
		cardNumber = "N/A"
	}
	team := card.Team
	if team == "" {
		team = "N/A"
	}
	variety := card.Variety
	if variety == "" {
		variety = "Base"
	}

	specs := map[string]string{
		"Year":        card.Year,
		"Brand":       brand,
		"Sport":       sportName,
		"Player":      card.Player,
		"Card Number": cardNumber,
		"Team":        team,
		"Season":      card.Year,
		"Rookie":      yesNo(card.IsRookie),
		"Graded":      yesNo(card.IsGraded),
		"Variety":     variety,
	}
	if card.IsGraded {
		specs["Grade"] = card.Grade
		specs["Certification Number"] = card.CertNumber
	} else {
		specs["Condition"] = card.Condition
	}
	if card.Features != "" {
		specs["Features"] = card.Features
	}
	for k, v := range specs {
		if v == "" {
			delete(specs, k)
		}
	}

	keywords := []string{card.Year, card.Brand, card.SetName, card.Player, sportName}
	if card.IsRookie {
		keywords = append(keywords, "Rookie")
	}
	if card.Variety != "" && card.Variety != "Base" {
		keywords = append(keywords, card.Variety)
	}
	if card.IsGraded && card.Grade != "" {
		keywords = append(keywords, card.Grade)
	}
	if card.Team != "" {
		keywords = append(keywords, card.Team)
	}
	var kept []string
	for _, k := range keywords {
		if k != "" {
			kept = append(kept, k)
		}
	}

	price := card.Price
	if price == "" {
		price = "Check sold listings"
	}

	return &Listing{
		Title:         title,
		Description:   strings.Join(descLines, "\n"),
		ItemSpecifics: specs,
		Price:         price,
		CategoryID:    categorySingles,
		Keywords:      strings.Join(kept, ", "),
		Context:       ctx,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// specOrder is the display order for item specifics.
var specOrder = []string{
	"Year", "Brand", "Sport", "Player", "Card Number", "Team", "Season",
	"Rookie", "Graded", "Grade", "Certification Number", "Condition",
	"Variety", "Features",
}

// FormatText renders the listing as copy-paste ready text.
func (l *Listing) FormatText() string {
	divider := strings.Repeat("=", 60)
	var b strings.Builder

	b.WriteString(divider + "\n")
	b.WriteString("MARKETPLACE LISTING\n")
	b.WriteString(divider + "\n\n")
	b.WriteString("TITLE (80 char max):\n")
	b.WriteString(l.Title + "\n\n")
	b.WriteString("DESCRIPTION:\n")
	b.WriteString(l.Description + "\n\n")
	b.WriteString("--- ITEM SPECIFICS ---\n")
	for _, k := range specOrder {
		if v, ok := l.ItemSpecifics[k]; ok && v != "" {
			fmt.Fprintf(&b, "  %s: %s\n", k, v)
		}
	}
	b.WriteString("\nSUGGESTED PRICE:\n")
	b.WriteString(l.Price + "\n\n")
	b.WriteString("CATEGORY ID:\n")
	b.WriteString(l.CategoryID + "\n\n")
	b.WriteString("KEYWORDS:\n")
	b.WriteString(l.Keywords + "\n")
	b.WriteString(divider + "\n")
	return b.String()
}

// CSVHeader is the column order for bulk upload rows.
var CSVHeader = []string{
	"Title", "Description", "Price", "Category", "Year", "Brand", "Sport",
	"Player", "Card Number", "Team", "Season", "Rookie", "Graded", "Grade",
	"Certification Number", "Condition", "Variety", "Features",
}

// CSVRow renders the listing as one bulk upload row matching CSVHeader.
func (l *Listing) CSVRow() []string {
	s := l.ItemSpecifics
	return []string{
		l.Title, l.Description, l.Price, l.CategoryID,
		s["Year"], s["Brand"], s["Sport"], s["Player"], s["Card Number"],
		s["Team"], s["Season"], s["Rookie"], s["Graded"], s["Grade"],
		s["Certification Number"], s["Condition"], s["Variety"], s["Features"],
	}
}
