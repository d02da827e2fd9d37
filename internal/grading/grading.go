// Package grading classifies collection cards into grade-worthy
// categories using the reference lookups.
package grading

import (
	"strings"

	"github.com/cardscout/cardscout-go/internal/collection"
	"github.com/cardscout/cardscout-go/internal/reference"
)

// Priority levels assigned to classified cards. A tier-1 set match is the
// strongest signal, a card with no signal at all is excluded.
const (
	PriorityNone  = 0
	PriorityOther = 1
	PriorityTier2 = 2
	PriorityTier1 = 3
)

// Result is the classification outcome for a single card. Reasons is the
// union of every signal that fired, a result is only produced when at
// least one fired.
type Result struct {
	Card        collection.Card
	Reasons     []string
	Priority    int
	SetName     string // matched reference set name, empty when none
	SetTier     int    // 1 or 2 when a reference set matched
	KeyPlayer   bool
	KeywordHits []string
}

// flag tokens and the reason each one contributes
var flagReasons = []struct {
	token  string
	reason string
}{
	{"RC", "Rookie Card"},
	{"SN", "Serial Numbered"},
	{"AUTO", "Autograph"},
	{"MEM", "Memorabilia"},
}

// Classifier applies the reference lookups to card records.
type Classifier struct {
	lookups *reference.Lookups
}

// NewClassifier returns a classifier over the given reference lookups.
func NewClassifier(lookups *reference.Lookups) *Classifier {
	return &Classifier{lookups: lookups}
}

// hasFlagToken reports whether the flags field contains the token as a
// whole word. Flags are short comma or space separated tokens, substring
// matching would let "ARC" trigger "RC".
func hasFlagToken(flags, token string) bool {
	for _, raw := range strings.FieldsFunc(flags, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '/' || r == ' ' || r == '\t'
	}) {
		if strings.EqualFold(strings.TrimSpace(raw), token) {
			return true
		}
	}
	return false
}

// Classify produces the classification result for one card, or ok=false
// when no signal fired. Absence of a match is a valid outcome, not an
// error.
func (c *Classifier) Classify(card collection.Card) (Result, bool) {
	result := Result{Card: card}

	for _, fr := range flagReasons {
		if hasFlagToken(card.Flags, fr.token) {
			result.Reasons = append(result.Reasons, fr.reason)
		}
	}

	if name, tier, _, ok := c.lookups.SetMatch(card.Set); ok {
		result.SetName = name
		result.SetTier = tier
		switch tier {
		case 1:
			result.Reasons = append(result.Reasons, "Tier 1 Set")
		case 2:
			result.Reasons = append(result.Reasons, "Tier 2 Set")
		}
	}

	scanText := card.Set
	if card.Flags != "" {
		scanText += " " + card.Flags
	}
	if card.Notes != "" {
		scanText += " " + card.Notes
	}
	result.KeywordHits = c.lookups.KeywordHits(scanText)
	if len(result.KeywordHits) > 0 {
		result.Reasons = append(result.Reasons, "Set: "+result.KeywordHits[0])
	}

	// Key player membership is a standalone signal, separate from the
	// reason list built from set and flag rules.
	if card.Player != "" && c.lookups.IsKeyPlayer(card.Player, card.Sport) {
		result.KeyPlayer = true
	}

	switch {
	case result.SetTier == 1:
		result.Priority = PriorityTier1
	case result.SetTier == 2:
		result.Priority = PriorityTier2
	case len(result.Reasons) > 0 || result.KeyPlayer:
		result.Priority = PriorityOther
	default:
		result.Priority = PriorityNone
	}

	if len(result.Reasons) == 0 && !result.KeyPlayer {
		return Result{}, false
	}
	return result, true
}

// Reason joins all triggered reasons for display and persistence. A card
// that matched only on player membership cites that as its reason.
func (r *Result) Reason() string {
	if len(r.Reasons) == 0 && r.KeyPlayer {
		return "Key Player"
	}
	return strings.Join(r.Reasons, ", ")
}
