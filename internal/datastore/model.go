package datastore

import (
	"time"
)

// CardSet represents a reference card set with a grading priority tier.
// Tier 1 sets are the most desirable, tier 2 sets are still worth grading.
type CardSet struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Tier      int    `gorm:"index;not null"`
	Sport     string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KeyPlayer represents a reference player whose cards are worth grading.
// A player can appear under more than one sport, the pair is unique.
type KeyPlayer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex:idx_player_sport;not null"`
	Sport     string `gorm:"uniqueIndex:idx_player_sport;not null"`
	CreatedAt time.Time
}

// Keyword represents a reference term that signals a card may be valuable,
// such as a parallel or insert name.
type Keyword struct {
	ID        uint   `gorm:"primaryKey"`
	Term      string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// SetAggregate stores how many collection cards matched a set name.
type SetAggregate struct {
	ID        uint   `gorm:"primaryKey"`
	SetName   string `gorm:"uniqueIndex;not null"`
	CardCount int    `gorm:"not null"`
	UpdatedAt time.Time
}

// PlayerAggregate stores how many collection cards matched a player name.
type PlayerAggregate struct {
	ID         uint   `gorm:"primaryKey"`
	PlayerName string `gorm:"uniqueIndex;not null"`
	CardCount  int    `gorm:"not null"`
	UpdatedAt  time.Time
}

// ValuableCard is a classified collection card that carries at least one
// grading signal. Reason records which signal fired, Priority orders cards
// for review.
type ValuableCard struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"uniqueIndex;not null"`
	Player    string `gorm:"index"`
	SetName   string `gorm:"index"`
	Year      string
	Sport     string `gorm:"index"`
	Reason    string `gorm:"not null"`
	Priority  int    `gorm:"index;not null"`
	RunID     string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GuideSet is a card set discovered in the online price guide.
type GuideSet struct {
	ID        uint   `gorm:"primaryKey"`
	GuideID   string `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"index;not null"`
	Sport     string `gorm:"index"`
	Year      string
	URL       string
	Scraped   bool `gorm:"index"`
	ScrapedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GuideCard is a single card row scraped from a price guide set page,
// with graded values in cents-free dollars.
type GuideCard struct {
	ID           uint   `gorm:"primaryKey"`
	GuideSetID   string `gorm:"uniqueIndex:idx_guide_card;not null"`
	SetName      string `gorm:"index"`
	CardNumber   string `gorm:"uniqueIndex:idx_guide_card"`
	Player       string `gorm:"index"`
	Variety      string `gorm:"uniqueIndex:idx_guide_card"`
	Grade9Value  float64 `gorm:"index"`
	Grade10Value float64 `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
