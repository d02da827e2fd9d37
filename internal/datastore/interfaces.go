package datastore

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/errors"
	"github.com/cardscout/cardscout-go/internal/logging"
)

// Interface defines the operations the application performs against the
// backing database. Implementations wrap a GORM dialect.
type Interface interface {
	Open() error
	Close() error

	// Reference data
	UpsertCardSet(set *CardSet) error
	InsertKeyPlayer(player *KeyPlayer) error
	InsertKeyword(keyword *Keyword) error
	GetCardSets() ([]CardSet, error)
	GetKeyPlayers() ([]KeyPlayer, error)
	GetKeywords() ([]Keyword, error)

	// Classification results
	UpsertSetAggregate(agg *SetAggregate) error
	UpsertPlayerAggregate(agg *PlayerAggregate) error
	UpsertValuableCard(card *ValuableCard) error
	GetSetAggregates(minCount int) ([]SetAggregate, error)
	GetPlayerAggregates(minCount int) ([]PlayerAggregate, error)
	GetValuableCards(limit int) ([]ValuableCard, error)
	SearchValuableCards(query string, limit int) ([]ValuableCard, error)

	// Price guide data
	UpsertGuideSet(set *GuideSet) error
	MarkGuideSetScraped(guideID string) error
	GetUnscrapedGuideSets(limit int) ([]GuideSet, error)
	UpsertGuideCard(card *GuideCard) error
	GetHighValueGuideCards(minValue float64, limit int) ([]GuideCard, error)
	GuideStats() (GuideStatsResult, error)
}

// GuideStatsResult summarizes scraped price guide coverage.
type GuideStatsResult struct {
	TotalSets   int64
	ScrapedSets int64
	TotalCards  int64
}

// DataStore implements the Interface using GORM, shared by all dialects.
type DataStore struct {
	DB *gorm.DB
}

var logger *slog.Logger

func init() {
	logger = logging.ForService("datastore")
	if logger == nil {
		logger = slog.Default().With("service", "datastore")
	}
}

// New creates a datastore for the enabled database output. Only one output
// may be enabled; validation enforces that at config load.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}
	default:
		return &SQLiteStore{Settings: settings}
	}
}

// performAutoMigration runs GORM auto migration for all models, mapping
// failures to a database category error.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(
		&CardSet{},
		&KeyPlayer{},
		&Keyword{},
		&SetAggregate{},
		&PlayerAggregate{},
		&ValuableCard{},
		&GuideSet{},
		&GuideCard{},
	); err != nil {
		return errors.New(fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)).
			Category(errors.CategoryDatabase).
			Context("db_type", dbType).
			Build()
	}

	if debug {
		logger.Debug("database migration completed", "db_type", dbType, "connection", connectionInfo)
	}
	return nil
}

// UpsertCardSet inserts a card set or updates its tier and sport when the
// name already exists.
func (ds *DataStore) UpsertCardSet(set *CardSet) error {
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"tier", "sport", "updated_at"}),
	}).Create(set).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "upsert_card_set").
			Context("set_name", set.Name).
			Build()
	}
	return nil
}

// InsertKeyPlayer inserts a player, ignoring the write when the name and
// sport pair exists.
func (ds *DataStore) InsertKeyPlayer(player *KeyPlayer) error {
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "sport"}},
		DoNothing: true,
	}).Create(player).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "insert_key_player").
			Context("player_name", player.Name).
			Build()
	}
	return nil
}

// InsertKeyword inserts a keyword, ignoring the write when the term exists.
func (ds *DataStore) InsertKeyword(keyword *Keyword) error {
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "term"}},
		DoNothing: true,
	}).Create(keyword).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "insert_keyword").
			Context("term", keyword.Term).
			Build()
	}
	return nil
}

// GetCardSets returns all reference card sets ordered by tier then name.
func (ds *DataStore) GetCardSets() ([]CardSet, error) {
	var sets []CardSet
	if err := ds.DB.Order("tier ASC, name ASC").Find(&sets).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_card_sets").
			Build()
	}
	return sets, nil
}

// GetKeyPlayers returns all reference players ordered by sport then name.
func (ds *DataStore) GetKeyPlayers() ([]KeyPlayer, error) {
	var players []KeyPlayer
	if err := ds.DB.Order("sport ASC, name ASC").Find(&players).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_key_players").
			Build()
	}
	return players, nil
}

// GetKeywords returns all reference keywords ordered by term.
func (ds *DataStore) GetKeywords() ([]Keyword, error) {
	var keywords []Keyword
	if err := ds.DB.Order("term ASC").Find(&keywords).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_keywords").
			Build()
	}
	return keywords, nil
}

// UpsertSetAggregate writes a set count, replacing any previous count for
// the same set name.
func (ds *DataStore) UpsertSetAggregate(agg *SetAggregate) error {
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "set_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"card_count", "updated_at"}),
	}).Create(agg).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "upsert_set_aggregate").
			Context("set_name", agg.SetName).
			Build()
	}
	return nil
}

// UpsertPlayerAggregate writes a player count, replacing any previous count
// for the same player name.
func (ds *DataStore) UpsertPlayerAggregate(agg *PlayerAggregate) error {
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"card_count", "updated_at"}),
	}).Create(agg).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "upsert_player_aggregate").
			Context("player_name", agg.PlayerName).
			Build()
	}
	return nil
}

// UpsertValuableCard writes a classified card, replacing the previous row
// for the same title so reruns reflect the latest classification.
func (ds *DataStore) UpsertValuableCard(card *ValuableCard) error {
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{"player", "set_name", "year", "sport", "reason", "priority", "run_id", "updated_at"}),
	}).Create(card).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "upsert_valuable_card").
			Context("title", card.Title).
			Build()
	}
	return nil
}

// GetSetAggregates returns set counts at or above minCount, most common
// first with name as tiebreak.
func (ds *DataStore) GetSetAggregates(minCount int) ([]SetAggregate, error) {
	var aggs []SetAggregate
	err := ds.DB.Where("card_count >= ?", minCount).
		Order("card_count DESC, set_name ASC").
		Find(&aggs).Error
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_set_aggregates").
			Build()
	}
	return aggs, nil
}

// GetPlayerAggregates returns player counts at or above minCount, most
// common first with name as tiebreak.
func (ds *DataStore) GetPlayerAggregates(minCount int) ([]PlayerAggregate, error) {
	var aggs []PlayerAggregate
	err := ds.DB.Where("card_count >= ?", minCount).
		Order("card_count DESC, player_name ASC").
		Find(&aggs).Error
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_player_aggregates").
			Build()
	}
	return aggs, nil
}

// GetValuableCards returns classified cards ordered by priority then title.
// A limit of 0 returns all rows.
func (ds *DataStore) GetValuableCards(limit int) ([]ValuableCard, error) {
	var cards []ValuableCard
	query := ds.DB.Order("priority DESC, title ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&cards).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_valuable_cards").
			Build()
	}
	return cards, nil
}

// SearchValuableCards returns classified cards whose title, player or set
// name contains the query string, case-insensitively.
func (ds *DataStore) SearchValuableCards(query string, limit int) ([]ValuableCard, error) {
	var cards []ValuableCard
	pattern := "%" + query + "%"
	q := ds.DB.Where("title LIKE ? OR player LIKE ? OR set_name LIKE ?", pattern, pattern, pattern).
		Order("priority DESC, title ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&cards).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "search_valuable_cards").
			Context("query", query).
			Build()
	}
	return cards, nil
}

// UpsertGuideSet inserts a discovered price guide set or refreshes its
// metadata when the guide ID already exists. The scraped flag is preserved.
func (ds *DataStore) UpsertGuideSet(set *GuideSet) error {
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guide_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "sport", "year", "url", "updated_at"}),
	}).Create(set).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "upsert_guide_set").
			Context("guide_id", set.GuideID).
			Build()
	}
	return nil
}

// MarkGuideSetScraped flags a guide set as fully scraped.
func (ds *DataStore) MarkGuideSetScraped(guideID string) error {
	now := time.Now()
	err := ds.DB.Model(&GuideSet{}).
		Where("guide_id = ?", guideID).
		Updates(map[string]any{"scraped": true, "scraped_at": &now}).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "mark_guide_set_scraped").
			Context("guide_id", guideID).
			Build()
	}
	return nil
}

// GetUnscrapedGuideSets returns guide sets not yet scraped, oldest first.
// A limit of 0 returns all rows.
func (ds *DataStore) GetUnscrapedGuideSets(limit int) ([]GuideSet, error) {
	var sets []GuideSet
	query := ds.DB.Where("scraped = ?", false).Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sets).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_unscraped_guide_sets").
			Build()
	}
	return sets, nil
}

// UpsertGuideCard writes a scraped card row, replacing values for the same
// set, card number and variety.
func (ds *DataStore) UpsertGuideCard(card *GuideCard) error {
	err := ds.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guide_set_id"}, {Name: "card_number"}, {Name: "variety"}},
		DoUpdates: clause.AssignmentColumns([]string{"set_name", "player", "grade9_value", "grade10_value", "updated_at"}),
	}).Create(card).Error
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "upsert_guide_card").
			Context("guide_set_id", card.GuideSetID).
			Build()
	}
	return nil
}

// GetHighValueGuideCards returns scraped cards whose PSA 9 or PSA 10 value
// meets minValue, most valuable first.
func (ds *DataStore) GetHighValueGuideCards(minValue float64, limit int) ([]GuideCard, error) {
	var cards []GuideCard
	query := ds.DB.Where("grade9_value >= ? OR grade10_value >= ?", minValue, minValue).
		Order("grade10_value DESC, grade9_value DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&cards).Error; err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_high_value_guide_cards").
			Build()
	}
	return cards, nil
}

// GuideStats reports scraping progress over the guide tables.
func (ds *DataStore) GuideStats() (GuideStatsResult, error) {
	var stats GuideStatsResult
	if err := ds.DB.Model(&GuideSet{}).Count(&stats.TotalSets).Error; err != nil {
		return stats, errors.New(err).Category(errors.CategoryDatabase).Context("operation", "guide_stats").Build()
	}
	if err := ds.DB.Model(&GuideSet{}).Where("scraped = ?", true).Count(&stats.ScrapedSets).Error; err != nil {
		return stats, errors.New(err).Category(errors.CategoryDatabase).Context("operation", "guide_stats").Build()
	}
	if err := ds.DB.Model(&GuideCard{}).Count(&stats.TotalCards).Error; err != nil {
		return stats, errors.New(err).Category(errors.CategoryDatabase).Context("operation", "guide_stats").Build()
	}
	return stats, nil
}
