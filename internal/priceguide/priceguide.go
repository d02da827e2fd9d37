// Package priceguide scrapes an online graded-card price guide into the
// datastore, set discovery first, then per-set price tables.
package priceguide

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardscout/cardscout-go/internal/collection"
	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/errors"
	"github.com/cardscout/cardscout-go/internal/logging"
	"github.com/cardscout/cardscout-go/internal/observability/metrics"
)

// SportCategory identifies a sport section of the price guide.
type SportCategory struct {
	ID      int
	URLPart string
}

// SportCategories maps sport names to their price guide categories.
var SportCategories = map[string]SportCategory{
	"baseball":   {ID: 13, URLPart: "baseball-card-values"},
	"basketball": {ID: 3, URLPart: "basketball-card-values"},
	"football":   {ID: 5, URLPart: "football-card-values"},
	"hockey":     {ID: 1, URLPart: "hockey-card-values"},
	"soccer":     {ID: 17, URLPart: "soccer-card-values"},
	"boxing":     {ID: 4, URLPart: "boxing-card-values"},
	"golf":       {ID: 6, URLPart: "golf-card-values"},
	"racing":     {ID: 10, URLPart: "racing-card-values"},
}

const (
	maxRetries     = 3
	requestTimeout = 30 * time.Second
)

// browser-like headers, the guide serves a block page to default clients
var requestHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Scraper fetches and stores price guide data. Metrics may be nil.
type Scraper struct {
	Settings *conf.Settings
	Store    datastore.Interface
	Metrics  *metrics.ScraperMetrics

	client  *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// RunStats summarizes one scrape run.
type RunStats struct {
	SetsDiscovered int
	SetsScraped    int
	CardsScraped   int
}

// New returns a scraper configured from settings. The request rate is
// capped at one request per configured delay.
func New(settings *conf.Settings, store datastore.Interface) *Scraper {
	delay := settings.Scraper.Delay
	if delay <= 0 {
		delay = 1.0
	}
	log := logging.ForService("priceguide")
	if log == nil {
		log = slog.Default().With("service", "priceguide")
	}
	return &Scraper{
		Settings: settings,
		Store:    store,
		client:   &http.Client{Timeout: requestTimeout},
		limiter:  rate.NewLimiter(rate.Limit(1.0/delay), 1),
		log:      log,
	}
}

// fetch performs a rate limited GET with retries. Throttling responses
// back off 15s per attempt before retrying.
func (s *Scraper) fetch(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, errors.New(err).Category(errors.CategoryHTTP).Context("url", url).Build()
		}
		for k, v := range requestHeaders {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := s.client.Do(req)
		s.Metrics.ObserveFetchDuration(time.Since(start).Seconds())
		if err != nil {
			lastErr = err
			s.log.Warn("request failed", "url", url, "attempt", attempt, "error", err)
			continue
		}
		s.Metrics.IncPageFetched(resp.StatusCode)

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			wait := time.Duration(attempt) * 15 * time.Second
			s.log.Warn("rate limited, backing off", "url", url, "wait", wait)
			s.Metrics.IncRetries()
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("throttled with status %d", resp.StatusCode)
		default:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			s.log.Warn("unexpected response", "url", url, "status", resp.StatusCode)
		}
	}
	return nil, errors.New(fmt.Errorf("fetch failed after %d attempts: %w", maxRetries, lastErr)).
		Category(errors.CategoryScrape).
		Context("url", url).
		Build()
}

// DiscoverSets fetches the category page for a sport and stores every set
// link found on it.
func (s *Scraper) DiscoverSets(ctx context.Context, sport string) (int, error) {
	cat, ok := SportCategories[sport]
	if !ok {
		return 0, errors.Newf("unknown sport: %s", sport).
			Category(errors.CategoryValidation).
			Context("sport", sport).
			Build()
	}

	url := fmt.Sprintf("%s/priceguide/%s/%d", s.Settings.Scraper.BaseURL, cat.URLPart, cat.ID)
	s.log.Info("discovering sets", "sport", sport, "url", url)

	resp, err := s.fetch(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	links, err := parseSetLinks(resp.Body, cat.URLPart)
	if err != nil {
		return 0, errors.New(err).Category(errors.CategoryScrape).Context("url", url).Build()
	}

	stored := 0
	for _, link := range links {
		set := &datastore.GuideSet{
			GuideID: link.ID,
			Name:    link.Name,
			Sport:   sport,
			Year:    collection.ExtractYear(link.Name),
			URL:     s.Settings.Scraper.BaseURL + link.URL,
		}
		if err := s.Store.UpsertGuideSet(set); err != nil {
			s.log.Warn("failed to store guide set", "guide_id", link.ID, "error", err)
			continue
		}
		stored++
	}

	s.log.Info("set discovery complete", "sport", sport, "found", len(links), "stored", stored)
	return stored, nil
}

// ScrapeSet fetches one set's price table and stores its card rows. The
// set is marked scraped only when at least one row was stored.
func (s *Scraper) ScrapeSet(ctx context.Context, set *datastore.GuideSet) (int, error) {
	resp, err := s.fetch(ctx, set.URL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	rows, err := parsePriceTable(resp.Body)
	if err != nil {
		return 0, errors.New(err).Category(errors.CategoryScrape).Context("url", set.URL).Build()
	}

	stored := 0
	for i := range rows {
		card := &datastore.GuideCard{
			GuideSetID:   set.GuideID,
			SetName:      set.Name,
			CardNumber:   rows[i].Number,
			Player:       rows[i].Player,
			Variety:      rows[i].Variety,
			Grade9Value:  rows[i].Grade9,
			Grade10Value: rows[i].Grade10,
		}
		if err := s.Store.UpsertGuideCard(card); err != nil {
			s.log.Warn("failed to store guide card", "guide_id", set.GuideID, "card", rows[i].Number, "error", err)
			continue
		}
		stored++
	}
	s.Metrics.AddCardsScraped(stored)

	if stored > 0 {
		if err := s.Store.MarkGuideSetScraped(set.GuideID); err != nil {
			return stored, err
		}
		s.Metrics.IncSetsScraped()
	}
	return stored, nil
}

// Run discovers and scrapes all sets for the sport, or every known sport
// when sport is "all". Per-set failures are logged and skipped.
func (s *Scraper) Run(ctx context.Context, sport string) (*RunStats, error) {
	sports := []string{sport}
	if sport == "all" {
		sports = sports[:0]
		for name := range SportCategories {
			sports = append(sports, name)
		}
	}

	stats := &RunStats{}
	for _, name := range sports {
		discovered, err := s.DiscoverSets(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return stats, err
			}
			s.log.Error("set discovery failed", "sport", name, "error", err)
			continue
		}
		stats.SetsDiscovered += discovered
	}

	pending, err := s.Store.GetUnscrapedGuideSets(0)
	if err != nil {
		return stats, err
	}

	for i := range pending {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		count, err := s.ScrapeSet(ctx, &pending[i])
		if err != nil {
			if ctx.Err() != nil {
				return stats, err
			}
			s.log.Error("set scrape failed", "guide_id", pending[i].GuideID, "error", err)
			continue
		}
		stats.CardsScraped += count
		if count > 0 {
			stats.SetsScraped++
		}
	}

	s.log.Info("scrape run complete",
		"sets_discovered", stats.SetsDiscovered,
		"sets_scraped", stats.SetsScraped,
		"cards_scraped", stats.CardsScraped)
	return stats, nil
}

// ExportHighValueCSV writes all cards at or above the configured minimum
// graded value to a CSV, sorted most valuable first, with the estimated
// grading margin per card.
func (s *Scraper) ExportHighValueCSV(path string) (int, error) {
	cards, err := s.Store.GetHighValueGuideCards(s.Settings.Scraper.MinValue, 0)
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		return 0, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, errors.New(err).Category(errors.CategoryFileIO).Context("path", path).Build()
	}
	defer f.Close()

	gradingCost := s.Settings.Marketplace.GradingCost
	w := csv.NewWriter(f)
	header := []string{"set", "card_number", "player", "variety", "psa_9", "psa_10", "grading_cost", "margin_psa_9", "margin_psa_10"}
	if err := w.Write(header); err != nil {
		return 0, err
	}
	for i := range cards {
		c := &cards[i]
		row := []string{
			c.SetName,
			c.CardNumber,
			c.Player,
			c.Variety,
			formatPrice(c.Grade9Value),
			formatPrice(c.Grade10Value),
			formatPrice(gradingCost),
			formatPrice(c.Grade9Value - gradingCost),
			formatPrice(c.Grade10Value - gradingCost),
		}
		if err := w.Write(row); err != nil {
			return 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, err
	}

	s.log.Info("exported high value cards", "path", path, "count", len(cards))
	return len(cards), nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

