package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// ScraperMetrics contains Prometheus metrics for the price guide scraper.
type ScraperMetrics struct {
	pagesFetchedTotal *prometheus.CounterVec
	setsScrapedTotal  prometheus.Counter
	cardsScrapedTotal prometheus.Counter
	retriesTotal      prometheus.Counter
	fetchDuration     prometheus.Histogram
}

// NewScraperMetrics creates scraper metrics and registers them with the
// given registry.
func NewScraperMetrics(registry *prometheus.Registry) (*ScraperMetrics, error) {
	m := &ScraperMetrics{
		pagesFetchedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cardscout_scraper_pages_fetched_total",
			Help: "Total number of price guide pages fetched, by HTTP status",
		}, []string{"status"}),
		setsScrapedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardscout_scraper_sets_scraped_total",
			Help: "Total number of guide sets fully scraped",
		}),
		cardsScrapedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardscout_scraper_cards_scraped_total",
			Help: "Total number of guide card rows scraped",
		}),
		retriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardscout_scraper_retries_total",
			Help: "Total number of fetch retries after throttling",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardscout_scraper_fetch_duration_seconds",
			Help:    "Duration of price guide page fetches",
			Buckets: prometheus.DefBuckets,
		}),
	}

	collectors := []prometheus.Collector{
		m.pagesFetchedTotal,
		m.setsScrapedTotal,
		m.cardsScrapedTotal,
		m.retriesTotal,
		m.fetchDuration,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// IncPageFetched records one fetched page with its HTTP status code.
func (m *ScraperMetrics) IncPageFetched(status int) {
	if m == nil {
		return
	}
	m.pagesFetchedTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

// IncSetsScraped records one fully scraped guide set.
func (m *ScraperMetrics) IncSetsScraped() {
	if m == nil {
		return
	}
	m.setsScrapedTotal.Inc()
}

// AddCardsScraped records scraped guide card rows.
func (m *ScraperMetrics) AddCardsScraped(n int) {
	if m == nil {
		return
	}
	m.cardsScrapedTotal.Add(float64(n))
}

// IncRetries records one retry after throttling.
func (m *ScraperMetrics) IncRetries() {
	if m == nil {
		return
	}
	m.retriesTotal.Inc()
}

// ObserveFetchDuration records the duration of one page fetch.
func (m *ScraperMetrics) ObserveFetchDuration(seconds float64) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(seconds)
}
