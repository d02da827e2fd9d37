package analysis

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cardscout/cardscout-go/internal/collection"
	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/grading"
	"github.com/cardscout/cardscout-go/internal/logging"
	"github.com/cardscout/cardscout-go/internal/observability/metrics"
	"github.com/cardscout/cardscout-go/internal/reference"
)

// RowFailure records one card whose persistence failed. Failures never
// abort the batch.
type RowFailure struct {
	Title string
	Err   error
}

// BatchReport summarizes one pipeline run.
type BatchReport struct {
	RunID         string
	LoadReport    *collection.Report
	Classified    int
	ValuableCards int
	PlayerGroups  int
	SetGroups     int
	Failures      []RowFailure
}

// Runner wires the loader, classifier and aggregator to the datastore.
// Metrics may be nil when observability is not wired in.
type Runner struct {
	Settings *conf.Settings
	Store    datastore.Interface
	Metrics  *metrics.PipelineMetrics
	log      *slog.Logger
}

// NewRunner returns a runner over the given store and settings.
func NewRunner(settings *conf.Settings, store datastore.Interface) *Runner {
	log := logging.ForService("analysis")
	if log == nil {
		log = slog.Default().With("service", "analysis")
	}
	return &Runner{Settings: settings, Store: store, log: log}
}

// Run loads the collection export, classifies every card against the
// reference data and persists aggregates and valuable cards. Each run
// gets a fresh ID, results upsert by natural key so reruns replace prior
// rows in place.
func (r *Runner) Run(inputPath string) (*BatchReport, error) {
	start := time.Now()
	report := &BatchReport{RunID: uuid.New().String()}

	cards, loadReport, err := collection.LoadFile(inputPath)
	if err != nil {
		return nil, err
	}
	report.LoadReport = loadReport
	r.Metrics.AddCardsLoaded(loadReport.Loaded)

	lookups, err := reference.NewLookupsFromStore(r.Store)
	if err != nil {
		return nil, err
	}
	classifier := grading.NewClassifier(lookups)

	players := CountPlayers(cards, r.Settings.Analysis.MinPlayerCards)
	for _, g := range players {
		agg := &datastore.PlayerAggregate{PlayerName: g.Name, CardCount: g.Count}
		if err := r.Store.UpsertPlayerAggregate(agg); err != nil {
			report.Failures = append(report.Failures, RowFailure{Title: g.Name, Err: err})
			continue
		}
		report.PlayerGroups++
	}

	sets := CountSets(cards, r.Settings.Analysis.MinSetCards)
	for _, g := range sets {
		agg := &datastore.SetAggregate{SetName: g.Name, CardCount: g.Count}
		if err := r.Store.UpsertSetAggregate(agg); err != nil {
			report.Failures = append(report.Failures, RowFailure{Title: g.Name, Err: err})
			continue
		}
		report.SetGroups++
	}

	for i := range cards {
		result, ok := classifier.Classify(cards[i])
		if !ok {
			continue
		}
		report.Classified++
		r.Metrics.IncCardsClassified()

		title := cards[i].Title()
		if title == "" {
			continue
		}
		row := &datastore.ValuableCard{
			Title:    title,
			Player:   cards[i].Player,
			SetName:  result.SetName,
			Year:     cards[i].Year,
			Sport:    cards[i].Sport,
			Reason:   result.Reason(),
			Priority: result.Priority,
			RunID:    report.RunID,
		}
		if err := r.Store.UpsertValuableCard(row); err != nil {
			report.Failures = append(report.Failures, RowFailure{Title: title, Err: err})
			r.Metrics.IncPersistErrors()
			continue
		}
		report.ValuableCards++
		r.Metrics.IncValuableCards()
	}

	r.Metrics.ObserveRunDuration(time.Since(start).Seconds())
	r.log.Info("pipeline run complete",
		"run_id", report.RunID,
		"rows", loadReport.TotalRows,
		"classified", report.Classified,
		"valuable_cards", report.ValuableCards,
		"player_groups", report.PlayerGroups,
		"set_groups", report.SetGroups,
		"failures", len(report.Failures))
	return report, nil
}
