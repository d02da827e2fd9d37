package httpcontroller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/marketplace"
	"github.com/cardscout/cardscout-go/internal/reference"
)

// pageData carries the shared fields every page template needs. Handlers
// embed it in their own data structs. DataUnavailable is set when the
// store could not be queried, pages then render empty instead of failing.
type pageData struct {
	Title           string
	DataUnavailable bool
}

type dashboardData struct {
	pageData
	ValuableCount int
	TopCards      []datastore.ValuableCard
	GuideStats    datastore.GuideStatsResult
	GradingCost   float64
}

func (s *Server) dashboardHandler(c echo.Context) error {
	data := dashboardData{
		pageData:    pageData{Title: "Dashboard"},
		GradingCost: s.Settings.Marketplace.GradingCost,
	}

	cards, err := s.DS.GetValuableCards(0)
	if err != nil {
		s.webLogger.Error("dashboard query failed", "error", err)
		data.DataUnavailable = true
		return c.Render(http.StatusOK, "dashboard", &data)
	}
	data.ValuableCount = len(cards)
	if len(cards) > 20 {
		cards = cards[:20]
	}
	data.TopCards = cards

	if stats, err := s.DS.GuideStats(); err == nil {
		data.GuideStats = stats
	}
	return c.Render(http.StatusOK, "dashboard", &data)
}

type aggregateData struct {
	pageData
	MinCount int
	Players  []datastore.PlayerAggregate
	Sets     []datastore.SetAggregate
}

func (s *Server) playersHandler(c echo.Context) error {
	minCount := queryInt(c, "min", s.Settings.Analysis.MinPlayerCards)
	data := aggregateData{pageData: pageData{Title: "Players"}, MinCount: minCount}

	cacheKey := "players:" + strconv.Itoa(minCount)
	if cached, found := s.cache.Get(cacheKey); found {
		data.Players = cached.([]datastore.PlayerAggregate)
		return c.Render(http.StatusOK, "players", &data)
	}

	players, err := s.DS.GetPlayerAggregates(minCount)
	if err != nil {
		s.webLogger.Error("player aggregates query failed", "error", err)
		data.DataUnavailable = true
		return c.Render(http.StatusOK, "players", &data)
	}
	s.cache.SetDefault(cacheKey, players)
	data.Players = players
	return c.Render(http.StatusOK, "players", &data)
}

func (s *Server) setsHandler(c echo.Context) error {
	minCount := queryInt(c, "min", s.Settings.Analysis.MinSetCards)
	data := aggregateData{pageData: pageData{Title: "Sets"}, MinCount: minCount}

	cacheKey := "sets:" + strconv.Itoa(minCount)
	if cached, found := s.cache.Get(cacheKey); found {
		data.Sets = cached.([]datastore.SetAggregate)
		return c.Render(http.StatusOK, "sets", &data)
	}

	sets, err := s.DS.GetSetAggregates(minCount)
	if err != nil {
		s.webLogger.Error("set aggregates query failed", "error", err)
		data.DataUnavailable = true
		return c.Render(http.StatusOK, "sets", &data)
	}
	s.cache.SetDefault(cacheKey, sets)
	data.Sets = sets
	return c.Render(http.StatusOK, "sets", &data)
}

type leadersData struct {
	pageData
	Cards []datastore.ValuableCard
}

func (s *Server) leadersHandler(c echo.Context) error {
	limit := queryInt(c, "limit", 100)
	data := leadersData{pageData: pageData{Title: "Grade Candidates"}}

	cards, err := s.DS.GetValuableCards(limit)
	if err != nil {
		s.webLogger.Error("valuable cards query failed", "error", err)
		data.DataUnavailable = true
		return c.Render(http.StatusOK, "leaders", &data)
	}
	data.Cards = cards
	return c.Render(http.StatusOK, "leaders", &data)
}

type guideData struct {
	pageData
	Stats    datastore.GuideStatsResult
	MinValue float64
	Cards    []datastore.GuideCard
}

func (s *Server) guideHandler(c echo.Context) error {
	data := guideData{
		pageData: pageData{Title: "Price Guide"},
		MinValue: s.Settings.Scraper.MinValue,
	}

	stats, err := s.DS.GuideStats()
	if err != nil {
		s.webLogger.Error("guide stats query failed", "error", err)
		data.DataUnavailable = true
		return c.Render(http.StatusOK, "guide", &data)
	}
	data.Stats = stats

	cards, err := s.DS.GetHighValueGuideCards(data.MinValue, 50)
	if err != nil {
		s.webLogger.Error("guide cards query failed", "error", err)
		data.DataUnavailable = true
		return c.Render(http.StatusOK, "guide", &data)
	}
	data.Cards = cards
	return c.Render(http.StatusOK, "guide", &data)
}

type searchData struct {
	pageData
	Query string
	Cards []datastore.ValuableCard
}

func (s *Server) searchHandler(c echo.Context) error {
	query := c.QueryParam("q")
	data := searchData{pageData: pageData{Title: "Search"}, Query: query}

	if query == "" {
		return c.Render(http.StatusOK, "search", &data)
	}

	cards, err := s.DS.SearchValuableCards(query, 200)
	if err != nil {
		s.webLogger.Error("search query failed", "query", query, "error", err)
		data.DataUnavailable = true
		return c.Render(http.StatusOK, "search", &data)
	}
	data.Cards = cards
	return c.Render(http.StatusOK, "search", &data)
}

type listingData struct {
	pageData
	Input   marketplace.CardDetails
	Listing *marketplace.Listing
	Text    string
}

func (s *Server) listingFormHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "listing", &listingData{pageData: pageData{Title: "Listing Builder"}})
}

func (s *Server) listingBuildHandler(c echo.Context) error {
	details := marketplace.CardDetails{
		Player:     c.FormValue("player"),
		Year:       c.FormValue("year"),
		SetName:    c.FormValue("set"),
		Brand:      c.FormValue("brand"),
		Sport:      c.FormValue("sport"),
		CardNumber: c.FormValue("number"),
		Team:       c.FormValue("team"),
		IsRookie:   c.FormValue("rookie") == "on",
		IsGraded:   c.FormValue("graded") == "on",
		Grade:      c.FormValue("grade"),
		CertNumber: c.FormValue("cert"),
		Condition:  c.FormValue("condition"),
		Variety:    c.FormValue("variety"),
		Features:   c.FormValue("features"),
		Price:      c.FormValue("price"),
	}
	if details.Condition == "" {
		details.Condition = "Near Mint or Better"
	}

	data := listingData{pageData: pageData{Title: "Listing Builder"}, Input: details}

	lookups, err := s.lookups()
	if err != nil {
		s.webLogger.Error("reference lookup load failed", "error", err)
		data.DataUnavailable = true
	}
	listing := marketplace.BuildListing(details, lookups)
	data.Listing = listing
	data.Text = listing.FormatText()
	return c.Render(http.StatusOK, "listing", &data)
}

// lookups returns cached reference lookups for listing annotation.
func (s *Server) lookups() (*reference.Lookups, error) {
	if cached, found := s.cache.Get("lookups"); found {
		return cached.(*reference.Lookups), nil
	}
	lookups, err := reference.NewLookupsFromStore(s.DS)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("lookups", lookups)
	return lookups, nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
