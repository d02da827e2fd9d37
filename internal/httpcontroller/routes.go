// httpcontroller/routes.go
package httpcontroller

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/cardscout/cardscout-go/internal/marketplace"
)

//go:embed views
var viewsFs embed.FS

// routeConfig defines the structure for each page route.
type routeConfig struct {
	Path         string
	TemplateName string
	Title        string
}

// routes lists all the page routes in the application.
var routes = []routeConfig{
	{Path: "/", TemplateName: "dashboard", Title: "Dashboard"},
	{Path: "/players", TemplateName: "players", Title: "Players"},
	{Path: "/sets", TemplateName: "sets", Title: "Sets"},
	{Path: "/leaders", TemplateName: "leaders", Title: "Grade Candidates"},
	{Path: "/guide", TemplateName: "guide", Title: "Price Guide"},
	{Path: "/search", TemplateName: "search", Title: "Search"},
	{Path: "/listing", TemplateName: "listing", Title: "Listing Builder"},
}

// TemplateRenderer renders echo responses from the embedded templates.
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a named template with the given data.
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

// initRoutes initializes the routes for the server.
func (s *Server) initRoutes() {
	funcMap := template.FuncMap{
		"soldURL": func(query string) string {
			return marketplace.SearchURL(query, marketplace.SearchOptions{
				Sold:         true,
				ExcludeAutos: true,
				MinPrice:     s.Settings.Marketplace.MinPrice,
			})
		},
		"activeURL": func(query string) string {
			return marketplace.SearchURL(query, marketplace.SearchOptions{ExcludeAutos: true})
		},
		"price":    func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"navLinks": func() []routeConfig { return routes },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(viewsFs, "views/*.html")
	if err != nil {
		s.Echo.Logger.Fatal(err)
	}
	s.Echo.Renderer = &TemplateRenderer{templates: tmpl}

	s.Echo.GET("/", s.dashboardHandler)
	s.Echo.GET("/players", s.playersHandler)
	s.Echo.GET("/sets", s.setsHandler)
	s.Echo.GET("/leaders", s.leadersHandler)
	s.Echo.GET("/guide", s.guideHandler)
	s.Echo.GET("/search", s.searchHandler)
	s.Echo.GET("/listing", s.listingFormHandler)
	s.Echo.POST("/listing", s.listingBuildHandler)

	if s.Metrics != nil {
		s.Echo.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	}
}
