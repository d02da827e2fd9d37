// Package marketplace builds marketplace search links and complete
// listing drafts for single cards.
package marketplace

import (
	"net/url"
	"strconv"
)

const (
	searchBase = "https://www.ebay.com/sch/i.html"

	// Sports Trading Card Singles category, excludes jerseys and apparel
	categorySingles = "261328"
)

// SearchOptions controls how a search link is built.
type SearchOptions struct {
	Sold          bool    // completed and sold listings only
	MinPrice      float64 // lower price bound, 0 disables
	ExcludeAutos  bool    // filter out autographed cards
	ExcludeGraded bool    // filter out slabbed cards
	GradedOnly    bool    // restrict to graded cards
}

// SearchURL builds a marketplace search link for the query. Exclusion
// terms go into the query itself since the marketplace matches substrings,
// a bare -auto would also hit "automatic".
func SearchURL(query string, opts SearchOptions) string {
	if opts.ExcludeAutos {
		query += " -autograph -signed -signature -auto"
	}
	if opts.ExcludeGraded {
		query += " -PSA -BGS -SGC -CGC -graded -slab"
	}
	if opts.GradedOnly {
		query += " (PSA,BGS,SGC,CGC)"
	}

	params := url.Values{}
	params.Set("_nkw", query)
	params.Set("_sacat", categorySingles)
	if opts.Sold {
		params.Set("LH_Complete", "1")
		params.Set("LH_Sold", "1")
	}
	if opts.MinPrice > 0 {
		params.Set("_udlo", strconv.FormatFloat(opts.MinPrice, 'f', -1, 64))
	}
	return searchBase + "?" + params.Encode()
}
