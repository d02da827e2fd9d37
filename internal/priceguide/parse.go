package priceguide

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// SetLink is one card set discovered on a price guide category page.
type SetLink struct {
	Name string
	ID   string
	URL  string
}

// CardRow is one card parsed from a set's price table.
type CardRow struct {
	Number  string
	Player  string
	Variety string
	Grade9  float64
	Grade10 float64
}

// price guide set links look like /priceguide/<category-part>/<slug>/<id>
func setLinkPattern(urlPart string) *regexp.Regexp {
	return regexp.MustCompile(`/priceguide/` + regexp.QuoteMeta(urlPart) + `/([^/]+)/(\d+)`)
}

// parseSetLinks extracts unique set links from a category page. Links with
// empty or numeric-only text are navigation artifacts and skipped.
func parseSetLinks(r io.Reader, urlPart string) ([]SetLink, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	pattern := setLinkPattern(urlPart)
	seen := make(map[string]bool)
	var links []SetLink

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attr(n, "href")
			if m := pattern.FindStringSubmatch(href); m != nil {
				name := strings.TrimSpace(nodeText(n))
				id := m[2]
				if name != "" && !isDigits(name) && !seen[id] {
					seen[id] = true
					links = append(links, SetLink{Name: name, ID: id, URL: href})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// parsePriceTable extracts card rows from the first table on a set page.
// Column meaning is taken from the header row, unknown columns are
// ignored. Rows with neither a card number nor a player are skipped.
func parsePriceTable(r io.Reader) ([]CardRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	table := findFirst(doc, "table")
	if table == nil {
		return nil, nil
	}

	rows := findAll(table, "tr")
	if len(rows) == 0 {
		return nil, nil
	}

	var headers []string
	for _, cell := range findAllAny(rows[0], "th", "td") {
		headers = append(headers, strings.ToLower(strings.TrimSpace(nodeText(cell))))
	}

	var cards []CardRow
	for _, row := range rows[1:] {
		cells := findAll(row, "td")
		if len(cells) < 2 {
			continue
		}

		var card CardRow
		for i, cell := range cells {
			if i >= len(headers) {
				break
			}
			value := strings.TrimSpace(nodeText(cell))
			switch headers[i] {
			case "#", "number", "card #", "card":
				card.Number = value
			case "name", "player", "description", "subject":
				card.Player = value
			case "variety":
				card.Variety = value
			case "psa 9", "9":
				card.Grade9 = parsePrice(value)
			case "psa 10", "10":
				card.Grade10 = parsePrice(value)
			}
		}

		if card.Number != "" || card.Player != "" {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// parsePrice converts a display price to a number. Dashes and N/A mean no
// recorded value. Currency symbols, commas and +/- qualifiers are
// stripped.
func parsePrice(value string) float64 {
	if value == "" || value == "-" || strings.EqualFold(value, "N/A") {
		return 0
	}
	cleaned := strings.NewReplacer("$", "", ",", "", "+", "", "-", "").Replace(value)
	f, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0
	}
	return f
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	return findAllAny(n, tag)
}

func findAllAny(n *html.Node, tags ...string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, tag := range tags {
				if n.Data == tag {
					nodes = append(nodes, n)
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return nodes
}
