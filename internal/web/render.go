package web

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/internal/petrol"
	"github.com/rubiojr/petrolprice/internal/web/templates"
	"github.com/rubiojr/petrolprice/pkg/api"
)

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		s.log.Error("Error rendering page", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderMarkdown turns forecast text into HTML. Raw HTML in the text is dropped.
func renderMarkdown(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock | parser.HardLineBreak)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML,
	})
	return string(markdown.ToHTML([]byte(text), p, renderer))
}

type searchForm struct {
	Suburb   string
	Distance float64
	Order    petrol.OrderBy
	Brands   petrol.BrandSet
	Detailed bool
}

func (f searchForm) DistanceText() string {
	return strconv.FormatFloat(f.Distance, 'f', -1, 64)
}

func (f searchForm) view() templates.Form {
	names := append([]string{petrol.BrandAll, petrol.BrandOthers}, petrol.Catalog...)
	options := make([]templates.BrandOption, 0, len(names))
	for _, n := range names {
		options = append(options, templates.BrandOption{Name: n, Checked: f.Brands.Has(n)})
	}
	return templates.Form{
		Suburb:   f.Suburb,
		Distance: f.DistanceText(),
		Order:    string(f.Order),
		Detailed: f.Detailed,
		Brands:   options,
	}
}

// query encodes the view options, plus the given candidate when set.
func (f searchForm) query(c api.SuburbCandidate) url.Values {
	q := url.Values{}
	if c.Suburb != "" {
		q.Set("suburb", c.Suburb)
		q.Set("postcode", c.Postcode)
	} else {
		q.Set("suburb", f.Suburb)
	}
	q.Set("distance", f.DistanceText())
	q.Set("order", string(f.Order))
	for _, b := range f.Brands.Names() {
		q.Add("brand", b)
	}
	if f.Detailed {
		q.Set("display", "detailed")
	}
	return q
}

func stationRows(stations []api.Station, origin api.SuburbCandidate) []templates.StationRow {
	rows := make([]templates.StationRow, 0, len(stations))
	for _, s := range stations {
		row := templates.StationRow{
			Name:     s.Name,
			Brand:    petrol.Label(s.Name),
			Address:  s.Address,
			Price:    "-",
			Distance: "-",
			Change:   petrol.FormatChange(s.Changes.String()),
			Trend:    petrol.ChangeTrend(s.Changes.String()).String(),
			Date:     s.Date.String(),
			MapURL:   geo.StationDirections(s, origin),
		}
		if s.Price != nil {
			row.Price = strconv.FormatFloat(s.PriceValue(), 'f', 1, 64)
		}
		if s.DistanceKm != nil {
			row.Distance = strconv.FormatFloat(s.DistanceValue(), 'f', 2, 64) + " km"
		}
		rows = append(rows, row)
	}
	return rows
}
