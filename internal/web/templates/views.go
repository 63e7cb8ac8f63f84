// Package templates holds the HTML components of the web client. Every
// component is a templ.Component and escapes all text it is given.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Page is the data shared by every page.
type Page struct {
	Title   string
	Form    Form
	Message string
	Popular []SuburbLink
	Recent  []SuburbLink
}

// Form is the search form as last submitted.
type Form struct {
	Suburb   string
	Distance string
	Order    string
	Detailed bool
	Brands   []BrandOption
}

type BrandOption struct {
	Name    string
	Checked bool
}

// SuburbLink points at the stations or forecast of one suburb. Count is
// only shown when set.
type SuburbLink struct {
	Label string
	URL   string
	Count int64
}

type CandidatesPage struct {
	Page
	Candidates []SuburbLink
}

type StationRow struct {
	Name     string
	Brand    string
	Address  string
	Price    string
	Distance string
	Change   string
	Trend    string
	Date     string
	MapURL   string
}

type StationsPage struct {
	Page
	Suburb   string
	Postcode string
	Stations []StationRow
}

type ForecastPage struct {
	Page
	Suburb    string
	Postcode  string
	City      string
	SVGPath   string
	Forecast  string // rendered HTML
	CreatedAt string
	Notice    string
}

// html writes markup and keeps the first write error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes a sanitized URL attribute.
func (h *html) href(name, u string) {
	h.attr(name, string(templ.URL(u)))
}

func (h *html) flag(name string, on bool) {
	if on {
		h.raw(" " + name)
	}
}

func (h *html) render(c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func (h *html) link(l SuburbLink, suffix string) {
	h.raw(`<li><a`)
	h.href("href", l.URL)
	h.raw(`>`)
	h.text(l.Label)
	h.raw(`</a>`)
	if l.Count > 0 {
		h.text(" (" + strconv.FormatInt(l.Count, 10) + " " + suffix + ")")
	}
	h.raw("</li>\n")
}

func component(f func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		f(h)
		return h.err
	})
}
