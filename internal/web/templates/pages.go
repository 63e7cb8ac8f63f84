package templates

import (
	"github.com/a-h/templ"
)

const style = `
      body { font-family: Arial, sans-serif; max-width: 760px; margin: 0 auto; padding: 1em; }
      table { width: 100%; border-collapse: collapse; }
      th, td { text-align: left; padding: 0.4em; border-bottom: 1px solid #eee; }
      .message { background: #ffeaea; color: #b71c1c; padding: 1em; border-radius: 8px; }
      .notice { color: #b71c1c; }
      .up { color: #b71c1c; }
      .down { color: #2e7d32; }
      .forecast { background: #f5faff; border-radius: 8px; padding: 1em; color: #1565c0; }
      .generated { font-size: 0.9em; color: #888; text-align: right; }
      fieldset.brands label { display: inline-block; margin-right: 0.8em; }
`

// Layout wraps content in the page chrome.
func Layout(title string, content templ.Component) templ.Component {
	return component(func(h *html) {
		h.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
		h.text(title)
		h.raw("</title>\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<style>")
		h.raw(style)
		h.raw("</style>\n</head>\n<body>\n<h1><a href=\"/\">")
		h.text(Text.HomeHeading)
		h.raw("</a></h1>\n")
		h.render(content)
		h.raw("<footer><p><small>")
		h.text(Text.Footer)
		h.raw("</small></p></footer>\n</body>\n</html>\n")
	})
}

func searchForm(h *html, f Form) {
	h.raw(`<form action="/search" method="get">` + "\n<label>")
	h.text(Text.SuburbLabel)
	h.raw(` <input type="text" name="suburb"`)
	h.attr("value", f.Suburb)
	h.attr("placeholder", Text.SuburbPlaceholder)
	h.raw("></label>\n<label>")
	h.text(Text.DistanceLabel)
	h.raw(` <input type="number" name="distance" min="1" max="50" step="any"`)
	h.attr("value", f.Distance)
	h.raw("></label>\n<label>")
	h.text(Text.OrderLabel)
	h.raw(` <select name="order"><option value="price"`)
	h.flag("selected", f.Order != "distance")
	h.raw(">")
	h.text(Text.OrderPrice)
	h.raw(`</option><option value="distance"`)
	h.flag("selected", f.Order == "distance")
	h.raw(">")
	h.text(Text.OrderDistance)
	h.raw("</option></select></label>\n<label>")
	h.text(Text.DisplayLabel)
	h.raw(` <select name="display"><option value="simple"`)
	h.flag("selected", !f.Detailed)
	h.raw(">")
	h.text(Text.DisplaySimple)
	h.raw(`</option><option value="detailed"`)
	h.flag("selected", f.Detailed)
	h.raw(">")
	h.text(Text.DisplayDetailed)
	h.raw("</option></select></label>\n<fieldset class=\"brands\"><legend>")
	h.text(Text.BrandsLabel)
	h.raw("</legend>\n")
	for _, b := range f.Brands {
		h.raw(`<label><input type="checkbox" name="brand"`)
		h.attr("value", b.Name)
		h.flag("checked", b.Checked)
		h.raw("> ")
		h.text(b.Name)
		h.raw("</label>\n")
	}
	h.raw("</fieldset>\n<button type=\"submit\">")
	h.text(Text.SearchButton)
	h.raw(`</button> <button type="submit" formaction="/forecast">`)
	h.text(Text.ForecastButton)
	h.raw("</button>\n</form>\n")
}

func message(h *html, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p class="message">`)
	h.text(msg)
	h.raw("</p>\n")
}

func newSearchLink(h *html) {
	h.raw(`<p><a href="/">`)
	h.text(Text.NewSearchButton)
	h.raw("</a></p>\n")
}

func suburbList(h *html, heading string, links []SuburbLink) {
	if len(links) == 0 {
		return
	}
	h.raw("<h2>")
	h.text(heading)
	h.raw("</h2>\n<ul>\n")
	for _, l := range links {
		h.link(l, Text.SearchesSuffix)
	}
	h.raw("</ul>\n")
}

// Home is the search form with popular and recent suburbs.
func Home(p Page) templ.Component {
	return Layout(p.Title, component(func(h *html) {
		searchForm(h, p.Form)
		suburbList(h, Text.PopularHeading, p.Popular)
		suburbList(h, Text.RecentHeading, p.Recent)
	}))
}

// Message is the search form followed by an error or status message.
func Message(p Page) templ.Component {
	return Layout(p.Title, component(func(h *html) {
		searchForm(h, p.Form)
		message(h, p.Message)
	}))
}

// Candidates lists the suburbs matching an ambiguous search.
func Candidates(p CandidatesPage) templ.Component {
	return Layout(p.Title, component(func(h *html) {
		h.raw("<h2>")
		h.text(Text.CandidatesTitle)
		h.raw("</h2>\n<p>")
		h.text(Text.ChooseSuburb)
		h.raw("</p>\n<ul class=\"candidates\">\n")
		for _, c := range p.Candidates {
			h.link(c, "")
		}
		h.raw("</ul>\n")
		newSearchLink(h)
	}))
}

// Stations shows the station table. Detailed forms add brand, change, date
// and map columns.
func Stations(p StationsPage) templ.Component {
	detailed := p.Form.Detailed
	return Layout(p.Title, component(func(h *html) {
		searchForm(h, p.Form)
		h.raw("<h2>")
		h.text(Text.StationsNear + " " + p.Suburb + " " + p.Postcode + " " + Text.Within + " " + p.Form.Distance + " km")
		h.raw("</h2>\n")
		if p.Message != "" {
			message(h, p.Message)
			return
		}

		h.raw("<table class=\"stations\">\n<thead><tr>")
		columns := []string{Text.ColumnStation, Text.ColumnAddress, Text.ColumnPrice, Text.ColumnDistance}
		if detailed {
			columns = append(columns, Text.ColumnBrand, Text.ColumnChange, Text.ColumnDate, Text.ColumnMap)
		}
		for _, c := range columns {
			h.raw("<th>")
			h.text(c)
			h.raw("</th>")
		}
		h.raw("</tr></thead>\n<tbody>\n")
		for _, s := range p.Stations {
			h.raw("<tr>")
			for _, v := range []string{s.Name, s.Address, s.Price, s.Distance} {
				h.raw("<td>")
				h.text(v)
				h.raw("</td>")
			}
			if detailed {
				h.raw("<td>")
				h.text(s.Brand)
				h.raw("</td><td")
				h.attr("class", s.Trend)
				h.raw(">")
				h.text(s.Change)
				h.raw("</td><td>")
				h.text(s.Date)
				h.raw("</td><td>")
				if s.MapURL != "" {
					h.raw("<a")
					h.href("href", s.MapURL)
					h.raw(` target="_blank" rel="noopener">`)
					h.text(Text.MapLink)
					h.raw("</a>")
				}
				h.raw("</td>")
			}
			h.raw("</tr>\n")
		}
		h.raw("</tbody>\n</table>\n")
	}))
}

// Forecast shows the city graph and the forecast text, or a notice when the
// text could not be loaded.
func Forecast(p ForecastPage) templ.Component {
	return Layout(p.Title, component(func(h *html) {
		h.raw("<h2>")
		h.text(Text.ForecastFor + " " + p.Suburb + " " + p.Postcode + " (" + p.City + ")")
		h.raw("</h2>\n<div class=\"graph\"><img")
		h.href("src", p.SVGPath)
		h.attr("alt", p.City+" "+Text.GraphAlt)
		h.raw(` style="width:100%;max-width:600px"></div>` + "\n")

		if p.Forecast == "" {
			h.raw(`<p class="notice">`)
			h.text(p.Notice)
			h.raw("</p>\n")
		} else {
			h.raw("<div class=\"forecast\"><b>")
			h.text(Text.ForecastHeader)
			h.raw("</b>\n")
			h.render(templ.Raw(p.Forecast))
			if p.CreatedAt != "" {
				h.raw(`<div class="generated">`)
				h.text(Text.Generated)
				h.raw(" <code>")
				h.text(p.CreatedAt)
				h.raw("</code></div>")
			}
			h.raw("</div>\n")
		}
		newSearchLink(h)
	}))
}
