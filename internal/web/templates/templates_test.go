package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	return buf.String()
}

func TestMessageEscapesText(t *testing.T) {
	body := render(t, Message(Page{
		Title:   "<b>title</b>",
		Form:    Form{Suburb: `"><script>`},
		Message: "No suburb found for: <script>alert(1)</script>",
	}))

	if strings.Contains(body, "<script>") {
		t.Errorf("Unescaped input in page: %s", body)
	}
	for _, want := range []string{"&lt;b&gt;title&lt;/b&gt;", `value="&#34;&gt;&lt;script&gt;"`, `class="message"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Page missing %q", want)
		}
	}
}

func TestHomeLists(t *testing.T) {
	body := render(t, Home(Page{
		Title:   Text.HomeTitle,
		Form:    Form{Distance: "5", Brands: []BrandOption{{Name: "BP", Checked: true}, {Name: "Shell"}}},
		Popular: []SuburbLink{{Label: "Burwood 2134", URL: "/stations?suburb=Burwood&postcode=2134", Count: 3}},
	}))

	for _, want := range []string{
		`value="BP" checked`,
		`href="/stations?suburb=Burwood&amp;postcode=2134"`,
		"Burwood 2134</a> (3 searches)",
		Text.PopularHeading,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Home page missing %q", want)
		}
	}
	if strings.Contains(body, Text.RecentHeading) {
		t.Error("Empty recent list must not be rendered")
	}
}

func TestStationsColumns(t *testing.T) {
	page := StationsPage{
		Page:     Page{Title: Text.StationsTitle, Form: Form{Distance: "5"}},
		Suburb:   "Burwood",
		Postcode: "2134",
		Stations: []StationRow{{
			Name:   "BP Enfield",
			Brand:  "BP",
			Price:  "192.3",
			Trend:  "down",
			Change: "-1.0C",
			MapURL: "javascript:alert(1)",
		}},
	}

	simple := render(t, Stations(page))
	if strings.Contains(simple, Text.ColumnBrand) || strings.Contains(simple, Text.MapLink) {
		t.Error("Simple display must not show detailed columns")
	}

	page.Form.Detailed = true
	detailed := render(t, Stations(page))
	for _, want := range []string{"<th>Brand</th>", `class="down"`, "-1.0C", "Stations near Burwood 2134 within 5 km"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("Detailed display missing %q", want)
		}
	}
	if strings.Contains(detailed, "javascript:") {
		t.Error("Unsafe map URL must be sanitized")
	}
}

func TestForecastNotice(t *testing.T) {
	body := render(t, Forecast(ForecastPage{
		Page:    Page{Title: Text.ForecastTitle},
		Suburb:  "Burwood",
		City:    "Sydney",
		SVGPath: "/graph/sydney.svg",
		Notice:  "Failed to fetch forecast.",
	}))
	if !strings.Contains(body, `src="/graph/sydney.svg"`) || !strings.Contains(body, `class="notice"`) {
		t.Errorf("Unexpected forecast page: %s", body)
	}

	body = render(t, Forecast(ForecastPage{
		Page:     Page{Title: Text.ForecastTitle},
		City:     "Sydney",
		Forecast: "<p>Prices will <strong>rise</strong>.</p>",
	}))
	if !strings.Contains(body, "<strong>rise</strong>") {
		t.Error("Rendered forecast HTML must be written as is")
	}
}
