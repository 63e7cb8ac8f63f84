package templates

// Messages contains all text strings shown by the web client.
type Messages struct {
	// Page titles
	HomeTitle       string
	CandidatesTitle string
	StationsTitle   string
	ForecastTitle   string

	// Home page
	HomeHeading       string
	SuburbLabel       string
	SuburbPlaceholder string
	DistanceLabel     string
	OrderLabel        string
	OrderPrice        string
	OrderDistance     string
	BrandsLabel       string
	DisplayLabel      string
	DisplaySimple     string
	DisplayDetailed   string
	SearchButton      string
	ForecastButton    string
	PopularHeading    string
	RecentHeading     string
	SearchesSuffix    string

	// Candidates page
	ChooseSuburb   string
	ChoosePostcode string

	// Stations page
	NoResults       string
	StationsNear    string
	Within          string
	NewSearchButton string
	ColumnStation   string
	ColumnBrand     string
	ColumnAddress   string
	ColumnPrice     string
	ColumnDistance  string
	ColumnChange    string
	ColumnDate      string
	ColumnMap       string
	MapLink         string

	// Forecast page
	ForecastFor    string
	ForecastHeader string
	GraphAlt       string
	Generated      string

	// Footer
	Footer string
}

var Text = Messages{
	// Page titles
	HomeTitle:       "Petrol Price Finder",
	CandidatesTitle: "Choose your suburb",
	StationsTitle:   "Petrol stations",
	ForecastTitle:   "Petrol price forecast",

	// Home page
	HomeHeading:       "⛽ Nearby Petrol Prices",
	SuburbLabel:       "Suburb",
	SuburbPlaceholder: "Suburb (e.g. Burwood)",
	DistanceLabel:     "Distance (km)",
	OrderLabel:        "Order by",
	OrderPrice:        "Price",
	OrderDistance:     "Distance",
	BrandsLabel:       "Brands",
	DisplayLabel:      "Display",
	DisplaySimple:     "Simple",
	DisplayDetailed:   "Detailed",
	SearchButton:      "Search",
	ForecastButton:    "Forecast",
	PopularHeading:    "Popular suburbs",
	RecentHeading:     "Recent searches",
	SearchesSuffix:    "searches",

	// Candidates page
	ChooseSuburb:   "Several suburbs match. Choose one:",
	ChoosePostcode: "Please choose a suburb and postcode.",

	// Stations page
	NoResults:       "No results found.",
	StationsNear:    "Stations near",
	Within:          "within",
	NewSearchButton: "New Search",
	ColumnStation:   "Station",
	ColumnBrand:     "Brand",
	ColumnAddress:   "Address",
	ColumnPrice:     "Price",
	ColumnDistance:  "Distance",
	ColumnChange:    "Change",
	ColumnDate:      "Date",
	ColumnMap:       "Map",
	MapLink:         "📍 Directions",

	// Forecast page
	ForecastFor:    "Forecast for",
	ForecastHeader: "AI Forecast for Next Week:",
	GraphAlt:       "Petrol Price Forecast",
	Generated:      "Generated:",

	// Footer
	Footer: "Prices are provided by the petrol price backend and may be out of date.",
}
