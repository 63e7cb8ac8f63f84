package petrol

import "strings"

const (
	// BrandAll disables brand filtering when selected.
	BrandAll = "All"
	// BrandOthers selects stations that match no catalog brand.
	BrandOthers = "Others"
	// OtherLabel is the display label for unbranded stations.
	OtherLabel = "Other"
)

// Catalog is the fixed, ordered list of known Australian fuel brands.
// The first entries are the ones shown at the top of brand pickers.
var Catalog = []string{
	"BP",
	"Coles Express",
	"Ampol",
	"7-Eleven",
	"Better Choice",
	"7Star Service Stations",
	"Apex Petroleum",
	"Astron",
	"Atlas Fuel",
	"Budget",
	"Burk",
	"Caltex",
	"Costco",
	"FastFuel",
	"Freedom Fuels",
	"Liberty",
	"Matilda",
	"Medco Petroleum",
	"Metro Petroleum",
	"Mobil",
	"On The Run (OTR)",
	"Pacific Petroleum",
	"Pearl Energy",
	"Peak Petroleum",
	"Power Fuel",
	"Reddy Express",
	"Shell",
	"Solo",
	"Speedway",
	"U-GO",
	"United",
	"Vibe",
	"Westside Petroleum",
}

// Classify returns the catalog brand of a station name, or "" when the
// station is unbranded. The longest catalog entry prefixing the lowercased
// name wins; names starting with "eg ampol" are Ampol sites.
func Classify(name string, catalog []string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "eg ampol") {
		return "Ampol"
	}

	found := ""
	for _, brand := range catalog {
		if brand == BrandAll || brand == "" {
			continue
		}
		if strings.HasPrefix(lower, strings.ToLower(brand)) && len(brand) > len(found) {
			found = brand
		}
	}
	return found
}

// Label returns the brand of name for display, using OtherLabel for unbranded stations.
func Label(name string) string {
	if b := Classify(name, Catalog); b != "" {
		return b
	}
	return OtherLabel
}

// IsKnownBrand reports whether brand is a catalog entry or one of the filter sentinels.
func IsKnownBrand(brand string) bool {
	if brand == BrandAll || brand == BrandOthers {
		return true
	}
	for _, b := range Catalog {
		if strings.EqualFold(b, brand) {
			return true
		}
	}
	return false
}

// CanonicalBrand maps a case-insensitive brand name to its catalog spelling.
func CanonicalBrand(brand string) string {
	switch {
	case strings.EqualFold(brand, BrandAll):
		return BrandAll
	case strings.EqualFold(brand, BrandOthers):
		return BrandOthers
	}
	for _, b := range Catalog {
		if strings.EqualFold(b, brand) {
			return b
		}
	}
	return brand
}
