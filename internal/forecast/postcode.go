package forecast

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rubiojr/petrolprice/pkg/api"
)

// State is an Australian state or territory abbreviation.
type State string

const (
	NSW State = "NSW"
	ACT State = "ACT"
	VIC State = "VIC"
	QLD State = "QLD"
	SA  State = "SA"
	WA  State = "WA"
	TAS State = "TAS"
	NT  State = "NT"
)

const (
	Sydney    = "Sydney"
	Melbourne = "Melbourne"
	Brisbane  = "Brisbane"
)

// Cities lists the capital cities that have forecast data.
var Cities = []string{Sydney, Melbourne, Brisbane}

type postcodeRange struct {
	from, to int
	state    State
}

var postcodeRanges = []postcodeRange{
	{200, 299, ACT},
	{800, 999, NT},
	{1000, 2599, NSW},
	{2619, 2899, NSW},
	{3000, 3999, VIC},
	{4000, 4999, QLD},
	{5000, 5999, SA},
	{6000, 6999, WA},
	{7000, 7999, TAS},
}

// StateForPostcode maps a postcode to its state using fixed numeric ranges.
// Postcodes outside every range, such as 2600-2618 or 9999, are not mapped.
func StateForPostcode(postcode string) (State, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(postcode))
	if err != nil {
		return "", false
	}
	for _, r := range postcodeRanges {
		if n >= r.from && n <= r.to {
			return r.state, true
		}
	}
	return "", false
}

// CityForState returns the capital city whose forecast covers the state.
func CityForState(s State) (string, bool) {
	switch s {
	case NSW, ACT:
		return Sydney, true
	case VIC:
		return Melbourne, true
	case QLD:
		return Brisbane, true
	default:
		return "", false
	}
}

// PostcodeResolver resolves the forecast city from the postcode alone,
// without any network access.
type PostcodeResolver struct{}

func (PostcodeResolver) ResolveCity(_ context.Context, c api.SuburbCandidate) (string, error) {
	state, ok := StateForPostcode(c.Postcode)
	if !ok {
		return "", fmt.Errorf("%w: postcode %q has no known state", ErrNoForecast, c.Postcode)
	}
	city, ok := CityForState(state)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoForecast, state)
	}
	return city, nil
}
