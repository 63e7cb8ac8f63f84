package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SuburbCandidate is one (suburb, postcode) pair returned by the candidate lookup.
// The same suburb name can appear several times with different postcodes.
type SuburbCandidate struct {
	Suburb   string `json:"suburb"`
	Postcode string `json:"postcode"`
}

func (c SuburbCandidate) String() string {
	return c.Suburb + " " + c.Postcode
}

// UnmarshalJSON accepts postcodes encoded as strings or numbers.
func (c *SuburbCandidate) UnmarshalJSON(data []byte) error {
	var raw struct {
		Suburb   string     `json:"suburb"`
		Postcode FlexString `json:"postcode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Suburb = raw.Suburb
	c.Postcode = raw.Postcode.String()
	return nil
}

// CandidateList is the candidate lookup response.
type CandidateList struct {
	Candidates []SuburbCandidate `json:"candidates"`
}

// UnmarshalJSON accepts both {"candidates": [...]} and a bare array.
func (l *CandidateList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.Candidates)
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var wrapped struct {
		Candidates []SuburbCandidate `json:"candidates"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	l.Candidates = wrapped.Candidates
	return nil
}

// Station is a single fuel station with its latest known price.
type Station struct {
	Name            string     `json:"station"`
	Address         string     `json:"address"`
	Price           *FlexFloat `json:"price,omitempty"`
	DistanceKm      *FlexFloat `json:"distance_km,omitempty"`
	Lat             *FlexFloat `json:"lat,omitempty"`
	Lng             *FlexFloat `json:"lng,omitempty"`
	Changes         FlexString `json:"changes,omitempty"`
	Postcode        FlexString `json:"postcode,omitempty"`
	Suburb          string     `json:"suburb,omitempty"`
	Date            FlexString `json:"date,omitempty"`
	MapsURL         string     `json:"gmaps_url,omitempty"`
	SuburbCenterLat *FlexFloat `json:"suburb_center_lat,omitempty"`
	SuburbCenterLng *FlexFloat `json:"suburb_center_lng,omitempty"`
}

// PriceValue returns the price, or 0 when the backend did not send one.
func (s Station) PriceValue() float64 {
	if s.Price == nil {
		return 0
	}
	return float64(*s.Price)
}

// DistanceValue returns the distance in km, or 0 when unknown.
func (s Station) DistanceValue() float64 {
	if s.DistanceKm == nil {
		return 0
	}
	return float64(*s.DistanceKm)
}

// StationList is the stations_in_range response. The backend reports
// geocoding problems with a 200 status and an error message.
type StationList struct {
	Stations   []Station `json:"stations"`
	Error      string    `json:"error,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// UnmarshalJSON accepts both {"stations": [...]} and a bare array.
func (l *StationList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.Stations)
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var wrapped struct {
		Stations   []Station `json:"stations"`
		Error      string    `json:"error"`
		Suggestion string    `json:"suggestion"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	l.Stations = wrapped.Stations
	l.Error = wrapped.Error
	l.Suggestion = wrapped.Suggestion
	return nil
}

// Forecast is the AI-generated forecast text for a capital city.
type Forecast struct {
	Text      string `json:"forecast_text"`
	CreatedAt string `json:"created_at"`
}

// FlexString decodes a JSON string or number into a string.
// The backend sends postcodes, dates and price changes in either form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexFloat decodes a JSON number or numeric string. An empty string decodes to 0.
type FlexFloat float64

// Num returns a pointer to v, for building stations in code.
func Num(v float64) *FlexFloat {
	f := FlexFloat(v)
	return &f
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" || s == "-" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// Coordinates returns the station position when the backend sent both values.
func (s Station) Coordinates() (lat, lng float64, ok bool) {
	if s.Lat == nil || s.Lng == nil {
		return 0, 0, false
	}
	return float64(*s.Lat), float64(*s.Lng), true
}

// Center returns the centre of the searched suburb when present.
func (s Station) Center() (lat, lng float64, ok bool) {
	if s.SuburbCenterLat == nil || s.SuburbCenterLng == nil {
		return 0, 0, false
	}
	return float64(*s.SuburbCenterLat), float64(*s.SuburbCenterLng), true
}
