package mvg

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

// Values above this are too large to be epoch seconds (year 2286) and
// are treated as milliseconds.
const millisThreshold = 10_000_000_000

// epoch decodes an epoch timestamp that may arrive as a number or a
// numeric string, in seconds or milliseconds. Absent or unparseable
// values decode as invalid, never as zero.
type epoch struct {
	value int64
	valid bool
}

func (e *epoch) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*e = epoch{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*e = epoch{}
		return nil
	}
	v := int64(f)
	if v > millisThreshold {
		v /= 1000
	}
	*e = epoch{value: v, valid: true}
	return nil
}

func (e epoch) ptr() *int64 {
	if !e.valid {
		return nil
	}
	v := e.value
	return &v
}

// flexString decodes a value that may arrive as a string or a number
// (platforms are sometimes plain integers upstream).
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*s = flexString(n.String())
		return nil
	}
	*s = ""
	return nil
}

// departureRecord mirrors the provider's departure payload. The same
// concept can arrive under snake_case or camelCase keys, so both
// spellings are declared and merged explicitly.
type departureRecord struct {
	PlannedSnake   epoch      `json:"planned_departure_time"`
	PlannedCamel   epoch      `json:"plannedDepartureTime"`
	RealtimeSnake  epoch      `json:"realtime_departure_time"`
	RealtimeCamel  epoch      `json:"realtimeDepartureTime"`
	DelaySnake     *int       `json:"delay_in_minutes"`
	DelayCamel     *int       `json:"delayInMinutes"`
	TransportSnake string     `json:"transport_type"`
	TransportCamel string     `json:"transportType"`
	Label          string     `json:"label"`
	Destination    string     `json:"destination"`
	Cancelled      bool       `json:"cancelled"`
	Platform       flexString `json:"platform"`
	Realtime       bool       `json:"realtime"`
}

func (r departureRecord) toDeparture(stationID string, fetchedAt int64) model.Departure {
	planned := firstEpoch(r.PlannedSnake, r.PlannedCamel)
	realtime := firstEpoch(r.RealtimeSnake, r.RealtimeCamel)

	delay := firstInt(r.DelaySnake, r.DelayCamel)
	if delay == nil && planned != nil && realtime != nil {
		d := int(math.Round(float64(*realtime-*planned) / 60))
		delay = &d
	}

	return model.Departure{
		StationID:             stationID,
		TransportType:         firstString(r.TransportSnake, r.TransportCamel),
		Label:                 r.Label,
		Destination:           r.Destination,
		PlannedDepartureTime:  planned,
		RealtimeDepartureTime: realtime,
		DelayInMinutes:        delay,
		Cancelled:             r.Cancelled,
		Platform:              string(r.Platform),
		Realtime:              r.Realtime,
		FetchedAt:             fetchedAt,
	}
}

func parseDepartures(data []byte, stationID string, fetchedAt int64) ([]model.Departure, error) {
	var records []departureRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode departures for %s: %w", stationID, err)
	}
	departures := make([]model.Departure, 0, len(records))
	for _, r := range records {
		departures = append(departures, r.toDeparture(stationID, fetchedAt))
	}
	return departures, nil
}

// stationRecord mirrors the provider's station directory payload with
// the same snake_case/camelCase tolerance as departureRecord.
type stationRecord struct {
	ID               string   `json:"id"`
	GlobalID         string   `json:"globalId"`
	Name             string   `json:"name"`
	Place            string   `json:"place"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	DivaSnake        *int     `json:"diva_id"`
	DivaCamel        *int     `json:"divaId"`
	TariffZonesSnake string   `json:"tariff_zones"`
	TariffZonesCamel string   `json:"tariffZones"`
	Products         []string `json:"products"`
}

func (r stationRecord) toStation() model.Station {
	return model.Station{
		ID:          firstString(r.ID, r.GlobalID),
		Name:        r.Name,
		Place:       r.Place,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		DivaID:      firstInt(r.DivaSnake, r.DivaCamel),
		TariffZones: firstString(r.TariffZonesSnake, r.TariffZonesCamel),
		Products:    r.Products,
	}
}

func parseStations(data []byte) ([]model.Station, error) {
	var records []stationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode station directory: %w", err)
	}
	stations := make([]model.Station, 0, len(records))
	for _, r := range records {
		s := r.toStation()
		if s.ID == "" {
			continue
		}
		stations = append(stations, s)
	}
	return stations, nil
}

func firstEpoch(a, b epoch) *int64 {
	if a.valid {
		return a.ptr()
	}
	return b.ptr()
}

func firstInt(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}

func firstString(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
