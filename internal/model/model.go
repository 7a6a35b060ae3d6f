package model

import "strings"

// Station is one entry of the provider's station directory.
// ID is the provider's global identifier (e.g. "de:09162:1").
type Station struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Place       string   `json:"place,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	DivaID      *int     `json:"diva_id,omitempty"`
	TariffZones string   `json:"tariff_zones,omitempty"`
	Products    []string `json:"products,omitempty"`
}

// Departure is one observed departure event for a station.
//
// Identity is the natural key (StationID, TransportType, Label,
// Destination, PlannedDepartureTime). FetchedAt records when the row
// was observed and is not part of the identity, so re-observing the
// same scheduled departure is a duplicate, not an update.
type Departure struct {
	StationID             string `json:"station_id"`
	TransportType         string `json:"transport_type,omitempty"`
	Label                 string `json:"label,omitempty"`
	Destination           string `json:"destination,omitempty"`
	PlannedDepartureTime  *int64 `json:"planned_departure_time"`
	RealtimeDepartureTime *int64 `json:"realtime_departure_time"`
	DelayInMinutes        *int   `json:"delay_in_minutes"`
	Cancelled             bool   `json:"cancelled"`
	Platform              string `json:"platform,omitempty"`
	Realtime              bool   `json:"realtime"`
	FetchedAt             int64  `json:"fetched_at"`
}

// Base3 returns the first three colon-separated segments of an
// identifier, or the identifier unchanged if it has fewer than three.
// GTFS stop ids and provider station ids share this prefix at station
// cluster granularity even though their platform-level suffixes differ,
// so it serves as the bridge between the two namespaces.
func Base3(id string) string {
	parts := strings.Split(id, ":")
	if len(parts) < 3 {
		return id
	}
	return strings.Join(parts[:3], ":")
}
