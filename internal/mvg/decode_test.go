package mvg

import (
	"encoding/json"
	"testing"
)

func TestEpochUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		value int64
		valid bool
	}{
		{"seconds", "1700000000", 1700000000, true},
		{"milliseconds", "1700000000000", 1700000000, true},
		{"string seconds", `"1700000000"`, 1700000000, true},
		{"string milliseconds", `"1700000000000"`, 1700000000, true},
		{"float", "1700000000.7", 1700000000, true},
		{"null", "null", 0, false},
		{"garbage", `"soon"`, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var e epoch
			if err := json.Unmarshal([]byte(tc.raw), &e); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.raw, err)
			}
			if e.valid != tc.valid {
				t.Fatalf("valid = %v, expected %v", e.valid, tc.valid)
			}
			if tc.valid && e.value != tc.value {
				t.Errorf("value = %d, expected %d", e.value, tc.value)
			}
			if !tc.valid && e.ptr() != nil {
				t.Error("invalid epoch must resolve to nil, not zero")
			}
		})
	}
}

func TestParseDeparturesDerivesDelay(t *testing.T) {
	planned := int64(1_700_000_000)
	payload := `[{
		"planned_departure_time": 1700000000,
		"realtime_departure_time": 1700000300,
		"transport_type": "TRAM",
		"label": "T17",
		"destination": "Central",
		"cancelled": false,
		"realtime": true
	}]`

	departures, err := parseDepartures([]byte(payload), "de:fake:1", 1700000100)
	if err != nil {
		t.Fatalf("parseDepartures: %v", err)
	}
	if len(departures) != 1 {
		t.Fatalf("expected 1 departure, got %d", len(departures))
	}
	d := departures[0]
	if d.StationID != "de:fake:1" {
		t.Errorf("station id = %q", d.StationID)
	}
	if d.PlannedDepartureTime == nil || *d.PlannedDepartureTime != planned {
		t.Errorf("planned = %v", d.PlannedDepartureTime)
	}
	if d.DelayInMinutes == nil || *d.DelayInMinutes != 5 {
		t.Errorf("derived delay = %v, expected 5", d.DelayInMinutes)
	}
	if d.TransportType != "TRAM" || d.Label != "T17" || d.Destination != "Central" {
		t.Errorf("unexpected decoded fields: %+v", d)
	}
	if !d.Realtime || d.Cancelled {
		t.Errorf("flags: realtime=%v cancelled=%v", d.Realtime, d.Cancelled)
	}
}

func TestParseDeparturesCamelCaseAndMilliseconds(t *testing.T) {
	payload := `[{
		"plannedDepartureTime": 1700000000000,
		"realtimeDepartureTime": 1700000060000,
		"delayInMinutes": 7,
		"transportType": "BUS",
		"label": "53",
		"destination": "Nordbad",
		"platform": 2
	}]`

	departures, err := parseDepartures([]byte(payload), "de:fake:2", 1700000000)
	if err != nil {
		t.Fatalf("parseDepartures: %v", err)
	}
	d := departures[0]
	if d.PlannedDepartureTime == nil || *d.PlannedDepartureTime != 1700000000 {
		t.Errorf("milliseconds not normalized: %v", d.PlannedDepartureTime)
	}
	if d.DelayInMinutes == nil || *d.DelayInMinutes != 7 {
		t.Errorf("explicit delay must win over derivation: %v", d.DelayInMinutes)
	}
	if d.TransportType != "BUS" {
		t.Errorf("transport type fallback failed: %q", d.TransportType)
	}
	if d.Platform != "2" {
		t.Errorf("numeric platform = %q, expected \"2\"", d.Platform)
	}
}

func TestParseDeparturesAbsentTimes(t *testing.T) {
	departures, err := parseDepartures([]byte(`[{"label": "19"}]`), "de:fake:3", 1)
	if err != nil {
		t.Fatalf("parseDepartures: %v", err)
	}
	d := departures[0]
	if d.PlannedDepartureTime != nil || d.RealtimeDepartureTime != nil || d.DelayInMinutes != nil {
		t.Errorf("absent values must stay absent: %+v", d)
	}
}

func TestParseStationsFieldFallbacks(t *testing.T) {
	payload := `[
		{"globalId": "de:09162:6", "name": "Hauptbahnhof", "divaId": 6, "tariffZones": "m", "products": ["UBAHN","TRAM"]},
		{"id": "de:09162:2", "name": "Marienplatz", "diva_id": 2, "tariff_zones": "m"},
		{"name": "no id, dropped"}
	]`

	stations, err := parseStations([]byte(payload))
	if err != nil {
		t.Fatalf("parseStations: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if stations[0].ID != "de:09162:6" || stations[0].DivaID == nil || *stations[0].DivaID != 6 {
		t.Errorf("camelCase station decode: %+v", stations[0])
	}
	if stations[1].ID != "de:09162:2" || stations[1].DivaID == nil || *stations[1].DivaID != 2 {
		t.Errorf("snake_case station decode: %+v", stations[1])
	}
	if stations[0].TariffZones != "m" || stations[1].TariffZones != "m" {
		t.Error("tariff zone fallback failed")
	}
}
