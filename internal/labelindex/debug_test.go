package labelindex

import (
	"testing"

	"github.com/0a1b/TrackTramReliablilty/internal/gtfs"
	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

func TestCheckStopLinks(t *testing.T) {
	lat, lon := 48.16, 11.57
	data := &gtfs.Data{
		Stops: []gtfs.Stop{
			{StopID: "de:09162:100:1", StopName: "Elisabethplatz", StopLat: lat, StopLon: lon, ParentStation: "de:09162:100"},
			{StopID: "de:09162:300:1", StopName: "Nordbad", StopLat: 48.17, StopLon: 11.56},
		},
	}
	stations := []model.Station{
		{ID: "de:09162:100", Name: "Elisabethplatz", Latitude: &lat, Longitude: &lon},
	}

	report := CheckStopLinks("elisabeth", data, stations, 300)
	if len(report.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(report.Matches))
	}
	m := report.Matches[0]
	if m.DirectIDInCache {
		t.Error("platform-level stop id must not be in the cache")
	}
	if !m.ParentIDInCache {
		t.Error("parent station id should resolve to the cache")
	}
	if len(m.NearestInRadius) != 1 || m.NearestInRadius[0].StationID != "de:09162:100" {
		t.Errorf("nearby stations = %+v", m.NearestInRadius)
	}
	if m.NearestInRadius[0].DistanceM != 0 {
		t.Errorf("co-located station distance = %v", m.NearestInRadius[0].DistanceM)
	}
}

func TestCheckStopLinksNoMatch(t *testing.T) {
	report := CheckStopLinks("nowhere", &gtfs.Data{}, nil, 300)
	if len(report.Matches) != 0 {
		t.Errorf("expected no matches, got %d", len(report.Matches))
	}
}
