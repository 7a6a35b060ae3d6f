package labelindex

import (
	"math"
	"sort"
	"strings"

	"github.com/0a1b/TrackTramReliablilty/internal/gtfs"
	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

// NearbyStation is one cached provider station within the search
// radius of a feed stop.
type NearbyStation struct {
	DistanceM   float64 `json:"distance_m"`
	StationID   string  `json:"station_id"`
	StationName string  `json:"station_name"`
}

// StopLink describes how a single feed stop relates to the cached
// station directory.
type StopLink struct {
	StopID           string          `json:"gtfs_stop_id"`
	StopName         string          `json:"gtfs_stop_name"`
	ParentStation    string          `json:"gtfs_parent_station,omitempty"`
	DirectIDInCache  bool            `json:"direct_id_in_cache"`
	ParentIDInCache  bool            `json:"parent_id_in_cache"`
	NearestInRadius  []NearbyStation `json:"nearest_within_radius"`
}

// LinkReport is the result of a stop-name linkage check.
type LinkReport struct {
	Query   string     `json:"query"`
	RadiusM float64    `json:"radius_m"`
	Matches []StopLink `json:"matches"`
}

// CheckStopLinks finds feed stops whose name contains query
// (case-insensitive) and reports, for each, whether its ids appear in
// the cached directory and which cached stations lie within radiusM.
func CheckStopLinks(query string, data *gtfs.Data, stations []model.Station, radiusM float64) LinkReport {
	report := LinkReport{Query: query, RadiusM: radiusM}

	cachedIDs := make(map[string]struct{}, len(stations))
	for _, s := range stations {
		cachedIDs[s.ID] = struct{}{}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	for _, stop := range data.Stops {
		if stop.StopName == "" || !strings.Contains(strings.ToLower(stop.StopName), q) {
			continue
		}
		link := StopLink{
			StopID:        stop.StopID,
			StopName:      stop.StopName,
			ParentStation: stop.ParentStation,
		}
		_, link.DirectIDInCache = cachedIDs[stop.StopID]
		if stop.ParentStation != "" {
			_, link.ParentIDInCache = cachedIDs[stop.ParentStation]
		}

		for _, s := range stations {
			if s.Latitude == nil || s.Longitude == nil {
				continue
			}
			d := haversineMeters(stop.StopLat, stop.StopLon, *s.Latitude, *s.Longitude)
			if d <= radiusM {
				link.NearestInRadius = append(link.NearestInRadius, NearbyStation{
					DistanceM:   math.Round(d*10) / 10,
					StationID:   s.ID,
					StationName: s.Name,
				})
			}
		}
		sort.Slice(link.NearestInRadius, func(i, j int) bool {
			return link.NearestInRadius[i].DistanceM < link.NearestInRadius[j].DistanceM
		})
		if len(link.NearestInRadius) > 10 {
			link.NearestInRadius = link.NearestInRadius[:10]
		}
		report.Matches = append(report.Matches, link)
	}

	return report
}

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusM = 6371000.0
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
