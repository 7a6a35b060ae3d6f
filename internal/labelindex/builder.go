package labelindex

import (
	"context"
	"net/http"
	"sort"

	"github.com/0a1b/TrackTramReliablilty/internal/gtfs"
	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

// BuildOptions narrows which routes enter the index.
type BuildOptions struct {
	// Products to include (e.g. TRAM, BUS). Empty means all mapped
	// products.
	Products []string
	// Labels to include (route short names). Empty means all.
	Labels []string
	// DistanceThresholdM is accepted for spatial disambiguation but
	// not consulted by the matching, which is purely id-based. Kept as
	// documented configuration until matching by distance is decided.
	DistanceThresholdM float64
}

// Build joins the static feed's routes, trips, stop_times and stops,
// bridges the resulting stop set into provider station ids via the
// base3 key, and returns the product/label partitioned index.
//
// source may be a local zip path or a URL. Any feed failure aborts the
// build; no partial index is produced.
func Build(ctx context.Context, client *http.Client, source string, stations []model.Station, opts BuildOptions) (*Index, error) {
	data, err := gtfs.Open(ctx, client, source)
	if err != nil {
		return nil, err
	}

	products := normalizeSet(opts.Products)
	labels := normalizeSet(opts.Labels)

	// Routes surviving the product/label filters. Routes whose type
	// has no product mapping are dropped even when otherwise matching.
	type routeInfo struct {
		product string
		label   string
	}
	routes := make(map[string]routeInfo)
	for _, r := range data.Routes {
		product, ok := gtfs.ProductForRouteType(r.RouteType)
		if !ok {
			continue
		}
		label := NormalizeLabel(r.RouteShortName)
		if label == "" {
			continue
		}
		if len(products) > 0 {
			if _, want := products[product]; !want {
				continue
			}
		}
		if len(labels) > 0 {
			if _, want := labels[label]; !want {
				continue
			}
		}
		routes[r.RouteID] = routeInfo{product: product, label: label}
	}

	// route -> trips, trip -> stops, then the per-route stop union.
	routeTrips := make(map[string][]string)
	for _, t := range data.Trips {
		if _, ok := routes[t.RouteID]; ok {
			routeTrips[t.RouteID] = append(routeTrips[t.RouteID], t.TripID)
		}
	}
	tripStops := make(map[string]map[string]struct{})
	for _, st := range data.StopTimes {
		stops := tripStops[st.TripID]
		if stops == nil {
			stops = make(map[string]struct{})
			tripStops[st.TripID] = stops
		}
		stops[st.StopID] = struct{}{}
	}

	stopLookup := make(map[string]gtfs.Stop, len(data.Stops))
	for _, s := range data.Stops {
		stopLookup[s.StopID] = s
	}

	// Reverse lookup: base3 key -> cached provider station ids.
	stationsByBase3 := make(map[string][]string)
	for _, s := range stations {
		key := model.Base3(s.ID)
		stationsByBase3[key] = append(stationsByBase3[key], s.ID)
	}

	ix := &Index{
		Mapping: make(map[string]map[string][]string),
		Source:  source,
	}
	for routeID, info := range routes {
		selected := make(map[string]struct{})
		for _, tripID := range routeTrips[routeID] {
			for stopID := range tripStops[tripID] {
				resolved := stopID
				if stop, ok := stopLookup[stopID]; ok && stop.ParentStation != "" {
					resolved = stop.ParentStation
				} else if !ok {
					continue
				}
				for _, stationID := range stationsByBase3[model.Base3(resolved)] {
					selected[stationID] = struct{}{}
				}
			}
		}
		ix.add(info.product, info.label, selected)
		ix.add(AllProducts, info.label, selected)
	}

	return ix, nil
}

// add unions stationIDs into mapping[product][label], keeping the
// stored list sorted for reproducible artifacts.
func (ix *Index) add(product, label string, stationIDs map[string]struct{}) {
	labelMap := ix.Mapping[product]
	if labelMap == nil {
		labelMap = make(map[string][]string)
		ix.Mapping[product] = labelMap
	}
	merged := make(map[string]struct{}, len(stationIDs))
	for _, id := range labelMap[label] {
		merged[id] = struct{}{}
	}
	for id := range stationIDs {
		merged[id] = struct{}{}
	}
	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	labelMap[label] = ids
}
