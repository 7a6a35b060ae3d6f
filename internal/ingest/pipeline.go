package ingest

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/0a1b/TrackTramReliablilty/internal/labelindex"
	"github.com/0a1b/TrackTramReliablilty/internal/model"
	"github.com/0a1b/TrackTramReliablilty/internal/store"
)

// AllProducts bypasses product filtering entirely, including stations
// with no declared products.
const AllProducts = "ALL"

// DefaultMaxWorkers bounds concurrent departure fetches.
const DefaultMaxWorkers = 8

// FetchFunc fetches live departures for one station.
type FetchFunc func(ctx context.Context, stationID string) ([]model.Departure, error)

// Options narrows one ingestion pass. Label, name and id filters may
// be combined; label expansion through the reference index happens in
// the caller, the label filter here applies per fetched departure.
type Options struct {
	Products     []string
	Labels       []string
	StationNames []string
	StationIDs   []string
	MaxWorkers   int
}

// Result carries the counters of one ingestion pass.
type Result struct {
	StationsProcessed int
	RowsInserted      int
	RowsSkipped       int
}

// fetchResult is the outcome of one station's fetch. Failures are
// carried explicitly so the aggregation step decides what to drop.
type fetchResult struct {
	stationID  string
	departures []model.Departure
	err        error
}

// FilterStationsByProducts keeps stations whose declared products
// intersect the requested set. An empty set or an ALL entry keeps
// everything, stations without declared products included.
func FilterStationsByProducts(stations []model.Station, products []string) []model.Station {
	if len(products) == 0 {
		return stations
	}
	want := make(map[string]struct{}, len(products))
	for _, p := range products {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == AllProducts {
			return stations
		}
		want[p] = struct{}{}
	}
	var out []model.Station
	for _, s := range stations {
		for _, p := range s.Products {
			if _, ok := want[strings.ToUpper(p)]; ok {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Run performs one ingestion pass: select target stations, make sure
// they exist in the store, fetch departures concurrently and persist
// them with duplicate skipping.
//
// A single station's fetch failure is dropped from the pass; a store
// failure aborts it.
func Run(ctx context.Context, st *store.Store, stations []model.Station, fetch FetchFunc, opts Options) (Result, error) {
	targets := FilterStationsByProducts(stations, opts.Products)
	targets = filterByNames(targets, opts.StationNames)
	targets = filterByIDs(targets, opts.StationIDs)

	var result Result
	if len(targets) == 0 {
		return result, nil
	}

	if _, err := st.UpsertStations(ctx, targets); err != nil {
		return result, err
	}

	results := fetchAll(ctx, targets, fetch, opts)

	// All persistence happens after the fan-out, in one session.
	var batch []model.Departure
	for _, r := range results {
		if r.err != nil {
			log.Printf("ingest: dropping station %s: %v", r.stationID, r.err)
			continue
		}
		batch = append(batch, r.departures...)
		result.StationsProcessed++
	}

	inserted, skipped, err := st.InsertDepartures(ctx, batch)
	result.RowsInserted = inserted
	result.RowsSkipped = skipped
	if err != nil {
		return result, err
	}
	return result, nil
}

// fetchAll fans out departure fetches over a bounded worker pool and
// collects one result per target station. Only the network fetch runs
// concurrently; persistence stays with the caller.
func fetchAll(ctx context.Context, targets []model.Station, fetch FetchFunc, opts Options) []fetchResult {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}

	labels := normalizeLabelSet(opts.Labels)

	sem := make(chan struct{}, workers)
	results := make([]fetchResult, len(targets))
	var wg sync.WaitGroup
	for i, station := range targets {
		wg.Add(1)
		go func(i int, stationID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			departures, err := fetch(ctx, stationID)
			if err == nil && labels != nil {
				departures = filterByLabels(departures, labels)
			}
			results[i] = fetchResult{stationID: stationID, departures: departures, err: err}
		}(i, station.ID)
	}
	wg.Wait()
	return results
}

func filterByLabels(departures []model.Departure, labels map[string]struct{}) []model.Departure {
	out := departures[:0]
	for _, d := range departures {
		if _, ok := labels[labelindex.NormalizeLabel(d.Label)]; ok {
			out = append(out, d)
		}
	}
	return out
}

func filterByNames(stations []model.Station, names []string) []model.Station {
	if len(names) == 0 {
		return stations
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	var out []model.Station
	for _, s := range stations {
		if _, ok := want[strings.ToLower(strings.TrimSpace(s.Name))]; ok {
			out = append(out, s)
		}
	}
	return out
}

func filterByIDs(stations []model.Station, ids []string) []model.Station {
	if len(ids) == 0 {
		return stations
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[strings.TrimSpace(id)] = struct{}{}
	}
	var out []model.Station
	for _, s := range stations {
		if _, ok := want[s.ID]; ok {
			out = append(out, s)
		}
	}
	return out
}

func normalizeLabelSet(labels []string) map[string]struct{} {
	if len(labels) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if n := labelindex.NormalizeLabel(l); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
