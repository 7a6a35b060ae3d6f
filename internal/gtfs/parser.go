package gtfs

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/0a1b/TrackTramReliablilty/internal/httpx"
)

// Open loads a static feed archive from a local path or, when no such
// file exists, from a URL. A feed that cannot be fetched or parsed is
// an error; no partial data is returned.
func Open(ctx context.Context, client *http.Client, source string) (*Data, error) {
	if _, err := os.Stat(source); err == nil {
		return ParseFile(source)
	}
	body, err := httpx.GetBytes(ctx, client, source)
	if err != nil {
		return nil, fmt.Errorf("download feed %s: %w", source, err)
	}
	return Parse(bytes.NewReader(body), int64(len(body)))
}

// ParseFile parses a static feed zip on disk.
func ParseFile(path string) (*Data, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open feed %s: %w", path, err)
	}
	defer r.Close()
	return parse(&r.Reader)
}

// Parse parses a static feed zip from memory.
func Parse(r io.ReaderAt, size int64) (*Data, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open feed archive: %w", err)
	}
	return parse(zr)
}

func parse(zr *zip.Reader) (*Data, error) {
	files := make(map[string]*zip.File)
	for _, f := range zr.File {
		files[f.Name] = f
	}

	data := &Data{}
	for _, table := range []struct {
		name  string
		parse func(*zip.File, *Data) error
	}{
		{"routes.txt", parseRoutes},
		{"trips.txt", parseTrips},
		{"stop_times.txt", parseStopTimes},
		{"stops.txt", parseStops},
	} {
		f, ok := files[table.name]
		if !ok {
			return nil, fmt.Errorf("feed archive is missing %s", table.name)
		}
		if err := table.parse(f, data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", table.name, err)
		}
	}

	return data, nil
}

func parseRoutes(f *zip.File, data *Data) error {
	return forEachRecord(f, func(record []string, idx map[string]int) {
		routeID := getField(record, idx, "route_id")
		if routeID == "" {
			return
		}
		data.Routes = append(data.Routes, Route{
			RouteID:        routeID,
			RouteShortName: getField(record, idx, "route_short_name"),
			RouteType:      getField(record, idx, "route_type"),
		})
	})
}

func parseTrips(f *zip.File, data *Data) error {
	return forEachRecord(f, func(record []string, idx map[string]int) {
		tripID := getField(record, idx, "trip_id")
		routeID := getField(record, idx, "route_id")
		if tripID == "" || routeID == "" {
			return
		}
		data.Trips = append(data.Trips, Trip{TripID: tripID, RouteID: routeID})
	})
}

func parseStopTimes(f *zip.File, data *Data) error {
	return forEachRecord(f, func(record []string, idx map[string]int) {
		tripID := getField(record, idx, "trip_id")
		stopID := getField(record, idx, "stop_id")
		if tripID == "" || stopID == "" {
			return
		}
		data.StopTimes = append(data.StopTimes, StopTime{TripID: tripID, StopID: stopID})
	})
}

func parseStops(f *zip.File, data *Data) error {
	return forEachRecord(f, func(record []string, idx map[string]int) {
		stopID := getField(record, idx, "stop_id")
		if stopID == "" {
			return
		}
		lat, _ := strconv.ParseFloat(getField(record, idx, "stop_lat"), 64)
		lon, _ := strconv.ParseFloat(getField(record, idx, "stop_lon"), 64)
		data.Stops = append(data.Stops, Stop{
			StopID:        stopID,
			StopName:      getField(record, idx, "stop_name"),
			StopLat:       lat,
			StopLon:       lon,
			LocationType:  getField(record, idx, "location_type"),
			ParentStation: getField(record, idx, "parent_station"),
		})
	})
}

// forEachRecord streams CSV records from one zip entry, calling fn with
// a header index. Malformed rows are skipped; a malformed header is an
// error.
func forEachRecord(f *zip.File, fn func(record []string, idx map[string]int)) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return err
	}
	idx := makeIndex(header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		fn(record, idx)
	}
	return nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		// Files may start with a UTF-8 BOM glued to the first header.
		h = strings.TrimPrefix(h, "\ufeff")
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
