package mvg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

// DefaultCachePath is where the station directory is cached locally.
const DefaultCachePath = "data/stations.json"

// WriteStationCache writes the station directory to a JSON file,
// creating parent directories as needed.
func WriteStationCache(path string, stations []model.Station) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(stations, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadStationCache loads the station directory from a JSON file.
func ReadStationCache(path string) ([]model.Station, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("station cache %s: %w", path, err)
	}
	var stations []model.Station
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("station cache %s: %w", path, err)
	}
	return stations, nil
}

// CacheStale reports whether the cache file is missing or older than
// maxAge.
func CacheStale(path string, maxAge time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) > maxAge
}

// RefreshStationCache fetches the station directory from the provider
// and overwrites the local cache.
func (c *Client) RefreshStationCache(ctx context.Context, path string) ([]model.Station, error) {
	stations, err := c.FetchStations(ctx)
	if err != nil {
		return nil, err
	}
	if err := WriteStationCache(path, stations); err != nil {
		return nil, err
	}
	return stations, nil
}
