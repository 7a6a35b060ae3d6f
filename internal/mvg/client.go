package mvg

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/0a1b/TrackTramReliablilty/internal/httpx"
	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

const (
	// DefaultStationsURL is the provider's station directory endpoint.
	DefaultStationsURL = "https://www.mvg.de/.rest/zdm/stations"
	// DefaultDeparturesURL is the provider's live departures endpoint.
	DefaultDeparturesURL = "https://www.mvg.de/api/bgw-pt/v3/departures"
)

// Client talks to the provider's public API.
type Client struct {
	httpClient    *http.Client
	stationsURL   string
	departuresURL string
}

// NewClient returns a Client with the default endpoints and a retrying
// HTTP transport.
func NewClient() *Client {
	return &Client{
		httpClient:    httpx.NewClient(),
		stationsURL:   DefaultStationsURL,
		departuresURL: DefaultDeparturesURL,
	}
}

// FetchStations downloads the full station directory.
func (c *Client) FetchStations(ctx context.Context) ([]model.Station, error) {
	body, err := httpx.GetBytes(ctx, c.httpClient, c.stationsURL)
	if err != nil {
		return nil, err
	}
	return parseStations(body)
}

// FetchDepartures fetches live departures for one station, identified
// by its global id (e.g. "de:09162:1").
func (c *Client) FetchDepartures(ctx context.Context, stationID string) ([]model.Departure, error) {
	q := url.Values{}
	q.Set("globalId", stationID)
	body, err := httpx.GetBytes(ctx, c.httpClient, c.departuresURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return parseDepartures(body, stationID, time.Now().UTC().Unix())
}
