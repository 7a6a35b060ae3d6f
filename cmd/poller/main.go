package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/0a1b/TrackTramReliablilty/internal/config"
	"github.com/0a1b/TrackTramReliablilty/internal/ingest"
	"github.com/0a1b/TrackTramReliablilty/internal/labelindex"
	"github.com/0a1b/TrackTramReliablilty/internal/mvg"
	"github.com/0a1b/TrackTramReliablilty/internal/poller"
	"github.com/0a1b/TrackTramReliablilty/internal/store"
)

const cacheStaleWarning = 7 * 24 * time.Hour

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	cachePath := flag.String("cache", mvg.DefaultCachePath, "station cache path")
	products := flag.String("products", "ALL", "comma-separated products (UBAHN,SBAHN,BUS,TRAM,ALL)")
	labels := flag.String("labels", "", "comma-separated line labels to include")
	stationNames := flag.String("station-names", "", "comma-separated station names to include")
	stationIDs := flag.String("station-ids", "", "comma-separated station ids to include")
	useLabelIndex := flag.Bool("use-label-index", false, "expand -labels into station ids via the label index")
	labelIndexPath := flag.String("label-index", "data/label_index.json", "path to label index JSON")
	maxWorkers := flag.Int("max-workers", ingest.DefaultMaxWorkers, "concurrent departure fetches")
	interval := flag.Int("interval", 0, "override polling interval seconds")
	flag.Parse()

	_ = godotenv.Load()

	settings, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	opts := ingest.Options{
		Products:     config.SplitList(*products),
		Labels:       config.SplitList(*labels),
		StationNames: config.SplitList(*stationNames),
		StationIDs:   config.SplitList(*stationIDs),
		MaxWorkers:   *maxWorkers,
	}
	if len(opts.StationNames) == 0 {
		opts.StationNames = settings.Stations.Names
	}
	if len(opts.StationIDs) == 0 {
		opts.StationIDs = settings.Stations.IDs
	}

	if *useLabelIndex && len(opts.Labels) > 0 {
		ix, err := labelindex.Load(*labelIndexPath)
		if err != nil {
			log.Fatalf("Failed to load label index: %v", err)
		}
		resolved := ix.StationsFor(opts.Products, opts.Labels)
		opts.StationIDs = append(resolved, opts.StationIDs...)
		log.Printf("Label index resolved %d stations for labels %s", len(resolved), *labels)
	}

	st, err := store.Open(settings.DBURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()
	if err := st.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	if mvg.CacheStale(*cachePath, cacheStaleWarning) {
		log.Printf("Warning: station cache %s is missing or stale; run sync-stations", *cachePath)
	}

	client := mvg.NewClient()
	pollInterval := settings.PollingIntervalSeconds
	if *interval > 0 {
		pollInterval = *interval
	}

	p := &poller.Poller{
		Interval: time.Duration(pollInterval) * time.Second,
		RunPass: func(ctx context.Context) (ingest.Result, error) {
			stations, err := mvg.ReadStationCache(*cachePath)
			if err != nil {
				return ingest.Result{}, err
			}
			return ingest.Run(ctx, st, stations, client.FetchDepartures, opts)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting poller: db=%s interval=%ds products=%s",
		settings.DBURL, pollInterval, strings.Join(opts.Products, ","))
	p.Run(ctx)
}
