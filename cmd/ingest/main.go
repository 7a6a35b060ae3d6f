package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/0a1b/TrackTramReliablilty/internal/config"
	"github.com/0a1b/TrackTramReliablilty/internal/ingest"
	"github.com/0a1b/TrackTramReliablilty/internal/labelindex"
	"github.com/0a1b/TrackTramReliablilty/internal/mvg"
	"github.com/0a1b/TrackTramReliablilty/internal/store"
)

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

	if *useLabelIndex && len(opts.Labels) > 0 {
		ix, err := labelindex.Load(*labelIndexPath)
		if err != nil {
			log.Fatalf("Failed to load label index: %v", err)
		}
		opts.StationIDs = append(ix.StationsFor(opts.Products, opts.Labels), opts.StationIDs...)
	}

	stations, err := mvg.ReadStationCache(*cachePath)
	if err != nil {
		log.Fatalf("Failed to read station cache: %v", err)
	}

	st, err := store.Open(settings.DBURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	client := mvg.NewClient()
	res, err := ingest.Run(ctx, st, stations, client.FetchDepartures, opts)
	if err != nil {
		log.Fatalf("Ingest failed: %v", err)
	}
	fmt.Printf("Ingested from %d stations | inserted=%d skipped_duplicates=%d\n",
		res.StationsProcessed, res.RowsInserted, res.RowsSkipped)
}
