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
	"github.com/0a1b/TrackTramReliablilty/internal/httpx"
	"github.com/0a1b/TrackTramReliablilty/internal/labelindex"
	"github.com/0a1b/TrackTramReliablilty/internal/mvg"
)

// DefaultFeedURL is the provider's published static feed archive.
const DefaultFeedURL = "https://www.mvg.de/static/gtfs/google_transit.zip"

func main() {
	feed := flag.String("gtfs", DefaultFeedURL, "static feed zip URL or local path")
	products := flag.String("products", "TRAM", "comma-separated products to include")
	labels := flag.String("labels", "", "comma-separated labels to include (default all)")
	out := flag.String("out", "data/label_index.json", "output path for the label index")
	cachePath := flag.String("cache", mvg.DefaultCachePath, "station cache path")
	distanceThreshold := flag.Float64("distance-threshold", 150, "max stop/station match distance in meters (reserved, not used by matching)")
	flag.Parse()

	_ = godotenv.Load()

	stations, err := mvg.ReadStationCache(*cachePath)
	if err != nil {
		log.Fatalf("Failed to read station cache: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ix, err := labelindex.Build(ctx, httpx.NewClient(), *feed, stations, labelindex.BuildOptions{
		Products:           config.SplitList(*products),
		Labels:             config.SplitList(*labels),
		DistanceThresholdM: *distanceThreshold,
	})
	if err != nil {
		log.Fatalf("Index build failed: %v", err)
	}
	if err := ix.Write(*out); err != nil {
		log.Fatalf("Failed to write label index: %v", err)
	}
	fmt.Printf("Wrote label index to %s from %s\n", *out, *feed)
}
