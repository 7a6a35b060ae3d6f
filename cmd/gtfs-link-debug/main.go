package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/0a1b/TrackTramReliablilty/internal/gtfs"
	"github.com/0a1b/TrackTramReliablilty/internal/httpx"
	"github.com/0a1b/TrackTramReliablilty/internal/labelindex"
	"github.com/0a1b/TrackTramReliablilty/internal/mvg"
)

const defaultFeedURL = "https://www.mvg.de/static/gtfs/google_transit.zip"

func main() {
	feed := flag.String("gtfs", defaultFeedURL, "static feed zip URL or local path")
	cachePath := flag.String("cache", mvg.DefaultCachePath, "station cache path")
	radius := flag.Float64("radius", 300, "radius in meters for nearby station listing")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gtfs-link-debug [-gtfs src] [-cache path] [-radius m] <stop-name>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	stations, err := mvg.ReadStationCache(*cachePath)
	if err != nil {
		log.Fatalf("Failed to read station cache: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := gtfs.Open(ctx, httpx.NewClient(), *feed)
	if err != nil {
		log.Fatalf("Failed to load feed: %v", err)
	}

	report := labelindex.CheckStopLinks(flag.Arg(0), data, stations, *radius)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
}
