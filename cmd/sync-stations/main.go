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
	"github.com/0a1b/TrackTramReliablilty/internal/mvg"
	"github.com/0a1b/TrackTramReliablilty/internal/store"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	cachePath := flag.String("cache", mvg.DefaultCachePath, "station cache path")
	refresh := flag.Bool("refresh", true, "fetch the station directory from the provider and rewrite the cache")
	sync := flag.Bool("sync", true, "upsert cached stations into the database")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *refresh {
		client := mvg.NewClient()
		stations, err := client.RefreshStationCache(ctx, *cachePath)
		if err != nil {
			log.Fatalf("Failed to refresh station cache: %v", err)
		}
		fmt.Printf("Fetched and cached %d stations to %s\n", len(stations), *cachePath)
	}

	if *sync {
		settings, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
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
		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure database schema: %v", err)
		}
		count, err := st.UpsertStations(ctx, stations)
		if err != nil {
			log.Fatalf("Failed to sync stations: %v", err)
		}
		fmt.Printf("Synced %d stations to %s\n", count, settings.DBURL)
	}
}
