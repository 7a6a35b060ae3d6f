package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/0a1b/TrackTramReliablilty/internal/config"
	"github.com/0a1b/TrackTramReliablilty/internal/store"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	scope := flag.String("scope", "line", "aggregation scope: line or station")
	flag.Parse()

	_ = godotenv.Load()

	settings, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := store.Open(settings.DBURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rows any
	switch *scope {
	case "line":
		rows, err = st.LineMetrics(ctx)
	case "station":
		rows, err = st.StationMetrics(ctx)
	default:
		log.Fatalf("scope must be 'line' or 'station', got %q", *scope)
	}
	if err != nil {
		log.Fatalf("Aggregation failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		log.Fatalf("Failed to encode metrics: %v", err)
	}
}
