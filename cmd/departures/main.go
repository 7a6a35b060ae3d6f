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

	"github.com/0a1b/TrackTramReliablilty/internal/mvg"
)

func main() {
	jsonOut := flag.Bool("json", false, "print full JSON output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: departures [-json] <station-id>")
		os.Exit(2)
	}
	stationID := flag.Arg(0)

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := mvg.NewClient()
	departures, err := client.FetchDepartures(ctx, stationID)
	if err != nil {
		log.Fatalf("Failed to fetch departures: %v", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(departures); err != nil {
			log.Fatalf("Failed to encode departures: %v", err)
		}
		return
	}

	limit := len(departures)
	if limit > 20 {
		limit = 20
	}
	for _, d := range departures[:limit] {
		delay := "?"
		if d.DelayInMinutes != nil {
			delay = fmt.Sprintf("%d", *d.DelayInMinutes)
		}
		fmt.Printf("%s to %s | planned=%s real=%s delay=%s cancelled=%v\n",
			orUnknown(d.Label), orUnknown(d.Destination),
			epochString(d.PlannedDepartureTime), epochString(d.RealtimeDepartureTime),
			delay, d.Cancelled)
	}
}

func orUnknown(v string) string {
	if v == "" {
		return "?"
	}
	return v
}

func epochString(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
