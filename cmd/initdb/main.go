package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/0a1b/TrackTramReliablilty/internal/config"
	"github.com/0a1b/TrackTramReliablilty/internal/store"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
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

	if err := st.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	fmt.Printf("Initialized database at %s\n", settings.DBURL)
}
