package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/0a1b/TrackTramReliablilty/internal/config"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	settings, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		log.Fatalf("Failed to encode config: %v", err)
	}
}
