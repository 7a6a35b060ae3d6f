package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/0a1b/TrackTramReliablilty/internal/config"
	"github.com/0a1b/TrackTramReliablilty/internal/labelindex"
)

func main() {
	labels := flag.String("labels", "", "comma-separated labels to resolve (required)")
	products := flag.String("products", "TRAM", "comma-separated products to include")
	indexPath := flag.String("label-index", "data/label_index.json", "path to label index JSON")
	flag.Parse()

	labelList := config.SplitList(*labels)
	if len(labelList) == 0 {
		fmt.Fprintln(os.Stderr, "usage: resolve-labels -labels <l1,l2,...> [-products ...] [-label-index path]")
		os.Exit(2)
	}

	ix, err := labelindex.Load(*indexPath)
	if err != nil {
		log.Fatalf("Failed to load label index: %v", err)
	}

	for _, id := range ix.StationsFor(config.SplitList(*products), labelList) {
		fmt.Println(id)
	}
}
