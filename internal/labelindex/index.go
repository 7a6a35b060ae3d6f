package labelindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AllProducts is the catch-all partition. It unions station sets
// across every product sharing a label, so a bus line and a tram line
// both labeled "19" end up merged there; callers needing to tell them
// apart must filter by product.
const AllProducts = "ALL"

// Index maps transport product -> line label -> sorted station ids.
// It is rebuilt wholesale by Build and never mutated incrementally.
type Index struct {
	Mapping map[string]map[string][]string `json:"mapping"`
	Source  string                         `json:"source"`
}

// Load reads an index artifact from disk. Invalid JSON is an error.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("label index %s: %w", path, err)
	}
	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("label index %s: %w", path, err)
	}
	if ix.Mapping == nil {
		ix.Mapping = make(map[string]map[string][]string)
	}
	return &ix, nil
}

// Write serializes the index to a JSON artifact, creating parent
// directories as needed.
func (ix *Index) Write(path string) error {
	data, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StationsFor resolves labels to the sorted union of station ids
// recorded under the requested products and under the ALL partition.
func (ix *Index) StationsFor(products, labels []string) []string {
	out := make(map[string]struct{})
	prods := normalizeSet(products)
	prods[AllProducts] = struct{}{}
	for prod := range prods {
		prodMap := ix.Mapping[prod]
		for label := range normalizeSet(labels) {
			for _, id := range prodMap[label] {
				out[id] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(out))
	for id := range out {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NormalizeLabel upper-cases and trims a line label for comparison.
func NormalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := NormalizeLabel(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
