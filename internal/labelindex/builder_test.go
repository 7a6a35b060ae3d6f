package labelindex

import (
	"archive/zip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/0a1b/TrackTramReliablilty/internal/model"
)

func writeFeedFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	files := map[string]string{
		"routes.txt": "route_id,route_short_name,route_type\n" +
			"r1,19,900\n" + // tram line 19
			"r2,19,3\n" + // bus line also labeled 19
			"r3,u3,1\n" + // label normalized to U3
			"r4,X,715\n", // unmapped route_type, dropped
		"trips.txt": "route_id,trip_id\nr1,t1\nr2,t2\nr3,t3\nr4,t4\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence\n" +
			"t1,de:09162:100:1:2,1\n" +
			"t1,de:09162:200:3,2\n" +
			"t2,de:09162:300:1,1\n" +
			"t3,de:09162:400,1\n" +
			"t4,de:09162:100:1:2,1\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon,parent_station\n" +
			"de:09162:100:1:2,Elisabethplatz,48.16,11.57,de:09162:100\n" +
			"de:09162:100,Elisabethplatz,48.16,11.57,\n" +
			"de:09162:200:3,Kurfuerstenplatz,48.16,11.58,\n" +
			"de:09162:300:1,Nordbad,48.17,11.56,\n" +
			"de:09162:400,Scheidplatz,48.17,11.57,\n",
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func fixtureStations() []model.Station {
	return []model.Station{
		{ID: "de:09162:100", Name: "Elisabethplatz"},
		{ID: "de:09162:200", Name: "Kurfuerstenplatz"},
		{ID: "de:09162:300", Name: "Nordbad"},
		{ID: "de:09162:400", Name: "Scheidplatz"},
		{ID: "de:09163:1", Name: "Elsewhere"},
	}
}

func TestBuildJoinsFeedIntoStationSets(t *testing.T) {
	feed := writeFeedFixture(t)
	ix, err := Build(context.Background(), nil, feed, fixtureStations(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Tram 19 reaches the parent-resolved cluster 100 and cluster 200.
	tram := ix.Mapping["TRAM"]["19"]
	if !reflect.DeepEqual(tram, []string{"de:09162:100", "de:09162:200"}) {
		t.Errorf("TRAM 19 = %v", tram)
	}
	bus := ix.Mapping["BUS"]["19"]
	if !reflect.DeepEqual(bus, []string{"de:09162:300"}) {
		t.Errorf("BUS 19 = %v", bus)
	}
	// The ALL partition conflates products sharing a label.
	all := ix.Mapping[AllProducts]["19"]
	if !reflect.DeepEqual(all, []string{"de:09162:100", "de:09162:200", "de:09162:300"}) {
		t.Errorf("ALL 19 = %v", all)
	}
	if got := ix.Mapping["UBAHN"]["U3"]; !reflect.DeepEqual(got, []string{"de:09162:400"}) {
		t.Errorf("UBAHN U3 = %v (labels must be upper-cased)", got)
	}
	// Unmapped route types never make it in, even via ALL.
	if _, ok := ix.Mapping[AllProducts]["X"]; ok {
		t.Error("route with unmapped route_type must be dropped")
	}
	if ix.Source != feed {
		t.Errorf("source = %q", ix.Source)
	}
}

func TestBuildProductAndLabelFilters(t *testing.T) {
	feed := writeFeedFixture(t)

	ix, err := Build(context.Background(), nil, feed, fixtureStations(), BuildOptions{
		Products: []string{"tram"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := ix.Mapping["BUS"]; ok {
		t.Error("product filter must exclude bus routes")
	}
	if !reflect.DeepEqual(ix.Mapping[AllProducts]["19"], []string{"de:09162:100", "de:09162:200"}) {
		t.Errorf("ALL partition must only hold filtered routes: %v", ix.Mapping[AllProducts]["19"])
	}

	ix, err = Build(context.Background(), nil, feed, fixtureStations(), BuildOptions{
		Labels: []string{" u3 "},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(ix.Mapping["UBAHN"]) != 1 || len(ix.Mapping[AllProducts]) != 1 {
		t.Errorf("label filter left too much: %v", ix.Mapping)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	feed := writeFeedFixture(t)
	stations := fixtureStations()

	first, err := Build(context.Background(), nil, feed, stations, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(context.Background(), nil, feed, stations, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("two builds from identical inputs must serialize identically")
	}
}

func TestBuildMissingFeedFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.zip")
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Build(context.Background(), nil, path, nil, BuildOptions{}); err == nil {
		t.Error("expected error for corrupt feed archive")
	}
}
