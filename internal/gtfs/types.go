package gtfs

// Data holds the parsed static feed tables used by the label index.
type Data struct {
	Routes    []Route
	Trips     []Trip
	StopTimes []StopTime
	Stops     []Stop
}

// Route represents a route from routes.txt.
type Route struct {
	RouteID        string
	RouteShortName string
	RouteType      string
}

// Trip represents a trip from trips.txt.
type Trip struct {
	TripID  string
	RouteID string
}

// StopTime represents a stop time from stop_times.txt. Only set
// membership matters here; sequence and times are not carried.
type StopTime struct {
	TripID string
	StopID string
}

// Stop represents a stop from stops.txt.
type Stop struct {
	StopID        string
	StopName      string
	StopLat       float64
	StopLon       float64
	LocationType  string
	ParentStation string
}

// routeTypeProducts maps GTFS route_type codes to the provider's
// transport products. 900 is the Munich feed's code for regular tram
// routes. Unmapped route types are dropped from the index.
var routeTypeProducts = map[string]string{
	"0":   "TRAM",
	"1":   "UBAHN",
	"2":   "SBAHN",
	"3":   "BUS",
	"900": "TRAM",
}

// ProductForRouteType resolves a route_type code to a transport
// product label.
func ProductForRouteType(routeType string) (string, bool) {
	product, ok := routeTypeProducts[routeType]
	return product, ok
}
