package types

// Station is one row of the station relation.
type Station struct {
	ID   string
	Name string
}

// Measurement is one daily observation. Date is YYYY-MM-DD and Precipitation
// is nil when no amount was recorded.
type Measurement struct {
	StationID     string
	Date          string
	Precipitation *float64
	Temperature   float64
}

// MeasurementFilter selects measurements. Empty fields do not constrain.
// Date bounds are inclusive.
type MeasurementFilter struct {
	StationID string
	From      string
	To        string
}

// StationSummary is the wire shape of /api/v1.0/stations.
type StationSummary struct {
	Station string `json:"station"`
	Name    string `json:"name"`
}

type PrecipitationRecord struct {
	Date          string   `json:"date"`
	Precipitation *float64 `json:"prcp"`
}

// TemperatureRecord carries the observed temperature under the "prcp" key,
// which is what existing API consumers read.
type TemperatureRecord struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"prcp"`
}

// TemperatureStats is null in every field when no rows matched.
type TemperatureStats struct {
	Min *float64 `json:"min_temp"`
	Max *float64 `json:"max_temp"`
	Avg *float64 `json:"avg_temp"`
}
