package controller

import (
	"errors"
	"fmt"
	"time"

	"hawaii-climate/internal/modules/climate/views"
)

// parseDate validates a YYYY-MM-DD path segment. Impossible calendar dates
// such as 2017-02-30 are rejected.
func parseDate(name, s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing '%s' (expected YYYY-MM-DD)", name)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", fmt.Errorf("invalid '%s' (expected YYYY-MM-DD)", name)
	}
	return t.Format(time.DateOnly), nil
}

func parseDateRange(startStr, endStr string) (start string, end string, err error) {
	start, err = parseDate("start", startStr)
	if err != nil {
		return "", "", err
	}
	end, err = parseDate("end", endStr)
	if err != nil {
		return "", "", err
	}
	if start > end {
		return "", "", errors.New("'start' must be <= 'end'")
	}
	return start, end, nil
}

func endpointListing(defaultStation string) []views.Endpoint {
	const dateTip = "Dates must be formatted as YYYY-MM-DD"
	return []views.Endpoint{
		{
			Path:        "/api/v1.0/precipitation",
			Description: "Returns precipitation for the most recent year of available data",
		},
		{
			Path:        "/api/v1.0/stations",
			Description: "Returns a list of all weather stations",
		},
		{
			Path:        "/api/v1.0/tobs",
			Description: "Returns the observed temperatures and dates for the most recent year of available data from the most active station (" + defaultStation + ")",
		},
		{
			Path:        "/api/v1.0/<start>",
			Description: "Returns the min, max, and average temperature from the start date onward for the most active station (" + defaultStation + ")",
			Tip:         dateTip,
		},
		{
			Path:        "/api/v1.0/<start>/<end>",
			Description: "Returns the min, max, and average temperature between the start and end dates, inclusive, for the most active station (" + defaultStation + ")",
			Tip:         dateTip,
		},
		{
			Path:        "/api/v1.0/<station>/tobs",
			Description: "Returns the observed temperatures and dates for the most recent year of available data from the station in the URL",
			Tip:         "Use the /api/v1.0/stations endpoint to list station ids",
		},
	}
}
