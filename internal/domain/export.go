package domain

// ExportRow is a single row in the itinerary export.
// It is a flat, denormalized view: one row per activity, with trip and day
// fields repeated for every activity of that day. Days with no activities
// yield one row with zero values for all activity fields.
//
// Tags keeps the generated order. Callers that need a joined string (e.g. CSV)
// should join with "|".
type ExportRow struct {
	TripID   string `json:"trip_id"`
	TripName string `json:"trip_name"`

	Day     int    `json:"day"`
	Date    string `json:"date"`
	City    string `json:"city"`
	Hotel   string `json:"hotel"`
	Summary string `json:"summary"`

	Time         string   `json:"time"`
	Title        string   `json:"title"`
	LocationName string   `json:"location_name"`
	Type         string   `json:"type"`
	Address      string   `json:"address"`
	MapsURL      string   `json:"maps_url"`
	Tags         []string `json:"tags"`
}

// ExportRows flattens an itinerary into export rows for the given trip.
// Nil pointers become empty strings; a nil day number becomes its 1-based position.
func ExportRows(trip Trip, it Itinerary) []ExportRow {
	name := trip.Name
	if it.TripName != nil && *it.TripName != "" {
		name = *it.TripName
	}

	var rows []ExportRow
	for i, d := range it.DailyPlan {
		base := ExportRow{
			TripID:   trip.ID.Hex(),
			TripName: name,
			Day:      i + 1,
			Date:     deref(d.Date),
			City:     deref(d.City),
			Hotel:    deref(d.Accommodation.HotelName),
			Summary:  deref(d.Summary),
		}
		if d.Day != nil {
			base.Day = *d.Day
		}
		if len(d.Activities) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, a := range d.Activities {
			row := base
			row.Time = deref(a.Time)
			row.Title = deref(a.Title)
			row.LocationName = deref(a.LocationName)
			row.Type = deref(a.Type)
			row.Address = deref(a.FormattedAddress)
			row.MapsURL = deref(a.MapsURL)
			row.Tags = a.Tags
			rows = append(rows, row)
		}
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
