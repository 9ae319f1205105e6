package domain

// Itinerary is the generated day-by-day plan for a trip.
type Itinerary struct {
	TripName           *string            `json:"trip_name" bson:"trip_name"`
	StartDate          *string            `json:"start_date" bson:"start_date"`
	EndDate            *string            `json:"end_date" bson:"end_date"`
	DurationDays       *int               `json:"duration_days" bson:"duration_days"`
	DestinationCountry *string            `json:"destination_country" bson:"destination_country"`
	DestinationCities  []string           `json:"destination_cities" bson:"destination_cities"`
	DailyPlan          []Day              `json:"daily_plan" bson:"daily_plan"`
	GeneralNotes       []string           `json:"general_notes" bson:"general_notes"`
	EmergencyContacts  []EmergencyContact `json:"emergency_contacts" bson:"emergency_contacts"`
}

// Day is one entry of Itinerary.DailyPlan.
type Day struct {
	Day           *int          `json:"day" bson:"day"`
	Date          *string       `json:"date" bson:"date"`
	City          *string       `json:"city" bson:"city"`
	Summary       *string       `json:"summary" bson:"summary"`
	Accommodation Accommodation `json:"accommodation" bson:"accommodation"`
	Activities    []Activity    `json:"activities" bson:"activities"`
	Notes         *string       `json:"notes" bson:"notes"`
}

// Accommodation is where the traveler sleeps on a given day.
type Accommodation struct {
	HotelName *string `json:"hotel_name" bson:"hotel_name"`
	CheckIn   *string `json:"check_in" bson:"check_in"`
	Address   *string `json:"address" bson:"address"`
}

// Activity is a single scheduled item of a day.
//
// The fields after Tags are written only by location enrichment and are
// omitted until a lookup succeeds. An activity with Lat and Lng set is
// never looked up again.
type Activity struct {
	Time         *string  `json:"time" bson:"time"`
	Title        *string  `json:"title" bson:"title"`
	LocationName *string  `json:"location_name" bson:"location_name"`
	Description  *string  `json:"description" bson:"description"`
	Type         *string  `json:"type" bson:"type"`
	Tags         []string `json:"tags" bson:"tags"`

	PlaceID          *string  `json:"place_id,omitempty" bson:"place_id,omitempty"`
	Lat              *float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty" bson:"lng,omitempty"`
	FormattedAddress *string  `json:"formatted_address,omitempty" bson:"formatted_address,omitempty"`
	MapsURL          *string  `json:"maps_url,omitempty" bson:"maps_url,omitempty"`
	PhotoReference   *string  `json:"photo_reference,omitempty" bson:"photo_reference,omitempty"`
}

// Enriched reports whether the activity already carries coordinates.
func (a Activity) Enriched() bool {
	return a.Lat != nil && a.Lng != nil
}

// EmergencyContact is a phone number worth having at the destination.
type EmergencyContact struct {
	Name  *string `json:"name" bson:"name"`
	Phone *string `json:"phone" bson:"phone"`
	Notes *string `json:"notes" bson:"notes"`
}

// NewItinerary returns the skeleton embedded in the generation prompt and
// stored as the placeholder plan of a new trip.
func NewItinerary() Itinerary {
	return Itinerary{
		DestinationCities: []string{},
		DailyPlan: []Day{{
			Activities: []Activity{{Tags: []string{}}},
		}},
		GeneralNotes:      []string{},
		EmergencyContacts: []EmergencyContact{{}},
	}
}

// Normalize replaces nil lists with empty lists at every level so that
// clients always receive arrays. It never removes data.
func (it *Itinerary) Normalize() {
	if it.DestinationCities == nil {
		it.DestinationCities = []string{}
	}
	if it.DailyPlan == nil {
		it.DailyPlan = []Day{}
	}
	if it.GeneralNotes == nil {
		it.GeneralNotes = []string{}
	}
	if it.EmergencyContacts == nil {
		it.EmergencyContacts = []EmergencyContact{}
	}
	for i := range it.DailyPlan {
		d := &it.DailyPlan[i]
		if d.Activities == nil {
			d.Activities = []Activity{}
		}
		for j := range d.Activities {
			if d.Activities[j].Tags == nil {
				d.Activities[j].Tags = []string{}
			}
		}
	}
}
