package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TravelInformation is the partially-filled record of trip facts gathered by chat.
// Every leaf is nullable; the zero value of a freshly created trip is the skeleton
// returned by NewTravelInformation.
type TravelInformation struct {
	DestinationCountry *string             `json:"destination_country" bson:"destination_country"`
	DestinationCities  []string            `json:"destination_cities" bson:"destination_cities"`
	StartDate          *string             `json:"start_date" bson:"start_date"`
	EndDate            *string             `json:"end_date" bson:"end_date"`
	DurationDays       *int                `json:"duration_days" bson:"duration_days"`
	TravelersDetails   []Traveler          `json:"travelers_details" bson:"travelers_details"`
	Accommodation      []AccommodationPref `json:"accommodation" bson:"accommodation"`
	PlacesToVisit      []CityPlaces        `json:"places_to_visit" bson:"places_to_visit"`
	Activities         []ActivityPref      `json:"activities" bson:"activities"`
	Budget             Budget              `json:"budget" bson:"budget"`
	AdditionalNotes    []Note              `json:"additional_notes" bson:"additional_notes"`
}

// Traveler describes one person on the trip.
type Traveler struct {
	Name        *string `json:"name" bson:"name"`
	Age         *int    `json:"age" bson:"age"`
	Preferences *string `json:"preferences" bson:"preferences"`
}

// AccommodationPref records lodging wishes for one city.
type AccommodationPref struct {
	City            *string  `json:"city" bson:"city"`
	CheckIn         *string  `json:"check_in" bson:"check_in"`
	CheckOut        *string  `json:"check_out" bson:"check_out"`
	ChosenHotel     *string  `json:"chosen_hotel" bson:"chosen_hotel"`
	SuggestedHotels []string `json:"suggested_hotels" bson:"suggested_hotels"`
}

// CityPlaces lists places of interest for one city.
type CityPlaces struct {
	City            *string  `json:"city" bson:"city"`
	SuggestedPlaces []string `json:"suggested_places" bson:"suggested_places"`
	UserSelected    []string `json:"user_selected" bson:"user_selected"`
}

// ActivityPref is an activity the traveler is interested in.
type ActivityPref struct {
	Type             *string  `json:"type" bson:"type"`
	Description      *string  `json:"description" bson:"description"`
	Location         *string  `json:"location" bson:"location"`
	SuggestedOptions []string `json:"suggested_options" bson:"suggested_options"`
}

// Budget is the estimated spend broken down by category.
type Budget struct {
	EstimatedTotal *float64         `json:"estimated_total" bson:"estimated_total"`
	Categories     BudgetCategories `json:"categories" bson:"categories"`
	Currency       *string          `json:"currency" bson:"currency"`
}

// BudgetCategories holds per-category amounts in Budget.Currency.
type BudgetCategories struct {
	Transport     *float64 `json:"transport" bson:"transport"`
	Accommodation *float64 `json:"accommodation" bson:"accommodation"`
	Food          *float64 `json:"food" bson:"food"`
	Activities    *float64 `json:"activities" bson:"activities"`
}

// Note is a free-text remark.
type Note struct {
	Text *string `json:"text" bson:"text"`
}

// NewTravelInformation returns the all-null skeleton used both as the initial
// information document and as the target shape for the extraction model.
// List fields carry one all-null element so the model sees the element shape.
func NewTravelInformation() TravelInformation {
	return TravelInformation{
		DestinationCities: []string{},
		TravelersDetails:  []Traveler{{}},
		Accommodation:     []AccommodationPref{{SuggestedHotels: []string{}}},
		PlacesToVisit:     []CityPlaces{{SuggestedPlaces: []string{}, UserSelected: []string{}}},
		Activities:        []ActivityPref{{SuggestedOptions: []string{}}},
		AdditionalNotes:   []Note{{}},
	}
}

// InformationDocument is the stored form of a trip's travel information.
type InformationDocument struct {
	ID        ID                `json:"_id" bson:"_id"`
	TripID    ID                `json:"trip_id" bson:"trip_id"`
	Data      TravelInformation `json:"data" bson:"data"`
	Checklist []Checklist       `json:"checklist" bson:"checklist"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}

// MergeInformation applies update on top of current and returns the result.
// A field that is null, empty, or made only of empty values in update keeps its
// current value, so an extraction that omits a field never erases it.
// Objects are merged key by key; non-empty scalars and lists replace.
func MergeInformation(current, update TravelInformation) (TravelInformation, error) {
	cur, err := toJSONMap(current)
	if err != nil {
		return TravelInformation{}, fmt.Errorf("domain.MergeInformation: current: %w", err)
	}
	upd, err := toJSONMap(update)
	if err != nil {
		return TravelInformation{}, fmt.Errorf("domain.MergeInformation: update: %w", err)
	}

	merged := mergeJSON(cur, upd)

	b, err := json.Marshal(merged)
	if err != nil {
		return TravelInformation{}, fmt.Errorf("domain.MergeInformation: %w", err)
	}
	var out TravelInformation
	if err := json.Unmarshal(b, &out); err != nil {
		return TravelInformation{}, fmt.Errorf("domain.MergeInformation: %w", err)
	}
	return out, nil
}

// ChangedFields returns the top-level fields of next whose JSON value differs
// from prev, keyed by their JSON name. Values are JSON-compatible (maps, slices,
// strings, float64, nil) so every store can write them as a targeted update.
func ChangedFields(prev, next TravelInformation) (map[string]any, error) {
	p, err := toJSONMap(prev)
	if err != nil {
		return nil, fmt.Errorf("domain.ChangedFields: %w", err)
	}
	n, err := toJSONMap(next)
	if err != nil {
		return nil, fmt.Errorf("domain.ChangedFields: %w", err)
	}

	changed := make(map[string]any)
	for k, nv := range n {
		pb, _ := json.Marshal(p[k])
		nb, _ := json.Marshal(nv)
		if !bytes.Equal(pb, nb) {
			changed[k] = nv
		}
	}
	return changed, nil
}

func toJSONMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// mergeJSON merges upd into cur. Both are decoded JSON values.
func mergeJSON(cur, upd any) any {
	if isEmptyJSON(upd) {
		return cur
	}
	cm, curIsObj := cur.(map[string]any)
	um, updIsObj := upd.(map[string]any)
	if !curIsObj || !updIsObj {
		return upd
	}

	out := make(map[string]any, len(cm))
	for k, v := range cm {
		out[k] = v
	}
	for k, v := range um {
		out[k] = mergeJSON(cm[k], v)
	}
	return out
}

// isEmptyJSON reports whether v carries no information: null, an empty string,
// an empty collection, or a collection whose every element is itself empty.
func isEmptyJSON(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		for _, e := range t {
			if !isEmptyJSON(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range t {
			if !isEmptyJSON(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
