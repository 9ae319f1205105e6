package tools

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

const (
	kiwiHost        = "kiwi-com-cheap-flights.p.rapidapi.com"
	kiwiURL         = "https://" + kiwiHost + "/round-trip"
	kiwiBookingBase = "https://www.kiwi.com"

	// flightOrigin is where every searched trip starts.
	flightOrigin = "Country:warsaw_pl"
	flightLimit  = 5
)

// Flight is one simplified round-trip offer.
type Flight struct {
	PriceEUR    json.Number `json:"price_EUR"`
	Provider    string      `json:"provider"`
	BookingLink string      `json:"booking_link"`
	Outbound    Leg         `json:"outbound_flight"`
	Inbound     Leg         `json:"inbound_flight"`
}

// Leg is the first segment of one direction of a Flight.
type Leg struct {
	Airline       string `json:"airline"`
	DepartureFrom string `json:"departure_from"`
	DepartureTime string `json:"departure_time"`
	ArrivalTo     string `json:"arrival_to"`
	ArrivalTime   string `json:"arrival_time"`
}

type kiwiSegment struct {
	Segment struct {
		Carrier struct {
			Name string `json:"name"`
		} `json:"carrier"`
		Source      kiwiStop `json:"source"`
		Destination kiwiStop `json:"destination"`
	} `json:"segment"`
}

type kiwiStop struct {
	LocalTime string `json:"localTime"`
	Station   struct {
		Name string `json:"name"`
	} `json:"station"`
}

type kiwiSector struct {
	SectorSegments []kiwiSegment `json:"sectorSegments"`
}

type kiwiResponse struct {
	Itineraries []struct {
		PriceEur struct {
			Amount json.Number `json:"amount"`
		} `json:"priceEur"`
		Provider struct {
			Name string `json:"name"`
		} `json:"provider"`
		BookingOptions struct {
			Edges []struct {
				Node struct {
					BookingURL string `json:"bookingUrl"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"bookingOptions"`
		Outbound kiwiSector `json:"outbound"`
		Inbound  kiwiSector `json:"inbound"`
	} `json:"itineraries"`
}

var countryCode = regexp.MustCompile(`^[A-Za-z]{2}$`)

// kiwiDestination turns the model's input into a Kiwi location id:
// "dubrovnik_hr" becomes "City:dubrovnik_hr", "FR" becomes "Country:FR",
// and an already prefixed id passes through.
func kiwiDestination(input string) string {
	s := strings.Trim(strings.TrimSpace(input), `"'`)
	switch {
	case strings.Contains(s, ":"):
		return s
	case countryCode.MatchString(s):
		return "Country:" + strings.ToUpper(s)
	default:
		return "City:" + strings.ToLower(s)
	}
}

// Flights searches round-trip flights from Poland through the Kiwi API on RapidAPI.
// The return leg departs no earlier than two weeks from today.
func Flights(apiKey string, opts HTTPOptions, clock Clock) Tool {
	client := opts.client()
	endpoint := opts.base(kiwiURL)

	return New("flight_searcher",
		"Use this tool to search for round-trip flights from Poland to a specified destination. The input must be a city code like dubrovnik_hr or a two-letter country code like DE, FR. It returns a JSON list of available flight options including price, airline, times and a booking_link.",
		func(ctx context.Context, input string) (any, error) {
			if strings.TrimSpace(input) == "" {
				return nil, invocationErrorf("a destination is required")
			}
			if apiKey == "" {
				return nil, invocationErrorf("RapidAPI key is not set.")
			}

			inbound := truncateDay(clock.now()).AddDate(0, 0, 14).Format("2006-01-02T15:04:05")
			var resp kiwiResponse
			err := getJSON(ctx, client, endpoint, url.Values{
				"source":                    {flightOrigin},
				"destination":               {kiwiDestination(input)},
				"locale":                    {"en"},
				"adults":                    {"1"},
				"children":                  {"0"},
				"infants":                   {"0"},
				"handbags":                  {"1"},
				"holdbags":                  {"0"},
				"cabinClass":                {"ECONOMY"},
				"sortBy":                    {"QUALITY"},
				"sortOrder":                 {"ASCENDING"},
				"limit":                     {"5"},
				"inboundDepartureDateStart": {inbound},
			}, map[string]string{
				"x-rapidapi-key":  apiKey,
				"x-rapidapi-host": kiwiHost,
			}, &resp)
			if err != nil {
				return nil, &InvocationError{Msg: "An HTTP error occurred while searching for flights", Err: err}
			}
			if len(resp.Itineraries) == 0 {
				return Message("No flights found from Poland to " + strings.TrimSpace(input) + "."), nil
			}

			var out []Flight
			for _, it := range resp.Itineraries {
				if len(out) == flightLimit {
					break
				}
				if len(it.BookingOptions.Edges) == 0 || len(it.Outbound.SectorSegments) == 0 || len(it.Inbound.SectorSegments) == 0 {
					continue
				}
				out = append(out, Flight{
					PriceEUR:    it.PriceEur.Amount,
					Provider:    it.Provider.Name,
					BookingLink: kiwiBookingBase + it.BookingOptions.Edges[0].Node.BookingURL,
					Outbound:    leg(it.Outbound.SectorSegments[0]),
					Inbound:     leg(it.Inbound.SectorSegments[0]),
				})
			}
			if len(out) == 0 {
				return Message("Could not process flight data for " + strings.TrimSpace(input) + "."), nil
			}
			return out, nil
		})
}

func leg(s kiwiSegment) Leg {
	return Leg{
		Airline:       s.Segment.Carrier.Name,
		DepartureFrom: s.Segment.Source.Station.Name,
		DepartureTime: s.Segment.Source.LocalTime,
		ArrivalTo:     s.Segment.Destination.Station.Name,
		ArrivalTime:   s.Segment.Destination.LocalTime,
	}
}
