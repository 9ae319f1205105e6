package tools

import (
	"context"
	"strings"

	"github.com/pkordes/trip-planner/internal/places"
)

const hotelLimit = 5

// HotelSearcher finds hotels in a city. *places.Client satisfies it.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, city string, limit int) ([]places.Hotel, error)
}

type hotelInput struct {
	City string `json:"city"`
}

type hotelResult struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Rating       any    `json:"rating"`
	TotalRatings int    `json:"total_ratings"`
}

// Hotels searches hotels in a city through Google Places Text Search.
// Input is JSON {"city": "..."}.
func Hotels(searcher HotelSearcher) Tool {
	return New("hotel_searcher",
		`Use this tool to search for hotels in a given city. Input must be a JSON object with the key 'city', for example {"city": "Paris"}. Returns a JSON list of hotel suggestions with name, address and rating.`,
		func(ctx context.Context, input string) (any, error) {
			var in hotelInput
			if err := decodeInput(input, &in); err != nil {
				return nil, err
			}
			city := strings.TrimSpace(in.City)
			if city == "" {
				return nil, invocationErrorf("the 'city' key is required in the JSON input")
			}
			if searcher == nil {
				return nil, places.ErrNotConfigured
			}

			hotels, err := searcher.SearchHotels(ctx, city, hotelLimit)
			if err != nil {
				return nil, &InvocationError{Msg: "Hotel search failed", Err: err}
			}
			if len(hotels) == 0 {
				return Message("No hotels found in city: " + city + "."), nil
			}

			out := make([]hotelResult, 0, len(hotels))
			for _, h := range hotels {
				r := hotelResult{Name: h.Name, Address: h.Address, Rating: "no rating", TotalRatings: h.TotalRatings}
				if h.Rating != nil {
					r.Rating = *h.Rating
				}
				out = append(out, r)
			}
			return out, nil
		})
}
