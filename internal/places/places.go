// Package places wraps the Google Places API: finding a place from free text,
// searching hotels in a city, and fetching place photos.
package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"googlemaps.github.io/maps"
)

// ErrNoResults is returned by FindPlace when the query matched nothing.
var ErrNoResults = errors.New("places: no results")

// ErrNotConfigured is returned by every Client method when no API key was given.
var ErrNotConfigured = errors.New("places: Google Maps API key is not set")

// Place is the subset of a Places candidate used for itinerary enrichment.
type Place struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	PhotoReference   string  `json:"photo_reference"`
}

// MapsURL returns the Google Maps link for the place.
func (p Place) MapsURL() string {
	return "https://www.google.com/maps/place/?q=place_id:" + p.PlaceID
}

// Hotel is one hotel search result.
type Hotel struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Rating       *float64 `json:"rating"`
	TotalRatings int      `json:"total_ratings"`
}

// Photo is an image fetched through the Places Photo endpoint.
type Photo struct {
	ContentType string
	Data        []byte
}

// photoMaxWidth matches the width the itinerary view displays.
const photoMaxWidth = 800

// Options configures a Client.
type Options struct {
	APIKey string
	// BaseURL overrides the Google endpoint, for tests.
	BaseURL    string
	HTTPClient *http.Client
	// Cache holds FindPlace results. Nil disables caching.
	Cache Cache
	// PhotoTTL is how long fetched photos stay in memory. Defaults to 24h.
	PhotoTTL time.Duration
}

// Client implements place lookups on top of googlemaps.github.io/maps.
type Client struct {
	maps   *maps.Client
	cache  Cache
	photos *gocache.Cache
}

// New builds a Client. An empty APIKey yields a Client whose methods all
// return ErrNotConfigured, so tools degrade instead of failing startup.
func New(opts Options) (*Client, error) {
	ttl := opts.PhotoTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	c := &Client{cache: opts.Cache, photos: gocache.New(ttl, 2*ttl)}
	if opts.APIKey == "" {
		return c, nil
	}

	mopts := []maps.ClientOption{maps.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		mopts = append(mopts, maps.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		mopts = append(mopts, maps.WithHTTPClient(opts.HTTPClient))
	}
	mc, err := maps.NewClient(mopts...)
	if err != nil {
		return nil, fmt.Errorf("places.New: %w", err)
	}
	c.maps = mc
	return c, nil
}

// FindPlace looks up the best candidate for name in city.
// Returns ErrNoResults when Google found no candidate.
func (c *Client) FindPlace(ctx context.Context, name, city string) (Place, error) {
	if c.maps == nil {
		return Place{}, ErrNotConfigured
	}

	input := name
	if city != "" {
		input = name + ", " + city
	}
	key := "place:" + strings.ToLower(input)
	if c.cache != nil {
		if p, ok := c.cache.Get(ctx, key); ok {
			return p, nil
		}
	}

	resp, err := c.maps.FindPlaceFromText(ctx, &maps.FindPlaceFromTextRequest{
		Input:     input,
		InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		Fields: []maps.PlaceSearchFieldMask{
			maps.PlaceSearchFieldMaskPlaceID,
			maps.PlaceSearchFieldMaskName,
			maps.PlaceSearchFieldMaskFormattedAddress,
			maps.PlaceSearchFieldMaskGeometry,
			maps.PlaceSearchFieldMaskPhotos,
		},
	})
	if err != nil {
		return Place{}, fmt.Errorf("places.Client.FindPlace: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return Place{}, fmt.Errorf("places.Client.FindPlace %q: %w", input, ErrNoResults)
	}

	r := resp.Candidates[0]
	p := Place{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
	}
	if p.Name == "" {
		p.Name = name
	}
	if len(r.Photos) > 0 {
		p.PhotoReference = r.Photos[0].PhotoReference
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, p)
	}
	return p, nil
}

// SearchHotels returns at most limit hotels in city, best matches first.
// An empty slice means Google found none.
func (c *Client) SearchHotels(ctx context.Context, city string, limit int) ([]Hotel, error) {
	if c.maps == nil {
		return nil, ErrNotConfigured
	}

	resp, err := c.maps.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    "hotels in " + city,
		Language: "en",
	})
	if err != nil {
		return nil, fmt.Errorf("places.Client.SearchHotels: %w", err)
	}

	hotels := make([]Hotel, 0, limit)
	for _, r := range resp.Results {
		if len(hotels) == limit {
			break
		}
		h := Hotel{Name: r.Name, Address: r.FormattedAddress, TotalRatings: r.UserRatingsTotal}
		if r.Rating > 0 {
			rating := float64(r.Rating)
			h.Rating = &rating
		}
		hotels = append(hotels, h)
	}
	return hotels, nil
}

// Photo fetches the image for a photo reference. Results are kept in memory,
// so repeated itinerary views do not hit the API again.
func (c *Client) Photo(ctx context.Context, reference string) (Photo, error) {
	if c.maps == nil {
		return Photo{}, ErrNotConfigured
	}
	if v, ok := c.photos.Get(reference); ok {
		return v.(Photo), nil
	}

	resp, err := c.maps.PlacePhoto(ctx, &maps.PlacePhotoRequest{
		PhotoReference: reference,
		MaxWidth:       photoMaxWidth,
	})
	if err != nil {
		return Photo{}, fmt.Errorf("places.Client.Photo: %w", err)
	}
	defer resp.Data.Close()

	data, err := io.ReadAll(resp.Data)
	if err != nil {
		return Photo{}, fmt.Errorf("places.Client.Photo: read: %w", err)
	}

	p := Photo{ContentType: resp.ContentType, Data: data}
	if p.ContentType == "" {
		p.ContentType = "image/jpeg"
	}
	c.photos.SetDefault(reference, p)
	return p, nil
}
