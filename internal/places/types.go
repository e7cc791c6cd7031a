package places

import "encoding/json"

// FindPlacesRequest is a parsed search request.
// Optional numbers are pointers so an omitted parameter can take the
// configured default.
type FindPlacesRequest struct {
	Query      string
	Lat        *float64
	Lng        *float64
	Radius     *int
	MaxResults *int
}

// findPlacesInput is the request after defaults have been applied.
type findPlacesInput struct {
	Query      string   `json:"query" validate:"required"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Radius     int      `json:"radius" validate:"gt=0"`
	MaxResults int      `json:"max_results" validate:"min=1,max=20"`
}

// hasLocation reports whether both bias coordinates were supplied.
func (in findPlacesInput) hasLocation() bool {
	return in.Lat != nil && in.Lng != nil
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a single search result enriched with ready-to-use links.
type Place struct {
	Name              string   `json:"name"`
	Address           *string  `json:"address"`
	Location          *LatLng  `json:"location"`
	PlaceID           *string  `json:"place_id"`
	Rating            *float64 `json:"rating"`
	UserRatingsTotal  *int     `json:"user_ratings_total"`
	MapsURL           string   `json:"maps_url"`
	DirectionsURL     string   `json:"directions_url"`
	StaticMapImageURL *string  `json:"static_map_image_url"`
	EmbedIframe       *string  `json:"embed_iframe"`
}

// FindPlacesResponse is the payload returned by GET /find_places.
type FindPlacesResponse struct {
	Query  string  `json:"query"`
	Radius int     `json:"radius"`
	Count  int     `json:"count"`
	TookMs int64   `json:"took_ms"`
	Places []Place `json:"places"`
}

// ValidationIssue is one entry of a 422 response detail.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// UpstreamStatusDetail is the 400 response detail for a refused search.
type UpstreamStatusDetail struct {
	Status *string         `json:"status"`
	Raw    json.RawMessage `json:"raw"`
}

// textSearchResponse mirrors the relevant parts of the Places text-search payload.
type textSearchResponse struct {
	Status  *string            `json:"status"`
	Results []textSearchResult `json:"results"`
}

type textSearchResult struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	PlaceID          string   `json:"place_id"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	Geometry         struct {
		Location struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}
