package places

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	mapsPlaceURL      = "https://www.google.com/maps/place/"
	mapsSearchURL     = "https://www.google.com/maps/search/"
	mapsDirectionsURL = "https://www.google.com/maps/dir/"
	staticMapsURL     = "https://maps.googleapis.com/maps/api/staticmap"
	embedPlaceURL     = "https://www.google.com/maps/embed/v1/place"

	staticMapSize  = "600x360"
	staticMapZoom  = "16"
	staticMapScale = "2"
	staticMapType  = "roadmap"
)

// linkBuilder derives Google Maps links for a place.
// Links that must be signed with the API key are only built here.
type linkBuilder struct {
	apiKey string
}

// mapsURL links to the place page when the place ID is known, otherwise to a
// name search centered on the coordinates when available.
func (b linkBuilder) mapsURL(placeID, name string, loc *LatLng) string {
	if placeID != "" {
		return mapsPlaceURL + "?q=place_id:" + url.QueryEscape(placeID)
	}

	link := mapsSearchURL + "?api=1&query=" + url.QueryEscape(name)
	if loc != nil {
		link += "&center=" + formatCoord(loc.Lat) + "%2C" + formatCoord(loc.Lng)
	}
	return link
}

func (b linkBuilder) directionsURL(placeID string, loc *LatLng) string {
	link := mapsDirectionsURL + "?api=1"
	if loc == nil {
		return link
	}

	if placeID != "" {
		link += "&destination_place_id=" + url.QueryEscape(placeID)
	}
	return link + "&destination=" + formatCoord(loc.Lat) + "%2C" + formatCoord(loc.Lng)
}

// staticMapURL returns nil without coordinates.
// Parameter order is fixed so generated links are stable.
func (b linkBuilder) staticMapURL(loc *LatLng, label string) *string {
	if loc == nil {
		return nil
	}

	point := formatCoord(loc.Lat) + "," + formatCoord(loc.Lng)
	params := [][2]string{
		{"center", point},
		{"zoom", staticMapZoom},
		{"size", staticMapSize},
		{"markers", "label:" + label + "|" + point},
		{"key", b.apiKey},
		{"scale", staticMapScale},
		{"maptype", staticMapType},
	}

	pairs := make([]string, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, p[0]+"="+url.QueryEscape(p[1]))
	}

	link := staticMapsURL + "?" + strings.Join(pairs, "&")
	return &link
}

// embedIframe returns nil without a place ID.
func (b linkBuilder) embedIframe(placeID string) *string {
	if placeID == "" {
		return nil
	}

	src := embedPlaceURL + "?key=" + b.apiKey + "&q=place_id:" + url.QueryEscape(placeID)
	iframe := fmt.Sprintf(
		`<iframe width="600" height="360" style="border:0" loading="lazy" allowfullscreen `+
			`referrerpolicy="no-referrer-when-downgrade" src="%s"></iframe>`,
		src,
	)
	return &iframe
}

// markerLabel maps a 1-based result rank to A, B, C, ...
func markerLabel(rank int) string {
	return string(rune('A' + rank - 1))
}

// formatCoord renders the shortest exact decimal form of v, always with a
// fractional part (106 becomes "106.0").
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
