package places

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"places_service/platform/apperr"
	"places_service/platform/config"
	"places_service/platform/logger"
	"places_service/platform/validator"
)

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Service searches places upstream and enriches every result with links.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	cfg      config.PlacesConfig
	val      *validator.Validator
	upstream *textSearchClient
	links    linkBuilder
	log      *logger.Logger
}

func NewService(cfg config.PlacesConfig, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		cfg: cfg,
		val: val,
		upstream: &textSearchClient{
			baseURL: cfg.GetPlacesTextSearchURL(),
			apiKey:  cfg.GetGoogleMapsAPIKey(),
			client:  &http.Client{Timeout: cfg.GetPlacesTimeout()},
			log:     log,
		},
		links: linkBuilder{apiKey: cfg.GetGoogleMapsAPIKey()},
		log:   log,
	}
}

// FindPlaces validates the request, runs one upstream text search and maps
// at most MaxResults results in upstream order.
func (s *Service) FindPlaces(ctx context.Context, req FindPlacesRequest) (*FindPlacesResponse, error) {
	start := time.Now()

	in := s.normalize(req)
	if err := s.val.Struct(in); err != nil {
		return nil, validationError(err)
	}

	payload, raw, err := s.upstream.Search(ctx, in)
	if err != nil {
		return nil, err
	}

	status := ""
	if payload.Status != nil {
		status = *payload.Status
	}
	if status != statusOK && status != statusZeroResults {
		s.log.WithContext(ctx).Warn("places search refused upstream", "status", status)
		return nil, apperr.BadRequest("upstream returned status "+status).
			WithDetails(UpstreamStatusDetail{Status: payload.Status, Raw: json.RawMessage(raw)})
	}

	results := payload.Results
	if len(results) > in.MaxResults {
		results = results[:in.MaxResults]
	}

	places := make([]Place, 0, len(results))
	for i, result := range results {
		places = append(places, s.toPlace(result, i+1))
	}

	tookMs := time.Since(start).Milliseconds()
	s.log.WithContext(ctx).Debug("places search completed", "status", status, "count", len(places), "took_ms", tookMs)

	return &FindPlacesResponse{
		Query:  in.Query,
		Radius: in.Radius,
		Count:  len(places),
		TookMs: tookMs,
		Places: places,
	}, nil
}

func (s *Service) normalize(req FindPlacesRequest) findPlacesInput {
	in := findPlacesInput{
		Query:      req.Query,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Radius:     s.cfg.GetDefaultRadiusMeters(),
		MaxResults: s.cfg.GetMaxResultsDefault(),
	}
	if req.Radius != nil {
		in.Radius = *req.Radius
	}
	if req.MaxResults != nil {
		in.MaxResults = *req.MaxResults
	}
	return in
}

// toPlace maps one upstream record; rank is its 1-based position.
func (s *Service) toPlace(result textSearchResult, rank int) Place {
	var loc *LatLng
	if result.Geometry.Location.Lat != nil && result.Geometry.Location.Lng != nil {
		loc = &LatLng{Lat: *result.Geometry.Location.Lat, Lng: *result.Geometry.Location.Lng}
	}

	return Place{
		Name:              result.Name,
		Address:           pickAddress(result),
		Location:          loc,
		PlaceID:           optionalString(result.PlaceID),
		Rating:            result.Rating,
		UserRatingsTotal:  result.UserRatingsTotal,
		MapsURL:           s.links.mapsURL(result.PlaceID, result.Name, loc),
		DirectionsURL:     s.links.directionsURL(result.PlaceID, loc),
		StaticMapImageURL: s.links.staticMapURL(loc, markerLabel(rank)),
		EmbedIframe:       s.links.embedIframe(result.PlaceID),
	}
}

func pickAddress(result textSearchResult) *string {
	if result.FormattedAddress != "" {
		return optionalString(result.FormattedAddress)
	}
	return optionalString(result.Vicinity)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func validationError(err error) error {
	fields := validator.FieldErrors(err)
	if len(fields) == 0 {
		return apperr.Wrap(apperr.KindValidation, err.Error(), err).
			WithDetails([]ValidationIssue{{Loc: []string{"query"}, Msg: err.Error(), Type: "value_error"}})
	}

	issues := make([]ValidationIssue, 0, len(fields))
	for _, fe := range fields {
		msg, kind := describeRule(fe)
		issues = append(issues, ValidationIssue{
			Loc:  []string{"query", fe.Field},
			Msg:  msg,
			Type: kind,
		})
	}

	return apperr.Wrap(apperr.KindValidation, issues[0].Msg, err).WithDetails(issues)
}

func describeRule(fe validator.FieldError) (string, string) {
	switch fe.Tag {
	case "required":
		return "field required", "value_error.missing"
	case "min", "gte":
		return "ensure this value is greater than or equal to " + fe.Param, "value_error.number.not_ge"
	case "max", "lte":
		return "ensure this value is less than or equal to " + fe.Param, "value_error.number.not_le"
	case "gt":
		return "ensure this value is greater than " + fe.Param, "value_error.number.not_gt"
	default:
		return "invalid value", "value_error"
	}
}
