package places

import (
	"math"
	"strconv"
	"strings"

	"places_service/platform/apperr"
	"places_service/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the places search endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// findPlacesQuery is the raw query string. Numbers stay text until parsed
// so an empty value is rejected instead of silently becoming zero.
type findPlacesQuery struct {
	Query      string
	Lat        *string
	Lng        *string
	Radius     *string
	MaxResults *string
}

func readFindPlacesQuery(c *gin.Context) findPlacesQuery {
	return findPlacesQuery{
		Query:      c.Query("query"),
		Lat:        optionalQuery(c, "lat"),
		Lng:        optionalQuery(c, "lng"),
		Radius:     optionalQuery(c, "radius"),
		MaxResults: optionalQuery(c, "max_results"),
	}
}

// optionalQuery returns nil only when the parameter is absent.
func optionalQuery(c *gin.Context, name string) *string {
	value, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	return &value
}

// FindPlaces handles GET /find_places?query=...&lat=...&lng=...&radius=...&max_results=...
func (h *Handler) FindPlaces(c *gin.Context) {
	req, issues := readFindPlacesQuery(c).parse()
	if len(issues) > 0 {
		httpkit.HandleError(c, apperr.Validation(issues[0].Msg).WithDetails(issues))
		return
	}

	resp, err := h.svc.FindPlaces(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (q findPlacesQuery) parse() (FindPlacesRequest, []ValidationIssue) {
	var issues []ValidationIssue
	req := FindPlacesRequest{Query: q.Query}

	req.Lat = parseFloatParam("lat", q.Lat, &issues)
	req.Lng = parseFloatParam("lng", q.Lng, &issues)
	req.Radius = parseIntParam("radius", q.Radius, &issues)
	req.MaxResults = parseIntParam("max_results", q.MaxResults, &issues)

	return req, issues
}

func parseFloatParam(name string, value *string, issues *[]ValidationIssue) *float64 {
	if value == nil {
		return nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(*value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		*issues = append(*issues, ValidationIssue{
			Loc:  []string{"query", name},
			Msg:  "value is not a valid float",
			Type: "type_error.float",
		})
		return nil
	}
	return &parsed
}

func parseIntParam(name string, value *string, issues *[]ValidationIssue) *int {
	if value == nil {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(*value))
	if err != nil {
		*issues = append(*issues, ValidationIssue{
			Loc:  []string{"query", name},
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		})
		return nil
	}
	return &parsed
}
