package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apphttp "places_service/internal/http"
	"places_service/internal/places"
	"places_service/platform/config"
	"places_service/platform/logger"
	"places_service/platform/validator"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T, upstream http.HandlerFunc) (*gin.Engine, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Env:                 "production",
		HTTPAddr:            ":0",
		CORSAllowAll:        true,
		CORSAllowCreds:      true,
		GoogleMapsAPIKey:    "test-key",
		DefaultRadiusMeters: 2500,
		MaxResultsDefault:   5,
		PlacesTextSearchURL: server.URL,
		PlacesTimeout:       5 * time.Second,
	}
	log := logger.NewWithWriter(cfg.Env, io.Discard)

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Modules: []apphttp.Module{places.NewModule(cfg, validator.New(), log)},
	}
	return New(app), &calls
}

func serve(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	engine, _ := newTestEngine(t, func(http.ResponseWriter, *http.Request) {})

	rec := serve(engine, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestFindPlacesResponseShape(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"OK","results":[{"name":"Monas","place_id":"ChIJ-monas"}]}`)
	})

	rec := serve(engine, "/find_places?query=monas&radius=1000")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["query"] != "monas" || body["radius"] != float64(1000) || body["count"] != float64(1) {
		t.Fatalf("unexpected envelope %v", body)
	}
	if took, ok := body["took_ms"].(float64); !ok || took < 0 {
		t.Fatalf("expected non-negative took_ms, got %v", body["took_ms"])
	}

	placesList := body["places"].([]interface{})
	place := placesList[0].(map[string]interface{})
	for _, key := range []string{"address", "location", "rating", "user_ratings_total", "static_map_image_url"} {
		value, present := place[key]
		if !present || value != nil {
			t.Fatalf("expected %s to be present and null, got %v (present=%v)", key, value, present)
		}
	}
	if place["place_id"] != "ChIJ-monas" || place["embed_iframe"] == nil {
		t.Fatalf("unexpected place %v", place)
	}
}

func TestFindPlacesZeroResultsIsEmptyList(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})

	rec := serve(engine, "/find_places?query=nowhere")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	placesList, ok := body["places"].([]interface{})
	if !ok || len(placesList) != 0 || body["count"] != float64(0) {
		t.Fatalf("expected empty places array, got %v", body)
	}
}

func TestFindPlacesValidationError(t *testing.T) {
	engine, calls := newTestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"OK","results":[]}`)
	})

	for _, target := range []string{
		"/find_places?query=ramen&max_results=0",
		"/find_places?query=ramen&max_results=21",
		"/find_places?max_results=3",
		"/find_places?query=ramen&lat=north",
	} {
		rec := serve(engine, target)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", target, rec.Code)
		}
		if _, ok := decodeBody(t, rec)["detail"].([]interface{}); !ok {
			t.Fatalf("%s: expected detail list, got %s", target, rec.Body.String())
		}
	}

	if calls.Load() != 0 {
		t.Fatalf("expected no upstream calls, got %d", calls.Load())
	}
}

func TestFindPlacesRejectsBlankCoordinates(t *testing.T) {
	engine, calls := newTestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})

	rec := serve(engine, "/find_places?query=ramen&lat=&lng=")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	issues := decodeBody(t, rec)["detail"].([]interface{})
	if len(issues) != 2 {
		t.Fatalf("expected an issue per coordinate, got %v", issues)
	}
	for i, param := range []string{"lat", "lng"} {
		loc := issues[i].(map[string]interface{})["loc"].([]interface{})
		if len(loc) != 2 || loc[0] != "query" || loc[1] != param {
			t.Fatalf("expected loc [query %s], got %v", param, loc)
		}
	}

	if calls.Load() != 0 {
		t.Fatalf("expected no upstream calls, got %d", calls.Load())
	}
}

func TestFindPlacesMalformedNumberNamesParameter(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})

	rec := serve(engine, "/find_places?query=ramen&radius=wide")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	issue := decodeBody(t, rec)["detail"].([]interface{})[0].(map[string]interface{})
	loc := issue["loc"].([]interface{})
	if loc[1] != "radius" || issue["type"] != "type_error.integer" {
		t.Fatalf("unexpected issue %v", issue)
	}
}

func TestFindPlacesUpstreamLogicalError(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`)
	})

	rec := serve(engine, "/find_places?query=ramen")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	detail := decodeBody(t, rec)["detail"].(map[string]interface{})
	if detail["status"] != "REQUEST_DENIED" {
		t.Fatalf("unexpected status %v", detail["status"])
	}
	raw := detail["raw"].(map[string]interface{})
	if raw["error_message"] != "bad key" {
		t.Fatalf("expected raw payload, got %v", raw)
	}
}

func TestFindPlacesUpstreamTransportError(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "backend exploded")
	})

	rec := serve(engine, "/find_places?query=ramen")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if detail := decodeBody(t, rec)["detail"]; detail != "Upstream error: backend exploded" {
		t.Fatalf("unexpected detail %v", detail)
	}
}

func TestFindPlacesAllowsCrossOrigin(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})

	req := httptest.NewRequest(http.MethodGet, "/find_places?query=ramen", nil)
	req.Header.Set("Origin", "http://openwebui.local:3000")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "http://openwebui.local:3000" {
		t.Fatalf("expected origin to be allowed, headers=%v", rec.Header())
	}
}
