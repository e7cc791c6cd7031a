package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"places_service/platform/apperr"
	"places_service/platform/logger"
)

const (
	upstreamErrPrefix = "Upstream error: "
	maxUpstreamBody   = 10 << 20
)

// textSearchClient calls the Places text-search endpoint.
type textSearchClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logger.Logger
}

// Search performs a single text search. Location bias and radius are only
// sent when both coordinates are present. The raw body is returned
// alongside the decoded payload so callers can echo it back on failure.
func (c *textSearchClient) Search(ctx context.Context, in findPlacesInput) (*textSearchResponse, []byte, error) {
	params := url.Values{}
	params.Set("query", in.Query)
	params.Set("key", c.apiKey)
	if in.hasLocation() {
		params.Set("location", formatCoord(*in.Lat)+","+formatCoord(*in.Lng))
		params.Set("radius", strconv.Itoa(in.Radius))
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindInternal, "failed to build upstream request", err)
	}
	req.Header.Set("Accept", "application/json")

	log := c.log.WithContext(ctx)

	resp, err := c.client.Do(req)
	if err != nil {
		log.UpstreamError("places.textsearch", 0, err)
		return nil, nil, apperr.Wrap(apperr.KindUpstream, upstreamErrPrefix+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		log.UpstreamError("places.textsearch", resp.StatusCode, err)
		return nil, nil, apperr.Wrap(apperr.KindUpstream, upstreamErrPrefix+err.Error(), err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("upstream api error: %d", resp.StatusCode)
		log.UpstreamError("places.textsearch", resp.StatusCode, err)
		return nil, nil, apperr.Wrap(apperr.KindUpstream, upstreamErrPrefix+string(body), err)
	}

	var payload textSearchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		log.UpstreamError("places.textsearch", resp.StatusCode, err)
		return nil, nil, apperr.Wrap(apperr.KindUpstream, upstreamErrPrefix+string(body), err)
	}

	return &payload, body, nil
}
