// Package apis provides external price feed integrations
package apis

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sljivkov/pricelog/domain"
)

const userAgent = "pricelog/1.0"

// maxBodySize caps how much of a response body is read
const maxBodySize = 1 << 20

// HTTPPriceSource fetches a single price per request from a JSON HTTP API
type HTTPPriceSource struct {
	client *http.Client
}

// NewHTTPPriceSource creates a price source. A zero timeout leaves requests
// bounded only by the caller's context.
func NewHTTPPriceSource(timeout time.Duration) *HTTPPriceSource {
	return &HTTPPriceSource{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewHTTPPriceSourceWithClient creates a price source around an existing client
func NewHTTPPriceSourceWithClient(client *http.Client) *HTTPPriceSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPriceSource{client: client}
}

// FetchPrice performs a GET against the asset endpoint and reads the price at
// the asset's JSON path. Errors wrap domain.ErrNetwork or domain.ErrParse.
func (s *HTTPPriceSource) FetchPrice(ctx context.Context, asset domain.Asset) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.Endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request for %s: %v", domain.ErrNetwork, asset.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to fetch %s: %v", domain.ErrNetwork, asset.Name, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: %s API returned status %d", domain.ErrNetwork, asset.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read %s response: %v", domain.ErrNetwork, asset.Name, err)
	}

	return ExtractPrice(body, asset.Path)
}

// ExtractPrice reads the numeric value at path from a JSON document
func ExtractPrice(body []byte, path []string) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("%w: malformed JSON response", domain.ErrParse)
	}

	if len(path) == 0 {
		return 0, fmt.Errorf("%w: empty json path", domain.ErrParse)
	}

	expr := PathExpr(path)

	result := gjson.GetBytes(body, expr)
	if !result.Exists() {
		return 0, fmt.Errorf("%w: missing field %q", domain.ErrParse, expr)
	}

	if result.Type != gjson.Number {
		return 0, fmt.Errorf("%w: field %q is %s, not a number", domain.ErrParse, expr, result.Type)
	}

	price := result.Float()
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("%w: field %q holds invalid price %v", domain.ErrParse, expr, price)
	}

	return price, nil
}

// PathExpr joins keys into a gjson path, escaping every character gjson
// would otherwise treat as syntax so each key matches literally
func PathExpr(keys []string) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = escapeKey(key)
	}
	return strings.Join(parts, ".")
}

func escapeKey(key string) string {
	var b strings.Builder
	for _, c := range key {
		if !isSafeKeyChar(c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func isSafeKeyChar(c rune) bool {
	return c <= ' ' || c > '~' || c == '_' || c == '-' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
