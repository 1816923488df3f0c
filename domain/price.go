// Package domain defines core types for the pricelog service
package domain

import (
	"errors"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the CoinGecko simple price endpoint
const DefaultBaseURL = "https://api.coingecko.com/api/v3/simple/price"

// Separator is appended to the output file once per completed cycle
const Separator = "----------------"

// Error taxonomy. Callers match with errors.Is.
var (
	ErrNetwork = errors.New("network error") // transport failure or non-2xx status
	ErrParse   = errors.New("parse error")   // malformed JSON or missing/non-numeric price
	ErrFile    = errors.New("file error")    // output file could not be opened or written
)

// Asset describes one tracked instrument and how to read and record its price
type Asset struct {
	Name     string                     // Display name (e.g., "Bitcoin")
	Endpoint string                     // Price endpoint URL
	Path     []string                   // Keys leading to the numeric price in the JSON body
	Format   func(price float64) string // Output file line for a price
}

// Line renders the output file line for price
func (a Asset) Line(price float64) string {
	if a.Format == nil {
		return NamedLine(a.Name)(price)
	}

	return a.Format(price)
}

// Reading is a single fetched price
type Reading struct {
	Asset string
	Price float64
	At    time.Time
}

// FormatPrice renders a price as the shortest exact decimal, never in exponent form
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).String()
}

// NamedLine returns a line template of the form "<name>: <price>"
func NamedLine(name string) func(float64) string {
	return func(price float64) string {
		return name + ": " + FormatPrice(price)
	}
}

// CoinGeckoAsset builds an asset reading the USD price of a CoinGecko id.
// Query parameters already on baseURL (e.g. an API key) are kept.
func CoinGeckoAsset(name, id, baseURL string) Asset {
	endpoint := baseURL
	if u, err := url.Parse(baseURL); err == nil {
		params := u.Query()
		params.Set("ids", id)
		params.Set("vs_currencies", "usd")
		u.RawQuery = params.Encode()
		endpoint = u.String()
	}

	return Asset{
		Name:     name,
		Endpoint: endpoint,
		Path:     []string{id, "usd"},
		Format:   NamedLine(name),
	}
}

// DefaultAssets returns the tracked assets in recording order
func DefaultAssets(baseURL string) []Asset {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return []Asset{
		CoinGeckoAsset("Bitcoin", "bitcoin", baseURL),
		CoinGeckoAsset("Ethereum", "ethereum", baseURL),
		CoinGeckoAsset("SP500", "sp-500", baseURL),
	}
}
