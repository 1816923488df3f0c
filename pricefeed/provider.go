// Package pricefeed polls price providers and records readings
package pricefeed

import (
	"context"

	"github.com/sljivkov/pricelog/domain"
)

// PriceProvider fetches the current price of a single asset
type PriceProvider interface {
	// FetchPrice blocks until the price is read or the request fails
	FetchPrice(ctx context.Context, asset domain.Asset) (float64, error)
}

// Recorder persists formatted price lines
type Recorder interface {
	// Append writes lines in order after everything already recorded
	Append(ctx context.Context, lines ...string) error
}
