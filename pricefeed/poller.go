package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sljivkov/pricelog/domain"
	"github.com/sljivkov/pricelog/logger"
	"github.com/sljivkov/pricelog/metrics"
)

// DefaultInterval is the sleep between cycles
const DefaultInterval = 10 * time.Second

// Poller fetches every asset in order, appends one line per price and a
// separator per cycle, then sleeps for the interval. By default the first
// fetch or write error stops the loop.
type Poller struct {
	assets     []domain.Asset
	provider   PriceProvider
	recorder   Recorder
	interval   time.Duration
	skipFailed bool

	clock   Clock
	out     io.Writer
	log     *zap.SugaredLogger
	metrics *metrics.Metrics

	cycles atomic.Int64
}

// Option configures a Poller
type Option func(*Poller)

// WithClock replaces the wall clock, mainly for tests
func WithClock(clock Clock) Option {
	return func(p *Poller) {
		p.clock = clock
	}
}

// WithOutput sets where each fetched price is printed (stdout by default)
func WithOutput(w io.Writer) Option {
	return func(p *Poller) {
		p.out = w
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Poller) {
		p.log = log
	}
}

// WithMetrics sets the collectors updated by the poller
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Poller) {
		p.metrics = m
	}
}

// WithSkipFailed makes a failed fetch skip the asset instead of stopping the
// loop. Write failures always stop it.
func WithSkipFailed(skip bool) Option {
	return func(p *Poller) {
		p.skipFailed = skip
	}
}

// NewPoller creates a poller over assets, recorded in the given order
func NewPoller(assets []domain.Asset, provider PriceProvider, recorder Recorder, interval time.Duration, opts ...Option) (*Poller, error) {
	if len(assets) == 0 {
		return nil, errors.New("no assets to poll")
	}
	if provider == nil {
		return nil, errors.New("price provider is required")
	}
	if recorder == nil {
		return nil, errors.New("recorder is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}

	p := &Poller{
		assets:   append([]domain.Asset(nil), assets...),
		provider: provider,
		recorder: recorder,
		interval: interval,
		clock:    SystemClock{},
		out:      os.Stdout,
		log:      logger.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Cycles returns the number of completed cycles
func (p *Poller) Cycles() int64 {
	return p.cycles.Load()
}

// Run polls until ctx is cancelled or a cycle fails. It never returns nil.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Infow("📡 Starting price poller",
		"assets", len(p.assets),
		"interval", p.interval,
		"skip_failed", p.skipFailed,
	)

	for {
		if err := p.RunCycle(ctx); err != nil {
			return err
		}

		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			p.log.Infow("🛑 Context cancelled, stopping poller", "cycles", p.Cycles())
			return err
		}
	}
}

// RunCycle fetches and records every asset once, then appends the separator.
// A cycle that recorded nothing writes no separator and is not counted.
func (p *Poller) RunCycle(ctx context.Context) error {
	start := p.clock.Now()
	log := p.log.With("cycle", uuid.NewString())

	recorded := 0
	for _, asset := range p.assets {
		reading, err := p.fetch(ctx, asset)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if p.skipFailed {
				log.Warnw("❌ Skipping asset", "asset", asset.Name, "error", err)
				continue
			}
			return fmt.Errorf("fetch %s: %w", asset.Name, err)
		}

		fmt.Fprintf(p.out, "Price: %s\n", domain.FormatPrice(reading.Price))

		if err := p.record(ctx, asset.Line(reading.Price)); err != nil {
			return fmt.Errorf("record %s: %w", asset.Name, err)
		}

		p.metrics.RecordPrice(asset.Name, reading.Price)
		recorded++
	}

	if recorded == 0 {
		log.Warnw("❌ No prices recorded, cycle not closed", "assets", len(p.assets))
		return nil
	}

	if err := p.record(ctx, domain.Separator); err != nil {
		return fmt.Errorf("record separator: %w", err)
	}

	elapsed := p.clock.Now().Sub(start)
	p.cycles.Add(1)
	p.metrics.RecordCycle(elapsed)

	log.Infow("✅ Cycle complete",
		"recorded", recorded,
		"assets", len(p.assets),
		"duration", elapsed,
	)

	return nil
}

func (p *Poller) fetch(ctx context.Context, asset domain.Asset) (domain.Reading, error) {
	start := p.clock.Now()

	price, err := p.provider.FetchPrice(ctx, asset)
	p.metrics.RecordFetch(asset.Name, fetchResult(err), p.clock.Now().Sub(start))
	if err != nil {
		return domain.Reading{}, err
	}

	return domain.Reading{Asset: asset.Name, Price: price, At: start}, nil
}

func (p *Poller) record(ctx context.Context, line string) error {
	if err := p.recorder.Append(ctx, line); err != nil {
		p.metrics.RecordAppendError()
		return err
	}
	return nil
}

func fetchResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrNetwork):
		return metrics.ResultNetworkError
	case errors.Is(err, domain.ErrParse):
		return metrics.ResultParseError
	default:
		return metrics.ResultError
	}
}
