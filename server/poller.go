package server

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Poller refreshes the session's price map on a fixed interval by
// asking the price source for the full catalog's symbols. A tick that
// would overlap a still-running refresh is skipped, and after Stop
// returns no further recomputation can happen.
type Poller struct {
	session  *Session
	source   PriceSource
	interval time.Duration
	log      *zap.Logger

	cron    *cron.Cron
	cancel  context.CancelFunc
	busy    atomic.Bool
	stopped atomic.Bool
}

// NewPoller creates a poller; call Start to begin ticking.
func NewPoller(session *Session, source PriceSource, interval time.Duration, log *zap.Logger) *Poller {
	return &Poller{
		session:  session,
		source:   source,
		interval: interval,
		log:      log,
	}
}

// Start performs an immediate first refresh in the background and then
// refreshes every interval.
func (p *Poller) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.cron = cron.New()
	if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", p.interval), func() { p.refresh(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("scheduling price refresh: %w", err)
	}
	p.cron.Start()
	go p.refresh(ctx)
	return nil
}

// Stop cancels the in-flight refresh, halts the schedule, and waits for
// any running tick to drain. No snapshot recomputation happens after it
// returns.
func (p *Poller) Stop() {
	p.stopped.Store(true)
	if p.cancel != nil {
		p.cancel()
	}
	if p.cron != nil {
		<-p.cron.Stop().Done()
	}
}

func (p *Poller) refresh(ctx context.Context) {
	if p.stopped.Load() {
		return
	}
	if !p.busy.CompareAndSwap(false, true) {
		p.log.Debug("price refresh still running, tick skipped")
		return
	}
	defer p.busy.Store(false)

	symbols := p.session.Catalog().Symbols()
	start := time.Now()
	prices := p.source.FetchPrices(ctx, symbols)

	// A refresh raced with shutdown: discard it rather than publish.
	if p.stopped.Load() {
		return
	}
	p.session.SetPrices(prices)
	p.log.Info("prices refreshed",
		zap.Int("symbols", len(prices)),
		zap.Duration("took", time.Since(start)))
}
