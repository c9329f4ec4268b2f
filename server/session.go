// Package server hosts the portfolio for one browser session: it owns
// the transaction ledger and the latest complete price map, recomputes
// the snapshot wholesale whenever either changes, and exposes both over
// a JSON API with a websocket push channel.
package server

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lbreton/folio"
)

// PriceSource supplies the last known price per symbol. Implementations
// must resolve every requested symbol, degrading to a fallback value on
// upstream failure rather than omitting it.
type PriceSource interface {
	FetchPrices(ctx context.Context, symbols []string) folio.Prices
}

// Searcher answers instrument lookup queries.
type Searcher interface {
	Search(ctx context.Context, query string) []folio.SearchResult
}

// Session is the single logical writer over the portfolio state. The
// ledger and price map are only read and replaced under its lock, and
// every mutation replaces the published snapshot wholesale; readers
// always see a complete, internally consistent snapshot.
type Session struct {
	mu       sync.RWMutex
	ledger   *folio.Ledger
	catalog  *folio.Catalog
	prices   folio.Prices
	snapshot *folio.Snapshot

	subscribers map[chan *folio.Snapshot]struct{}

	log *zap.Logger
}

// NewSession creates a session with an empty ledger and no known prices.
func NewSession(catalog *folio.Catalog, log *zap.Logger) *Session {
	s := &Session{
		ledger:      folio.NewLedger(),
		catalog:     catalog,
		prices:      folio.Prices{},
		subscribers: make(map[chan *folio.Snapshot]struct{}),
		log:         log,
	}
	s.snapshot = folio.Aggregate(nil, s.prices, catalog)
	return s
}

// Catalog returns the instrument catalog the session resolves against.
func (s *Session) Catalog() *folio.Catalog { return s.catalog }

// AddTransaction assigns a fresh id, records the transaction, and
// recomputes the snapshot. The recorded transaction is returned.
func (s *Session) AddTransaction(tx folio.Transaction) (folio.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.New()
	if err := s.ledger.Append(tx); err != nil {
		return folio.Transaction{}, err
	}
	s.recompute()
	return tx, nil
}

// UpdateTransaction replaces every field of the identified transaction
// except its id, then recomputes the snapshot.
func (s *Session) UpdateTransaction(id uuid.UUID, tx folio.Transaction) (folio.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Update(id, tx); err != nil {
		return folio.Transaction{}, err
	}
	s.recompute()
	updated, _ := s.ledger.Get(id)
	return updated, nil
}

// DeleteTransaction removes the identified transaction and recomputes
// the snapshot.
func (s *Session) DeleteTransaction(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Delete(id); err != nil {
		return err
	}
	s.recompute()
	return nil
}

// SetPrices replaces the whole price map and recomputes the snapshot.
// The map is copied: the caller keeps no handle on session state.
func (s *Session) SetPrices(prices folio.Prices) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices = maps.Clone(prices)
	s.recompute()
}

// Snapshot returns the current portfolio snapshot. Snapshots are never
// mutated once published, so the caller may keep it.
func (s *Session) Snapshot() *folio.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Prices returns a copy of the latest complete price map. Unlike the
// snapshot, which substitutes 0 for unknown prices, this map tells
// absent and explicitly-zero apart.
func (s *Session) Prices() folio.Prices {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.prices)
}

// Subscribe registers for snapshot updates. The returned channel gets
// each newly published snapshot; a subscriber that lags only misses
// intermediate states, never the resulting one, because a fresh
// Snapshot() call always reflects the latest recomputation. The cancel
// function unregisters the subscriber.
func (s *Session) Subscribe() (<-chan *folio.Snapshot, func()) {
	ch := make(chan *folio.Snapshot, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subscribers, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

// recompute folds the current ledger and price map into a fresh
// snapshot and notifies subscribers. Callers hold s.mu.
func (s *Session) recompute() {
	s.snapshot = folio.Aggregate(s.ledger.Transactions(), s.prices, s.catalog)
	for ch := range s.subscribers {
		select {
		case ch <- s.snapshot:
		default:
			// Slow subscriber: drop the stale one, queue the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.snapshot:
			default:
			}
		}
	}
	s.log.Debug("snapshot recomputed",
		zap.Int("transactions", len(s.snapshot.Transactions)),
		zap.Int("positions", len(s.snapshot.Positions)))
}
