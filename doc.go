// Package folio provides the core domain model for a single-user
// portfolio tracker: a transaction ledger, a static instrument catalog,
// and a stateless aggregation engine that folds the ledger and a price
// map into a portfolio snapshot.
//
// The package performs no I/O and keeps no hidden state. The host
// application (see the server package) owns the ledger and the latest
// price map, and recomputes a fresh Snapshot from scratch whenever
// either input changes. Market prices come from an external source such
// as the alphavantage package; the aggregation engine only consumes the
// resulting symbol-to-price map.
//
// All quantity and money arithmetic is decimal, so aggregating the same
// inputs twice yields identical results, bit for bit.
package folio
