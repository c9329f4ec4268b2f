package folio

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ErrTransactionNotFound is returned when an update or delete targets
// an id the ledger does not hold.
var ErrTransactionNotFound = errors.New("transaction not found")

// Ledger is the ordered list of all recorded trades for the session.
//
// Transactions are kept in chronological order; the order matters
// because the aggregation engine's average-cost computation is
// order-sensitive. The ledger validates on entry and the rest of the
// package trusts what it holds.
//
// A Ledger is not safe for concurrent use; the host serializes access.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append records a new transaction, keeping the ledger chronological.
func (l *Ledger) Append(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}
	if tx.ID == uuid.Nil {
		return errors.New("transaction has no id")
	}
	if _, ok := l.index(tx.ID); ok {
		return fmt.Errorf("transaction id %s already recorded", tx.ID)
	}
	l.transactions = append(l.transactions, tx)
	l.stableSort()
	return nil
}

// Update replaces every field of the identified transaction except its
// id. It returns ErrTransactionNotFound for an unknown id.
func (l *Ledger) Update(id uuid.UUID, tx Transaction) error {
	tx.ID = id
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}
	i, ok := l.index(id)
	if !ok {
		return fmt.Errorf("update %s: %w", id, ErrTransactionNotFound)
	}
	l.transactions[i] = tx
	l.stableSort()
	return nil
}

// Delete removes the identified transaction from the ledger.
func (l *Ledger) Delete(id uuid.UUID) error {
	i, ok := l.index(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrTransactionNotFound)
	}
	l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
	return nil
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id uuid.UUID) (Transaction, bool) {
	i, ok := l.index(id)
	if !ok {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// Transactions returns a copy of the ledger in chronological order.
// The caller may hold on to it: later mutations never touch it.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

func (l *Ledger) index(id uuid.UUID) (int, bool) {
	for i, tx := range l.transactions {
		if tx.ID == id {
			return i, true
		}
	}
	return 0, false
}

// stableSort keeps same-instant transactions in insertion order, so two
// trades recorded for the same moment fold in the order the user
// entered them.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].TradeDate.Before(l.transactions[j].TradeDate)
	})
}
