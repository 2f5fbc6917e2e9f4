package core

// Ledger is the ordered, mutable set of expenses owned by the caller.
// Insertion order is display order; identical records may coexist.
type Ledger struct {
	items []Expense
}

// NewLedger wraps a copy of records.
func NewLedger(records []Expense) *Ledger {
	return &Ledger{items: append([]Expense(nil), records...)}
}

// Add appends e at the end.
func (l *Ledger) Add(e Expense) {
	l.items = append(l.items, e)
}

// Remove deletes the record at index i and returns it.
func (l *Ledger) Remove(i int) (Expense, error) {
	if i < 0 || i >= len(l.items) {
		return Expense{}, ErrIndexOutOfRange
	}
	e := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return e, nil
}

// Records returns a snapshot of the ledger in insertion order.
func (l *Ledger) Records() []Expense {
	return append([]Expense(nil), l.items...)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.items)
}
