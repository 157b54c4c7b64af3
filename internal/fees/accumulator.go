package fees

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

// Accumulator maps patron IDs to accumulated late fees, remembering the order
// in which patrons were first added. A patron that was never added reads as
// zero.
type Accumulator struct {
	totals map[string]*patronTotal
	order  []string
}

type patronTotal struct {
	amount   decimal.Decimal
	daysLate int
	loans    int
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		totals: make(map[string]*patronTotal),
	}
}

// Add adds fee for one late loan of daysLate days to patron's total,
// inserting the patron with a zero total first if needed.
func (a *Accumulator) Add(patron string, daysLate int, fee decimal.Decimal) {
	t, ok := a.totals[patron]
	if !ok {
		t = &patronTotal{}
		a.totals[patron] = t
		a.order = append(a.order, patron)
	}
	t.amount = t.amount.Add(fee)
	t.daysLate += daysLate
	t.loans++
}

// Get returns patron's total, or zero for an unseen patron.
func (a *Accumulator) Get(patron string) decimal.Decimal {
	if t, ok := a.totals[patron]; ok {
		return t.amount
	}
	return decimal.Zero
}

// Len returns the number of patrons with an entry.
func (a *Accumulator) Len() int {
	return len(a.order)
}

// Patrons returns the patrons in first-insertion order.
func (a *Accumulator) Patrons() []string {
	return append([]string(nil), a.order...)
}

// Total returns the sum over all patrons.
func (a *Accumulator) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.totals {
		sum = sum.Add(t.amount)
	}
	return sum
}

// Entries returns one FeeEntry per patron in first-insertion order, with the
// amount formatted to places decimal places.
func (a *Accumulator) Entries(places int32) []types.FeeEntry {
	entries := make([]types.FeeEntry, 0, len(a.order))
	for _, patron := range a.order {
		t := a.totals[patron]
		entries = append(entries, types.FeeEntry{
			PatronID: patron,
			LateFees: t.amount.StringFixed(places),
			DaysLate: t.daysLate,
			Loans:    t.loans,
		})
	}
	return entries
}
