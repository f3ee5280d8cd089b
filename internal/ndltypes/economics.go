package ndltypes

// Currency identifies the unit of account. The protocol fixes it to
// HBAR; it is modeled as a type rather than a bare constant so a
// future currency could be added without breaking the Economics shape.
type Currency int

// CurrencyHBAR is the only currency the protocol currently supports.
const CurrencyHBAR Currency = 0

// Economics tracks a manifest's price and lifetime query/revenue totals.
type Economics struct {
	Price        Tinybars `json:"price"`
	TotalQueries uint64   `json:"totalQueries"`
	TotalRevenue Tinybars `json:"totalRevenue"`
	Currency     Currency `json:"currency"`
}

// RecordQuery updates the running totals after a successful paid query.
func (e *Economics) RecordQuery(amount Tinybars) {
	e.TotalQueries++
	e.TotalRevenue += amount
}
