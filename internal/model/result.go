package model

// PriceSentinel is the outward value reported when no price is available.
const PriceSentinel = -1.0

// PriceStatus classifies the outcome of a latest-price lookup.
type PriceStatus int

const (
	PriceFound PriceStatus = iota
	PriceNotFound
	PriceProviderError
)

func (s PriceStatus) String() string {
	switch s {
	case PriceFound:
		return "ok"
	case PriceNotFound:
		return "not_found"
	case PriceProviderError:
		return "provider_error"
	default:
		return "unknown"
	}
}

// Price sources.
const (
	SourceClose = "close"
	SourceQuote = "quote"
)

// PriceResult is the outcome of a latest-price lookup.
type PriceResult struct {
	Symbol string
	Status PriceStatus
	Price  float64
	Source string // SourceClose or SourceQuote when found
	Err    error  // cause when not found or failed
}

// Found reports whether a usable price was returned.
func (r PriceResult) Found() bool { return r.Status == PriceFound }

// Value returns the price, or PriceSentinel for every non-found outcome.
func (r PriceResult) Value() float64 {
	if r.Status != PriceFound {
		return PriceSentinel
	}
	return r.Price
}

// HistoryStatus classifies the outcome of a history lookup.
type HistoryStatus int

const (
	HistoryFound HistoryStatus = iota
	HistoryEmpty
	HistoryProviderError
)

func (s HistoryStatus) String() string {
	switch s {
	case HistoryFound:
		return "ok"
	case HistoryEmpty:
		return "empty"
	case HistoryProviderError:
		return "provider_error"
	default:
		return "unknown"
	}
}

// HistoryResult is the outcome of a history lookup.
type HistoryResult struct {
	Symbol    string
	Period    Period
	Requested string // period as the caller wrote it
	Status    HistoryStatus
	Bars      []OHLCV
	Err       error
}

// RequestedPeriod is the period as the caller wrote it, or the resolved
// token when the caller left it blank.
func (r HistoryResult) RequestedPeriod() string {
	if r.Requested != "" {
		return r.Requested
	}
	return string(r.Period)
}

// Relation is the ordering between two compared prices.
type Relation int

const (
	RelationUnavailable Relation = iota
	RelationHigher
	RelationLower
	RelationEqual
)

func (r Relation) String() string {
	switch r {
	case RelationHigher:
		return "higher"
	case RelationLower:
		return "lower"
	case RelationEqual:
		return "equal"
	default:
		return "unavailable"
	}
}

// Comparison holds both lookups and the relation of A to B.
type Comparison struct {
	A        PriceResult
	B        PriceResult
	Relation Relation
}

// Compare orders a against b with exact float comparison.
func Compare(a, b PriceResult) Comparison {
	c := Comparison{A: a, B: b}
	if !a.Found() || !b.Found() {
		return c
	}
	switch {
	case a.Price > b.Price:
		c.Relation = RelationHigher
	case a.Price < b.Price:
		c.Relation = RelationLower
	default:
		c.Relation = RelationEqual
	}
	return c
}
