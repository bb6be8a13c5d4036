package domain

// FinancingKind says how a financing source is sized.
type FinancingKind string

const (
	// FinancingLTV sizes the loan as a percentage of the purchase price.
	FinancingLTV FinancingKind = "ltv"
	// FinancingFixed uses a fixed principal.
	FinancingFixed FinancingKind = "fixed"
)

// ValidFinancingKinds is the set of kinds the API accepts.
var ValidFinancingKinds = []FinancingKind{FinancingLTV, FinancingFixed}

// IsValid checks if a financing kind is recognized.
func (k FinancingKind) IsValid() bool {
	for _, v := range ValidFinancingKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the kind.
func (k FinancingKind) Label() string {
	switch k {
	case FinancingLTV:
		return "LTV %"
	case FinancingFixed:
		return "Fixed Amount"
	default:
		return string(k)
	}
}

// FinancingSource is one loan funding the project. Disabled sources stay in the list
// but contribute nothing to the totals.
// The kind is serialized as "type" to stay readable by files exported from the web app.
type FinancingSource struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Kind           FinancingKind `json:"type"`
	LTVPct         float64       `json:"ltvPct"`
	FixedAmount    float64       `json:"fixedAmount"`
	InterestRate   float64       `json:"interestRate"`
	OriginationPct float64       `json:"originationPct"`
	Enabled        bool          `json:"enabled"`
}
