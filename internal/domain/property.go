package domain

// PropertyInputs is the acquisition, holding and sale snapshot a pro forma is computed from.
// Amounts are in dollars, rates in percent. Values are expected to be non-negative but nothing enforces it.
type PropertyInputs struct {
	ProjectName          string  `json:"projectName"`
	PurchasePrice        float64 `json:"purchasePrice"`
	ARVPrice             float64 `json:"arvPrice"`
	HoldPeriodWeeks      float64 `json:"holdPeriodWeeks"`
	PurchaseClosingCosts float64 `json:"purchaseClosingCosts"`
	SaleClosingCostsPct  float64 `json:"saleClosingCostsPct"`
	PropertyTaxesAnnual  float64 `json:"propertyTaxesAnnual"`
	InsuranceAnnual      float64 `json:"insuranceAnnual"`
	UtilitiesMonthly     float64 `json:"utilitiesMonthly"`
	HOAMonthly           float64 `json:"hoaMonthly"`
	ContingencyPct       float64 `json:"contingencyPct"`
}

// Material is a single priced line inside a renovation item.
type Material struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// RenovationLineItem groups the materials and labor for one category of work.
// Categories need not be unique; ID identifies the item for edits.
type RenovationLineItem struct {
	ID        int        `json:"id"`
	Category  string     `json:"category"`
	Materials []Material `json:"materials"`
	Labor     float64    `json:"labor"`
	Notes     string     `json:"notes"`
}

// MaterialsTotal sums the material costs of the item.
func (r RenovationLineItem) MaterialsTotal() float64 {
	total := 0.0
	for _, m := range r.Materials {
		total += m.Cost
	}
	return total
}

// Total is materials plus labor.
func (r RenovationLineItem) Total() float64 {
	return r.MaterialsTotal() + r.Labor
}
