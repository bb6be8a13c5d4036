package domain

// DefaultInputs returns the inputs a new project starts with.
func DefaultInputs() PropertyInputs {
	return PropertyInputs{
		ProjectName:          "Terrace Way",
		PurchasePrice:        432910,
		ARVPrice:             600000,
		HoldPeriodWeeks:      36,
		PurchaseClosingCosts: 4329,
		SaleClosingCostsPct:  6,
		PropertyTaxesAnnual:  4500,
		InsuranceAnnual:      4500,
		UtilitiesMonthly:     200,
		HOAMonthly:           0,
		ContingencyPct:       10,
	}
}

// DefaultRenovationItems returns the starter renovation budget.
func DefaultRenovationItems() []RenovationLineItem {
	return []RenovationLineItem{
		{
			ID:       1,
			Category: "Flooring",
			Materials: []Material{
				{Name: "Tiles", Cost: 3500},
				{Name: "Underlayment", Cost: 800},
			},
			Labor: 5300,
			Notes: "1,200 sq ft",
		},
		{
			ID:       2,
			Category: "Paint",
			Materials: []Material{
				{Name: "Interior Paint", Cost: 2800},
				{Name: "Primer", Cost: 600},
			},
			Labor: 4200,
			Notes: "Entire interior",
		},
		{
			ID:       3,
			Category: "Kitchen",
			Materials: []Material{
				{Name: "Cabinets", Cost: 6500},
				{Name: "Countertops", Cost: 3200},
			},
			Labor: 1700,
			Notes: "Full remodel",
		},
		{
			ID:       4,
			Category: "Bathroom",
			Materials: []Material{
				{Name: "Vanity", Cost: 1200},
				{Name: "Toilet", Cost: 400},
			},
			Labor: 800,
			Notes: "2 bathrooms",
		},
	}
}

// DefaultFinancingSources returns a senior LTV mortgage plus a fixed hard-money loan.
func DefaultFinancingSources() []FinancingSource {
	return []FinancingSource{
		{
			ID:             1,
			Name:           "Senior Mortgage",
			Kind:           FinancingLTV,
			LTVPct:         75,
			InterestRate:   7.5,
			OriginationPct: 1,
			Enabled:        true,
		},
		{
			ID:             2,
			Name:           "Hard Money",
			Kind:           FinancingFixed,
			FixedAmount:    40000,
			InterestRate:   12,
			OriginationPct: 2,
			Enabled:        true,
		},
	}
}

// NewDraft returns an unsaved project populated with the defaults.
func NewDraft() Project {
	in := DefaultInputs()
	return Project{
		Version:          ProjectSchemaVersion,
		ProjectName:      in.ProjectName,
		Inputs:           in,
		RenovationItems:  DefaultRenovationItems(),
		FinancingSources: DefaultFinancingSources(),
	}
}
