// Package proforma computes the fix-and-flip pro forma from a project's inputs, renovation
// budget and financing sources. Compute is pure: no I/O, no shared state, no errors. Malformed
// numbers (NaN, Inf, negatives) flow through the arithmetic and show up as non-finite figures.
package proforma

import (
	"math"

	"flipforma-backend/internal/domain"
)

// WeeksPerMonth converts the hold period to months. It is a fixed approximation,
// not a calendar-accurate figure.
const WeeksPerMonth = 4.33

// Compute derives the full pro forma. Operation order matches the web app so results agree
// bit-for-bit; explicit float64 conversions keep products from being fused into the adds that follow.
func Compute(in domain.PropertyInputs, items []domain.RenovationLineItem, sources []domain.FinancingSource) Result {
	var r Result

	// Renovation
	for _, item := range items {
		r.BaseRenovation = r.BaseRenovation + item.MaterialsTotal() + item.Labor
	}
	r.Contingency = float64(r.BaseRenovation * (in.ContingencyPct / 100))
	r.TotalRenovation = r.BaseRenovation + r.Contingency

	// Holding
	r.HoldMonths = in.HoldPeriodWeeks / WeeksPerMonth
	r.Holding = holdingCosts(in, r.HoldMonths)
	r.TotalHoldingCosts = r.Holding.Total

	// Financing
	r.FinancingDetails = make([]FinancingDetail, 0, len(sources))
	r.FinancingBySource = make(map[int]FinancingDetail, len(sources))
	for _, s := range sources {
		if !s.Enabled {
			continue
		}
		d := financingDetail(in.PurchasePrice, s, r.HoldMonths)
		r.FinancingDetails = append(r.FinancingDetails, d)
		r.FinancingBySource[s.ID] = d
	}
	for _, d := range r.FinancingDetails {
		r.TotalLoanAmount += d.LoanAmount
	}
	for _, d := range r.FinancingDetails {
		r.TotalFinancingCosts += d.Total
	}

	// Cost stack and sale
	r.TotalCosts = in.PurchasePrice + in.PurchaseClosingCosts + r.TotalRenovation + r.TotalHoldingCosts + r.TotalFinancingCosts
	r.SaleClosingCosts = float64(in.ARVPrice * (in.SaleClosingCostsPct / 100))
	r.NetSaleProceeds = in.ARVPrice - r.SaleClosingCosts

	// Returns
	r.NetProfit = r.NetSaleProceeds - r.TotalCosts
	r.TotalEquity = r.TotalCosts - r.TotalLoanAmount
	r.ROI = (r.NetProfit / r.TotalEquity) * 100
	years := r.HoldMonths / 12
	r.IRR = (jsPow(1+(r.ROI/100), 1/years) - 1) * 100

	return r
}

func holdingCosts(in domain.PropertyInputs, holdMonths float64) HoldingCosts {
	h := HoldingCosts{
		PropertyTaxes: float64((in.PropertyTaxesAnnual / 12) * holdMonths),
		Insurance:     float64((in.InsuranceAnnual / 12) * holdMonths),
		Utilities:     float64(in.UtilitiesMonthly * holdMonths),
		HOA:           float64(in.HOAMonthly * holdMonths),
	}
	h.Total = h.PropertyTaxes + h.Insurance + h.Utilities + h.HOA
	return h
}

// financingDetail prices one source with simple, non-amortizing interest prorated over the hold.
// Any kind other than ltv is sized by its fixed amount.
func financingDetail(purchasePrice float64, s domain.FinancingSource, holdMonths float64) FinancingDetail {
	loan := s.FixedAmount
	if s.Kind == domain.FinancingLTV {
		loan = float64(purchasePrice * (s.LTVPct / 100))
	}
	origination := float64(loan * (s.OriginationPct / 100))
	interest := float64(loan * (s.InterestRate / 100) * (holdMonths / 12))
	return FinancingDetail{
		SourceID:    s.ID,
		Name:        s.Name,
		LoanAmount:  loan,
		Origination: origination,
		Interest:    interest,
		Total:       origination + interest,
	}
}

// jsPow is math.Pow with ECMAScript Math.pow special cases: a NaN exponent is always NaN
// and ±1 raised to ±Inf is NaN (math.Pow returns 1 for both).
func jsPow(x, y float64) float64 {
	switch {
	case math.IsNaN(y):
		return math.NaN()
	case y == 0:
		return 1
	case (x == 1 || x == -1) && math.IsInf(y, 0):
		return math.NaN()
	}
	return math.Pow(x, y)
}
