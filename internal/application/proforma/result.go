package proforma

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// FinancingDetail is the computed cost of one enabled financing source.
type FinancingDetail struct {
	SourceID    int     `json:"sourceId"`
	Name        string  `json:"name"`
	LoanAmount  float64 `json:"loanAmount"`
	Origination float64 `json:"origination"`
	Interest    float64 `json:"interest"`
	Total       float64 `json:"total"`
}

// HoldingCosts breaks the carrying costs down by line.
type HoldingCosts struct {
	PropertyTaxes float64 `json:"propertyTaxes"`
	Insurance     float64 `json:"insurance"`
	Utilities     float64 `json:"utilities"`
	HOA           float64 `json:"hoa"`
	Total         float64 `json:"total"`
}

// Result is the derived pro forma. It is never persisted.
//
// FinancingDetails lists enabled sources in list order; disabled sources are omitted.
// FinancingBySource keys the same details by source id.
// ROI is the whole-period return on equity in percent. IRR is ROI compounded to an annual
// rate, ((1+ROI/100)^(12/HoldMonths) - 1) * 100, not a cash-flow internal rate of return.
type Result struct {
	BaseRenovation      float64
	Contingency         float64
	TotalRenovation     float64
	Holding             HoldingCosts
	TotalHoldingCosts   float64
	FinancingDetails    []FinancingDetail
	FinancingBySource   map[int]FinancingDetail
	TotalLoanAmount     float64
	TotalFinancingCosts float64
	TotalCosts          float64
	SaleClosingCosts    float64
	NetSaleProceeds     float64
	NetProfit           float64
	TotalEquity         float64
	ROI                 float64
	IRR                 float64
	HoldMonths          float64
}

// Detail returns the financing detail of an enabled source.
func (r Result) Detail(sourceID int) (FinancingDetail, bool) {
	d, ok := r.FinancingBySource[sourceID]
	return d, ok
}

// Unavailable lists the top-level figures that are NaN or infinite, by JSON name.
func (r Result) Unavailable() []string {
	var out []string
	for _, f := range r.figures() {
		if !finite(f.value) {
			out = append(out, f.name)
		}
	}
	return out
}

type namedFigure struct {
	name  string
	value float64
}

func (r Result) figures() []namedFigure {
	return []namedFigure{
		{"baseRenovation", r.BaseRenovation},
		{"contingency", r.Contingency},
		{"totalRenovation", r.TotalRenovation},
		{"totalHoldingCosts", r.TotalHoldingCosts},
		{"totalLoanAmount", r.TotalLoanAmount},
		{"totalFinancingCosts", r.TotalFinancingCosts},
		{"totalCosts", r.TotalCosts},
		{"saleClosingCosts", r.SaleClosingCosts},
		{"netSaleProceeds", r.NetSaleProceeds},
		{"netProfit", r.NetProfit},
		{"totalEquity", r.TotalEquity},
		{"roi", r.ROI},
		{"irr", r.IRR},
		{"holdMonths", r.HoldMonths},
	}
}

// MarshalJSON writes non-finite figures as null (encoding/json rejects NaN and Inf) and names
// them in "unavailable".
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 20)
	for _, f := range r.figures() {
		out[f.name] = nullable(f.value)
	}
	out["holding"] = map[string]interface{}{
		"propertyTaxes": nullable(r.Holding.PropertyTaxes),
		"insurance":     nullable(r.Holding.Insurance),
		"utilities":     nullable(r.Holding.Utilities),
		"hoa":           nullable(r.Holding.HOA),
		"total":         nullable(r.Holding.Total),
	}

	details := make([]map[string]interface{}, 0, len(r.FinancingDetails))
	for _, d := range r.FinancingDetails {
		details = append(details, detailJSON(d))
	}
	out["financingDetails"] = details

	ids := make([]int, 0, len(r.FinancingBySource))
	for id := range r.FinancingBySource {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	bySource := make(map[string]interface{}, len(ids))
	for _, id := range ids {
		bySource[strconv.Itoa(id)] = detailJSON(r.FinancingBySource[id])
	}
	out["financingBySource"] = bySource

	unavailable := r.Unavailable()
	if unavailable == nil {
		unavailable = []string{}
	}
	out["unavailable"] = unavailable
	return json.Marshal(out)
}

func detailJSON(d FinancingDetail) map[string]interface{} {
	return map[string]interface{}{
		"sourceId":    d.SourceID,
		"name":        d.Name,
		"loanAmount":  nullable(d.LoanAmount),
		"origination": nullable(d.Origination),
		"interest":    nullable(d.Interest),
		"total":       nullable(d.Total),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nullable(v float64) interface{} {
	if !finite(v) {
		return nil
	}
	return v
}
