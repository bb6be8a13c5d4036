// Package validation holds request-level checks. The calculator itself accepts anything;
// these produce messages for callers and never block a computation.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"flipforma-backend/internal/domain"
)

// MaxProjectNameLength bounds names used to build project ids and export file names.
const MaxProjectNameLength = 120

// Issue points at one questionable field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// IsValidProjectName requires a non-blank name of bounded length without control characters.
func IsValidProjectName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxProjectNameLength {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func IsValidSourceKind(kind string) bool {
	return domain.FinancingKind(kind).IsValid()
}

// CheckNumber reports a non-finite or negative value under field.
func CheckNumber(field string, v float64) *Issue {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &Issue{Field: field, Message: "must be a finite number"}
	case v < 0:
		return &Issue{Field: field, Message: "is negative"}
	}
	return nil
}

func CheckInputs(in domain.PropertyInputs) []Issue {
	var issues []Issue
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"purchasePrice", in.PurchasePrice},
		{"arvPrice", in.ARVPrice},
		{"holdPeriodWeeks", in.HoldPeriodWeeks},
		{"purchaseClosingCosts", in.PurchaseClosingCosts},
		{"saleClosingCostsPct", in.SaleClosingCostsPct},
		{"propertyTaxesAnnual", in.PropertyTaxesAnnual},
		{"insuranceAnnual", in.InsuranceAnnual},
		{"utilitiesMonthly", in.UtilitiesMonthly},
		{"hoaMonthly", in.HOAMonthly},
		{"contingencyPct", in.ContingencyPct},
	} {
		if is := CheckNumber("inputs."+f.name, f.v); is != nil {
			issues = append(issues, *is)
		}
	}
	if in.HoldPeriodWeeks == 0 {
		issues = append(issues, Issue{Field: "inputs.holdPeriodWeeks", Message: "is zero; annualized return is unavailable"})
	}
	return issues
}

func CheckRenovationItems(items []domain.RenovationLineItem) []Issue {
	var issues []Issue
	for _, item := range items {
		prefix := fmt.Sprintf("renovationItems[%d]", item.ID)
		if is := CheckNumber(prefix+".labor", item.Labor); is != nil {
			issues = append(issues, *is)
		}
		for i, m := range item.Materials {
			if is := CheckNumber(fmt.Sprintf("%s.materials[%d].cost", prefix, i), m.Cost); is != nil {
				issues = append(issues, *is)
			}
		}
	}
	return issues
}

func CheckFinancingSources(sources []domain.FinancingSource) []Issue {
	var issues []Issue
	for _, s := range sources {
		prefix := fmt.Sprintf("financingSources[%d]", s.ID)
		if !s.Kind.IsValid() {
			issues = append(issues, Issue{Field: prefix + ".type", Message: fmt.Sprintf("unknown type %q, sized as fixed", s.Kind)})
		}
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"ltvPct", s.LTVPct},
			{"fixedAmount", s.FixedAmount},
			{"interestRate", s.InterestRate},
			{"originationPct", s.OriginationPct},
		} {
			if is := CheckNumber(prefix+"."+f.name, f.v); is != nil {
				issues = append(issues, *is)
			}
		}
	}
	return issues
}

// CheckProject runs every check over a project's sections.
func CheckProject(in domain.PropertyInputs, items []domain.RenovationLineItem, sources []domain.FinancingSource) []Issue {
	issues := CheckInputs(in)
	issues = append(issues, CheckRenovationItems(items)...)
	issues = append(issues, CheckFinancingSources(sources)...)
	if issues == nil {
		issues = []Issue{}
	}
	return issues
}
