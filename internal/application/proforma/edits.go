package proforma

import (
	"fmt"

	"flipforma-backend/internal/domain"
)

// InputField names one numeric field of PropertyInputs.
type InputField string

const (
	FieldPurchasePrice        InputField = "purchasePrice"
	FieldARVPrice             InputField = "arvPrice"
	FieldHoldPeriodWeeks      InputField = "holdPeriodWeeks"
	FieldPurchaseClosingCosts InputField = "purchaseClosingCosts"
	FieldSaleClosingCostsPct  InputField = "saleClosingCostsPct"
	FieldPropertyTaxesAnnual  InputField = "propertyTaxesAnnual"
	FieldInsuranceAnnual      InputField = "insuranceAnnual"
	FieldUtilitiesMonthly     InputField = "utilitiesMonthly"
	FieldHOAMonthly           InputField = "hoaMonthly"
	FieldContingencyPct       InputField = "contingencyPct"
)

// InputFields is every numeric field SetInput accepts, in form order.
var InputFields = []InputField{
	FieldPurchasePrice,
	FieldARVPrice,
	FieldHoldPeriodWeeks,
	FieldPurchaseClosingCosts,
	FieldSaleClosingCostsPct,
	FieldPropertyTaxesAnnual,
	FieldInsuranceAnnual,
	FieldUtilitiesMonthly,
	FieldHOAMonthly,
	FieldContingencyPct,
}

// ParseInputField maps a field name to its InputField.
func ParseInputField(name string) (InputField, error) {
	for _, f := range InputFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// SetInput returns a copy of in with one numeric field replaced.
func SetInput(in domain.PropertyInputs, field InputField, value float64) (domain.PropertyInputs, error) {
	switch field {
	case FieldPurchasePrice:
		in.PurchasePrice = value
	case FieldARVPrice:
		in.ARVPrice = value
	case FieldHoldPeriodWeeks:
		in.HoldPeriodWeeks = value
	case FieldPurchaseClosingCosts:
		in.PurchaseClosingCosts = value
	case FieldSaleClosingCostsPct:
		in.SaleClosingCostsPct = value
	case FieldPropertyTaxesAnnual:
		in.PropertyTaxesAnnual = value
	case FieldInsuranceAnnual:
		in.InsuranceAnnual = value
	case FieldUtilitiesMonthly:
		in.UtilitiesMonthly = value
	case FieldHOAMonthly:
		in.HOAMonthly = value
	case FieldContingencyPct:
		in.ContingencyPct = value
	default:
		return in, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	return in, nil
}

// InputsPatch is a partial update of PropertyInputs; nil fields are left unchanged.
type InputsPatch struct {
	ProjectName          *string  `json:"projectName"`
	PurchasePrice        *float64 `json:"purchasePrice"`
	ARVPrice             *float64 `json:"arvPrice"`
	HoldPeriodWeeks      *float64 `json:"holdPeriodWeeks"`
	PurchaseClosingCosts *float64 `json:"purchaseClosingCosts"`
	SaleClosingCostsPct  *float64 `json:"saleClosingCostsPct"`
	PropertyTaxesAnnual  *float64 `json:"propertyTaxesAnnual"`
	InsuranceAnnual      *float64 `json:"insuranceAnnual"`
	UtilitiesMonthly     *float64 `json:"utilitiesMonthly"`
	HOAMonthly           *float64 `json:"hoaMonthly"`
	ContingencyPct       *float64 `json:"contingencyPct"`
}

// Apply returns a copy of in with the patch applied.
func (p InputsPatch) Apply(in domain.PropertyInputs) domain.PropertyInputs {
	if p.ProjectName != nil {
		in.ProjectName = *p.ProjectName
	}
	setIf(&in.PurchasePrice, p.PurchasePrice)
	setIf(&in.ARVPrice, p.ARVPrice)
	setIf(&in.HoldPeriodWeeks, p.HoldPeriodWeeks)
	setIf(&in.PurchaseClosingCosts, p.PurchaseClosingCosts)
	setIf(&in.SaleClosingCostsPct, p.SaleClosingCostsPct)
	setIf(&in.PropertyTaxesAnnual, p.PropertyTaxesAnnual)
	setIf(&in.InsuranceAnnual, p.InsuranceAnnual)
	setIf(&in.UtilitiesMonthly, p.UtilitiesMonthly)
	setIf(&in.HOAMonthly, p.HOAMonthly)
	setIf(&in.ContingencyPct, p.ContingencyPct)
	return in
}

// Numbers returns the numeric values set by the patch, keyed by field, for validation.
func (p InputsPatch) Numbers() map[InputField]float64 {
	out := make(map[InputField]float64)
	pairs := []struct {
		f InputField
		v *float64
	}{
		{FieldPurchasePrice, p.PurchasePrice},
		{FieldARVPrice, p.ARVPrice},
		{FieldHoldPeriodWeeks, p.HoldPeriodWeeks},
		{FieldPurchaseClosingCosts, p.PurchaseClosingCosts},
		{FieldSaleClosingCostsPct, p.SaleClosingCostsPct},
		{FieldPropertyTaxesAnnual, p.PropertyTaxesAnnual},
		{FieldInsuranceAnnual, p.InsuranceAnnual},
		{FieldUtilitiesMonthly, p.UtilitiesMonthly},
		{FieldHOAMonthly, p.HOAMonthly},
		{FieldContingencyPct, p.ContingencyPct},
	}
	for _, pr := range pairs {
		if pr.v != nil {
			out[pr.f] = *pr.v
		}
	}
	return out
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// FinancingSourcePatch is a partial update of one financing source.
type FinancingSourcePatch struct {
	Name           *string               `json:"name"`
	Kind           *domain.FinancingKind `json:"type"`
	LTVPct         *float64              `json:"ltvPct"`
	FixedAmount    *float64              `json:"fixedAmount"`
	InterestRate   *float64              `json:"interestRate"`
	OriginationPct *float64              `json:"originationPct"`
	Enabled        *bool                 `json:"enabled"`
}

// NewFinancingSource is the source AddFinancingSource appends, before its id is assigned.
func NewFinancingSource() domain.FinancingSource {
	return domain.FinancingSource{
		Name:           "New Financing",
		Kind:           domain.FinancingFixed,
		InterestRate:   8,
		OriginationPct: 1,
		Enabled:        true,
	}
}

// AddFinancingSource returns a new slice with a default source appended under the next free id.
func AddFinancingSource(sources []domain.FinancingSource) ([]domain.FinancingSource, domain.FinancingSource) {
	next := 0
	for _, s := range sources {
		if s.ID > next {
			next = s.ID
		}
	}
	src := NewFinancingSource()
	src.ID = next + 1

	out := make([]domain.FinancingSource, 0, len(sources)+1)
	out = append(out, sources...)
	out = append(out, src)
	return out, src
}

// UpdateFinancingSource returns a new slice with the patch applied to the source with the given id.
func UpdateFinancingSource(sources []domain.FinancingSource, id int, p FinancingSourcePatch) ([]domain.FinancingSource, error) {
	if p.Kind != nil && !p.Kind.IsValid() {
		return nil, ErrInvalidSourceKind
	}
	out := make([]domain.FinancingSource, len(sources))
	copy(out, sources)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		s := &out[i]
		if p.Name != nil {
			s.Name = *p.Name
		}
		if p.Kind != nil {
			s.Kind = *p.Kind
		}
		setIf(&s.LTVPct, p.LTVPct)
		setIf(&s.FixedAmount, p.FixedAmount)
		setIf(&s.InterestRate, p.InterestRate)
		setIf(&s.OriginationPct, p.OriginationPct)
		if p.Enabled != nil {
			s.Enabled = *p.Enabled
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: id %d", ErrSourceNotFound, id)
}

// RenovationItemPatch is a partial update of a renovation item's own fields.
type RenovationItemPatch struct {
	Category *string  `json:"category"`
	Labor    *float64 `json:"labor"`
	Notes    *string  `json:"notes"`
}

// MaterialPatch is a partial update of one material.
type MaterialPatch struct {
	Name *string  `json:"name"`
	Cost *float64 `json:"cost"`
}

// UpdateRenovationItem returns a new slice with the patch applied to the item with the given id.
func UpdateRenovationItem(items []domain.RenovationLineItem, id int, p RenovationItemPatch) ([]domain.RenovationLineItem, error) {
	return editItem(items, id, func(item *domain.RenovationLineItem) error {
		if p.Category != nil {
			item.Category = *p.Category
		}
		setIf(&item.Labor, p.Labor)
		if p.Notes != nil {
			item.Notes = *p.Notes
		}
		return nil
	})
}

// AddMaterial appends a zero-cost "New Material" to the item.
func AddMaterial(items []domain.RenovationLineItem, itemID int) ([]domain.RenovationLineItem, error) {
	return editItem(items, itemID, func(item *domain.RenovationLineItem) error {
		item.Materials = append(item.Materials, domain.Material{Name: "New Material", Cost: 0})
		return nil
	})
}

// UpdateMaterial patches the material at idx of the item.
func UpdateMaterial(items []domain.RenovationLineItem, itemID, idx int, p MaterialPatch) ([]domain.RenovationLineItem, error) {
	return editItem(items, itemID, func(item *domain.RenovationLineItem) error {
		if idx < 0 || idx >= len(item.Materials) {
			return fmt.Errorf("%w: index %d", ErrMaterialNotFound, idx)
		}
		if p.Name != nil {
			item.Materials[idx].Name = *p.Name
		}
		setIf(&item.Materials[idx].Cost, p.Cost)
		return nil
	})
}

// RemoveMaterial drops the material at idx. An item always keeps at least one material,
// so removing the last one leaves the item unchanged.
func RemoveMaterial(items []domain.RenovationLineItem, itemID, idx int) ([]domain.RenovationLineItem, error) {
	return editItem(items, itemID, func(item *domain.RenovationLineItem) error {
		if idx < 0 || idx >= len(item.Materials) {
			return fmt.Errorf("%w: index %d", ErrMaterialNotFound, idx)
		}
		if len(item.Materials) <= 1 {
			return nil
		}
		kept := make([]domain.Material, 0, len(item.Materials)-1)
		kept = append(kept, item.Materials[:idx]...)
		kept = append(kept, item.Materials[idx+1:]...)
		item.Materials = kept
		return nil
	})
}

// editItem copies the slice and the target item's materials before handing the item to fn,
// so callers' slices are never mutated.
func editItem(items []domain.RenovationLineItem, id int, fn func(*domain.RenovationLineItem) error) ([]domain.RenovationLineItem, error) {
	out := make([]domain.RenovationLineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		mats := make([]domain.Material, len(out[i].Materials))
		copy(mats, out[i].Materials)
		out[i].Materials = mats
		if err := fn(&out[i]); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
}
