package proforma

import (
	"testing"

	"flipforma-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestSetInput(t *testing.T) {
	in := domain.DefaultInputs()
	out, err := SetInput(in, FieldHoldPeriodWeeks, 20)
	require.NoError(t, err)
	assert.Equal(t, 20.0, out.HoldPeriodWeeks)
	assert.Equal(t, 36.0, in.HoldPeriodWeeks, "original snapshot untouched")

	_, err = SetInput(in, InputField("bogus"), 1)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSetInput_EveryFieldIsSettable(t *testing.T) {
	for _, f := range InputFields {
		_, err := SetInput(domain.PropertyInputs{}, f, 1)
		assert.NoError(t, err, string(f))
	}
}

func TestParseInputField(t *testing.T) {
	f, err := ParseInputField("arvPrice")
	require.NoError(t, err)
	assert.Equal(t, FieldARVPrice, f)

	_, err = ParseInputField("projectName")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestInputsPatch_Apply(t *testing.T) {
	in := domain.DefaultInputs()
	p := InputsPatch{ProjectName: ptr("Elm St"), PurchasePrice: ptr(300000.0), HOAMonthly: ptr(50.0)}
	out := p.Apply(in)

	assert.Equal(t, "Elm St", out.ProjectName)
	assert.Equal(t, 300000.0, out.PurchasePrice)
	assert.Equal(t, 50.0, out.HOAMonthly)
	assert.Equal(t, in.ARVPrice, out.ARVPrice)
	assert.Equal(t, map[InputField]float64{FieldPurchasePrice: 300000, FieldHOAMonthly: 50}, p.Numbers())
}

func TestAddFinancingSource(t *testing.T) {
	sources := domain.DefaultFinancingSources()
	out, added := AddFinancingSource(sources)

	require.Len(t, out, 3)
	assert.Len(t, sources, 2)
	assert.Equal(t, 3, added.ID)
	assert.Equal(t, "New Financing", added.Name)
	assert.Equal(t, domain.FinancingFixed, added.Kind)
	assert.Equal(t, 8.0, added.InterestRate)
	assert.True(t, added.Enabled)

	_, first := AddFinancingSource(nil)
	assert.Equal(t, 1, first.ID)
}

func TestUpdateFinancingSource(t *testing.T) {
	sources := domain.DefaultFinancingSources()
	out, err := UpdateFinancingSource(sources, 2, FinancingSourcePatch{Enabled: ptr(false), InterestRate: ptr(11.0)})
	require.NoError(t, err)
	assert.False(t, out[1].Enabled)
	assert.Equal(t, 11.0, out[1].InterestRate)
	assert.True(t, sources[1].Enabled, "input slice untouched")

	_, err = UpdateFinancingSource(sources, 42, FinancingSourcePatch{})
	assert.ErrorIs(t, err, ErrSourceNotFound)

	kind := domain.FinancingKind("equity")
	_, err = UpdateFinancingSource(sources, 1, FinancingSourcePatch{Kind: &kind})
	assert.ErrorIs(t, err, ErrInvalidSourceKind)
}

func TestRenovationItemEdits(t *testing.T) {
	items := domain.DefaultRenovationItems()

	out, err := UpdateRenovationItem(items, 1, RenovationItemPatch{Labor: ptr(6000.0), Notes: ptr("1,400 sq ft")})
	require.NoError(t, err)
	assert.Equal(t, 6000.0, out[0].Labor)
	assert.Equal(t, "1,400 sq ft", out[0].Notes)
	assert.Equal(t, 5300.0, items[0].Labor)

	_, err = UpdateRenovationItem(items, 99, RenovationItemPatch{})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMaterialEdits(t *testing.T) {
	items := domain.DefaultRenovationItems()

	out, err := AddMaterial(items, 3)
	require.NoError(t, err)
	require.Len(t, out[2].Materials, 3)
	assert.Equal(t, domain.Material{Name: "New Material", Cost: 0}, out[2].Materials[2])
	assert.Len(t, items[2].Materials, 2)

	out, err = UpdateMaterial(out, 3, 2, MaterialPatch{Name: ptr("Backsplash"), Cost: ptr(900.0)})
	require.NoError(t, err)
	assert.Equal(t, domain.Material{Name: "Backsplash", Cost: 900}, out[2].Materials[2])

	_, err = UpdateMaterial(out, 3, 5, MaterialPatch{})
	assert.ErrorIs(t, err, ErrMaterialNotFound)

	out, err = RemoveMaterial(out, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.Material{{Name: "Countertops", Cost: 3200}, {Name: "Backsplash", Cost: 900}}, out[2].Materials)
}

func TestRemoveMaterial_KeepsLastOne(t *testing.T) {
	items := []domain.RenovationLineItem{{ID: 1, Materials: []domain.Material{{Name: "Only", Cost: 10}}}}
	out, err := RemoveMaterial(items, 1, 0)
	require.NoError(t, err)
	assert.Len(t, out[0].Materials, 1)
}
