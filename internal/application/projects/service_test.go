package projects

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"flipforma-backend/internal/application/proforma"
	"flipforma-backend/internal/domain"
	"flipforma-backend/internal/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ticking returns a clock that advances one second per call.
func ticking() func() time.Time {
	t := epoch
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func setupService(t *testing.T) *Service {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "projects.json"))
	return &Service{Store: store, Now: ticking()}
}

func ms(t time.Time) string { return strconv.FormatInt(t.UnixMilli(), 10) }

func TestSave_GeneratesIDAndTimestamp(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	p, err := s.Save(ctx, domain.NewDraft())
	require.NoError(t, err)
	want := epoch.Add(time.Second)
	assert.Equal(t, "project_"+ms(want), p.ID)
	require.NotNil(t, p.SavedAt)
	assert.True(t, p.SavedAt.Equal(want))
	assert.Equal(t, domain.ProjectSchemaVersion, p.Version)

	again, err := s.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID, "existing id is kept")
}

func TestSaveAs(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	p, err := s.SaveAs(ctx, "  Elm Street   Flip ", domain.NewDraft())
	require.NoError(t, err)
	assert.Equal(t, "project:elm-street-flip:"+ms(epoch.Add(time.Second)), p.ID)
	assert.Equal(t, "Elm Street   Flip", p.ProjectName)
	assert.Equal(t, "Elm Street   Flip", p.Inputs.ProjectName)

	_, err = s.SaveAs(ctx, "   ", domain.NewDraft())
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Elm Street   Flip": "elm-street-flip",
		"Café Row":          "caf-row",
		"a/b?c#d%e":         "a-b-c-d-e",
		"--Main St.--":      "main-st",
		"日本":                "untitled",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestLoad_RoundTripReproducesResult(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	draft := domain.NewDraft()
	draft.FinancingSources[1].Enabled = false
	saved, err := s.Save(ctx, draft)
	require.NoError(t, err)

	loaded, err := s.Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Inputs, loaded.Inputs)
	assert.Equal(t, draft.RenovationItems, loaded.RenovationItems)
	assert.Equal(t, draft.FinancingSources, loaded.FinancingSources)

	want := proforma.Compute(draft.Inputs, draft.RenovationItems, draft.FinancingSources)
	got, _, err := s.Compute(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_Errors(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	_, err := s.Load(ctx, "project_missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	require.NoError(t, s.Store.Set(ctx, "project_bad", `{"inputs":"nope"}`))
	_, err = s.Load(ctx, "project_bad")
	assert.ErrorIs(t, err, ErrMalformedProject)

	require.NoError(t, s.Store.Set(ctx, "project_future", `{"version":2}`))
	_, err = s.Load(ctx, "project_future")
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoad_UnversionedRecordIsVersionOne(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	require.NoError(t, s.Store.Set(ctx, "project_1", `{"projectName":"Old","inputs":{"purchasePrice":1}}`))

	p, err := s.Load(ctx, "project_1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Version)
	assert.Equal(t, "project_1", p.ID)
	assert.Equal(t, 1.0, p.Inputs.PurchasePrice)
}

func TestList_NewestFirstSkippingMalformed(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	first, err := s.Save(ctx, domain.NewDraft())
	require.NoError(t, err)
	second, err := s.SaveAs(ctx, "Second", domain.NewDraft())
	require.NoError(t, err)
	require.NoError(t, s.Store.Set(ctx, "project_bad", `{"renovationItems":5}`))
	require.NoError(t, s.Store.Set(ctx, "settings", `{}`))

	list, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	only, err := s.List(ctx, "project:")
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, second.ID, only[0].ID)
}

func TestDelete(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	p, err := s.Save(ctx, domain.NewDraft())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, p.ID))
	_, err = s.Load(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.NoError(t, s.Delete(ctx, p.ID))
}

func TestExport(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	p, err := s.SaveAs(ctx, "Elm Street Flip", domain.NewDraft())
	require.NoError(t, err)

	body, name, err := s.Export(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Elm-Street-Flip.json", name)
	assert.True(t, strings.HasPrefix(string(body), "{\n  \"version\": 1,"))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.NotContains(t, doc, "id")
	assert.Contains(t, doc, "exportedAt")
	assert.Equal(t, "Elm Street Flip", doc["projectName"])

	_, _, err = s.Export(ctx, "project_missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "project.json", ExportFileName(""))
	assert.Equal(t, "A-B-C.json", ExportFileName("A  B\tC"))
}

func TestImport_RoundTrip(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	draft := domain.NewDraft()
	draft.Inputs.PurchasePrice = 410000
	p, err := s.Save(ctx, draft)
	require.NoError(t, err)
	body, _, err := s.Export(ctx, p.ID)
	require.NoError(t, err)

	imported, err := s.Import(ctx, body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(imported.ID, "project:imported:"))
	assert.NotEqual(t, p.ID, imported.ID)
	require.NotNil(t, imported.ImportedAt)

	stored, err := s.Load(ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, 410000.0, stored.Inputs.PurchasePrice)
	assert.Equal(t,
		proforma.Compute(draft.Inputs, draft.RenovationItems, draft.FinancingSources),
		proforma.Compute(stored.Inputs, stored.RenovationItems, stored.FinancingSources))
}

func TestImport_MissingSectionsKeepDefaults(t *testing.T) {
	s := setupService(t)
	p, err := s.Import(context.Background(), []byte(`{"financingSources":[]}`))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRenovationItems(), p.RenovationItems)
	assert.Empty(t, p.FinancingSources)
	assert.Equal(t, domain.DefaultInputs().PurchasePrice, p.Inputs.PurchasePrice)
}

func TestImport_Rejects(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	for _, blob := range []string{"", "[]", "null", `{"inputs":`} {
		_, err := s.Import(ctx, []byte(blob))
		assert.ErrorIs(t, err, ErrMalformedProject, blob)
	}
	_, err := s.Import(ctx, []byte(`{"version":7}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestEdits_PersistThroughStore(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	p, err := s.Save(ctx, domain.NewDraft())
	require.NoError(t, err)

	hold := 20.0
	name := "Renamed"
	_, err = s.UpdateInputs(ctx, p.ID, proforma.InputsPatch{HoldPeriodWeeks: &hold, ProjectName: &name})
	require.NoError(t, err)

	_, added, err := s.AddFinancingSource(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, added.ID)

	off := false
	_, err = s.UpdateFinancingSource(ctx, p.ID, added.ID, proforma.FinancingSourcePatch{Enabled: &off})
	require.NoError(t, err)

	labor := 7000.0
	_, err = s.UpdateRenovationItem(ctx, p.ID, 2, proforma.RenovationItemPatch{Labor: &labor})
	require.NoError(t, err)

	_, err = s.AddMaterial(ctx, p.ID, 2)
	require.NoError(t, err)
	cost := 250.0
	_, err = s.UpdateMaterial(ctx, p.ID, 2, 0, proforma.MaterialPatch{Cost: &cost})
	require.NoError(t, err)

	stored, err := s.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, stored.Inputs.HoldPeriodWeeks)
	assert.Equal(t, "Renamed", stored.ProjectName)
	require.Len(t, stored.FinancingSources, 3)
	assert.False(t, stored.FinancingSources[2].Enabled)
	assert.Equal(t, 7000.0, stored.RenovationItems[1].Labor)
	assert.Equal(t, 250.0, stored.RenovationItems[1].Materials[0].Cost)

	before := len(stored.RenovationItems[1].Materials)
	after, err := s.RemoveMaterial(ctx, p.ID, 2, before-1)
	require.NoError(t, err)
	assert.Len(t, after.RenovationItems[1].Materials, before-1)
}

func TestEdits_Errors(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	p, err := s.Save(ctx, domain.NewDraft())
	require.NoError(t, err)

	_, err = s.UpdateFinancingSource(ctx, p.ID, 99, proforma.FinancingSourcePatch{})
	assert.ErrorIs(t, err, proforma.ErrSourceNotFound)
	_, err = s.AddMaterial(ctx, p.ID, 99)
	assert.ErrorIs(t, err, proforma.ErrItemNotFound)
	_, err = s.UpdateInputs(ctx, "project_missing", proforma.InputsPatch{})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestParseDocument_TopLevelNameReachesInputs(t *testing.T) {
	p, err := ParseDocument([]byte(`{"projectName":"Elm Street"}`))
	require.NoError(t, err)
	assert.Equal(t, "Elm Street", p.Inputs.ProjectName)

	p, err = ParseDocument([]byte(`{"projectName":"Elm Street","inputs":{"projectName":"Form Name"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Form Name", p.Inputs.ProjectName)
	assert.Equal(t, "Elm Street", p.ProjectName)

	s := setupService(t)
	saved, err := s.Import(context.Background(), []byte(`{"projectName":"Elm Street"}`))
	require.NoError(t, err)
	assert.Equal(t, "Elm Street", saved.ProjectName)
}

func TestParseDocument_PresentSectionsReplaceDefaultsWhole(t *testing.T) {
	p, err := ParseDocument([]byte(`{
		"renovationItems":[{"id":7,"category":"Roof","labor":100}],
		"financingSources":[{"id":9,"name":"Bridge","type":"fixed","fixedAmount":1000}]
	}`))
	require.NoError(t, err)

	require.Len(t, p.RenovationItems, 1)
	assert.Equal(t, domain.RenovationLineItem{ID: 7, Category: "Roof", Labor: 100}, p.RenovationItems[0])

	require.Len(t, p.FinancingSources, 1)
	assert.Equal(t, domain.FinancingSource{ID: 9, Name: "Bridge", Kind: domain.FinancingFixed, FixedAmount: 1000}, p.FinancingSources[0])

	assert.Equal(t, domain.DefaultInputs(), p.Inputs, "absent inputs keep the defaults")
}

func TestParseDocument_PartialInputsDoNotInheritDefaults(t *testing.T) {
	p, err := ParseDocument([]byte(`{"inputs":{"purchasePrice":100000},"renovationItems":null}`))
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyInputs{PurchasePrice: 100000}, p.Inputs)
	assert.Equal(t, domain.DefaultRenovationItems(), p.RenovationItems, "null keeps the defaults")

	_, err = ParseDocument([]byte(`{"financingSources":{"id":1}}`))
	assert.ErrorIs(t, err, ErrMalformedProject)
}
