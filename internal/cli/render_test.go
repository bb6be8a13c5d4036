package cli

import (
	"math"
	"strings"
	"testing"
	"time"

	"flipforma-backend/internal/application/proforma"
	"flipforma-backend/internal/domain"
	"flipforma-backend/internal/pkg/validation"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Costs",
		Headers: []string{"Line", "Amount"},
		Rows: [][]string{
			{"Purchase Price", "$432,910"},
			{"---"},
			{"HOA", "$0"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "Costs")
	width := lipgloss.Width(lines[1])
	for _, l := range lines[1:] {
		assert.Equal(t, width, lipgloss.Width(l), "%q", l)
	}
	assert.True(t, strings.HasPrefix(lines[1], "╭"))
	assert.True(t, strings.HasPrefix(lines[5], "├"), "separator row")
	assert.Contains(t, lines[6], "      $0 │", "amounts are right-aligned")
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Equal(t, "", RenderTable(Table{}))
}

func TestRenderProforma_Defaults(t *testing.T) {
	d := domain.NewDraft()
	out := RenderProforma("Elm Street", d.Inputs, d.RenovationItems, d.FinancingSources)

	for _, want := range []string{"PRO FORMA  Elm Street", "$60,519", "43.6%", "68.6%", "$138,799", "$503,481", "Kitchen"} {
		assert.Contains(t, out, want)
	}
}

func TestFinancingTable_DisabledSourceHasNoFigures(t *testing.T) {
	sources := domain.DefaultFinancingSources()
	sources[1].Enabled = false
	r := proforma.Compute(domain.DefaultInputs(), nil, sources)

	tbl := FinancingTable(sources, r)
	require.Len(t, tbl.Rows, len(sources)+2)
	assert.Contains(t, tbl.Rows[1][0], "(off)")
	assert.Equal(t, "", tbl.Rows[1][2])
	assert.NotEqual(t, "", tbl.Rows[0][2])
}

func TestFinancingTable_NoSources(t *testing.T) {
	r := proforma.Compute(domain.DefaultInputs(), nil, nil)
	assert.Empty(t, FinancingTable(nil, r).Rows)
}

func TestRenderIssues(t *testing.T) {
	assert.Equal(t, "", RenderIssues(nil))
	out := RenderIssues([]validation.Issue{{Field: "holdPeriodWeeks", Message: "is zero"}})
	assert.Contains(t, out, "holdPeriodWeeks: is zero")
}

func TestProjectsTable(t *testing.T) {
	saved := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := domain.NewDraft()
	p.ID = "project_1"
	p.ProjectName = "A very long project name that will not fit"
	p.SavedAt = &saved

	tbl := ProjectsTable([]domain.Project{p})
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "project_1", tbl.Rows[0][1])
	assert.Equal(t, 28, len([]rune(tbl.Rows[0][0])))
	assert.Equal(t, "$60,519", tbl.Rows[0][3])
	assert.Equal(t, "Projects (1)", tbl.Title)
}

func TestHoldingTable_NonFiniteShowsNotAvailable(t *testing.T) {
	in := domain.DefaultInputs()
	in.HOAMonthly = math.NaN()
	tbl := HoldingTable(proforma.Compute(in, nil, nil))
	assert.Equal(t, "n/a", tbl.Rows[3][1])
	assert.Equal(t, "Holding Costs (8.31 months)", tbl.Title)
}
