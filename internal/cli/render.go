// Package cli renders pro formas and project lists for terminal output.
package cli

import (
	"fmt"
	"strings"

	"flipforma-backend/internal/application/proforma"
	"flipforma-backend/internal/domain"
	"flipforma-backend/internal/pkg/format"
	"flipforma-backend/internal/pkg/validation"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	profitStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	lossStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2).
			Width(16)
)

// Table is a bordered text table. The first column is left-aligned, the rest are right-aligned.
// A row holding the single cell "---" renders as a separator.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders t, or "" when it has neither headers nor rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			continue
		}
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], i > 0)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], i > 0)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}
	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == "---"
}

// pad surrounds cell with one space either side, padded to w visible columns.
func pad(cell string, w int, right bool) string {
	fill := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
	if right {
		return " " + fill + cell + " "
	}
	return " " + cell + fill + " "
}

func rule(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	return dimStyle.Render(b.String()) + "\n"
}

// RenderCards lays the headline figures out side by side.
func RenderCards(s format.Summary, netProfit float64) string {
	profit := profitStyle
	if netProfit < 0 {
		profit = lossStyle
	}
	card := func(label, value string, style lipgloss.Style) string {
		return cardStyle.Render(mutedStyle.Render(label) + "\n" + style.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Net Profit", s.NetProfit, profit),
		card("ROI", s.ROI, profit),
		card("Annualized", s.IRR, profit),
		card("Equity", s.TotalEquity, headerStyle),
	)
}

// CostBreakdown lists the cost lines that make up total costs, then the sale side.
func CostBreakdown(in domain.PropertyInputs, r proforma.Result) Table {
	s := format.Summarize(in, r)
	return Table{
		Title:   "Cost Breakdown",
		Headers: []string{"Line", "Amount"},
		Rows: [][]string{
			{"Purchase Price", s.PurchasePrice},
			{"Purchase Closing", format.Currency(in.PurchaseClosingCosts)},
			{"Renovation", format.Currency(r.BaseRenovation)},
			{fmt.Sprintf("Contingency (%s)", format.Percent(in.ContingencyPct)), format.Currency(r.Contingency)},
			{"Holding", s.TotalHoldingCosts},
			{"Financing", s.TotalFinancingCosts},
			{"---"},
			{"Total Costs", s.TotalCosts},
			{"---"},
			{"Sale Price", s.SalePrice},
			{fmt.Sprintf("Sale Closing (%s)", format.Percent(in.SaleClosingCostsPct)), s.SaleClosingCosts},
			{"Net Sale Proceeds", s.NetSaleProceeds},
		},
	}
}

// HoldingTable breaks holding costs down by line for the hold period.
func HoldingTable(r proforma.Result) Table {
	h := r.Holding
	return Table{
		Title:   fmt.Sprintf("Holding Costs (%s months)", trimFloat(r.HoldMonths)),
		Headers: []string{"Line", "Amount"},
		Rows: [][]string{
			{"Property Taxes", format.Currency(h.PropertyTaxes)},
			{"Insurance", format.Currency(h.Insurance)},
			{"Utilities", format.Currency(h.Utilities)},
			{"HOA", format.Currency(h.HOA)},
			{"---"},
			{"Total", format.Currency(h.Total)},
		},
	}
}

// FinancingTable shows every source; disabled ones are marked and carry no figures.
func FinancingTable(sources []domain.FinancingSource, r proforma.Result) Table {
	rows := make([][]string, 0, len(sources)+2)
	for _, s := range sources {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Source %d", s.ID)
		}
		d, ok := r.Detail(s.ID)
		if !s.Enabled || !ok {
			rows = append(rows, []string{mutedStyle.Render(name + " (off)"), s.Kind.Label(), "", "", "", ""})
			continue
		}
		rows = append(rows, []string{
			name,
			s.Kind.Label(),
			format.Currency(d.LoanAmount),
			format.Currency(d.Origination),
			format.Currency(d.Interest),
			format.Currency(d.Total),
		})
	}
	if len(rows) > 0 {
		rows = append(rows, []string{"---"}, []string{
			"Total", "", format.Currency(r.TotalLoanAmount), "", "", format.Currency(r.TotalFinancingCosts),
		})
	}
	return Table{
		Title:   "Financing",
		Headers: []string{"Source", "Type", "Loan", "Origination", "Interest", "Cost"},
		Rows:    rows,
	}
}

// RenovationTable lists line items with their material and labor totals.
func RenovationTable(items []domain.RenovationLineItem, r proforma.Result) Table {
	rows := make([][]string, 0, len(items)+4)
	for _, it := range items {
		rows = append(rows, []string{
			truncate(it.Category, 24),
			format.Currency(it.MaterialsTotal()),
			format.Currency(it.Labor),
			format.Currency(it.Total()),
		})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Subtotal", "", "", format.Currency(r.BaseRenovation)},
		[]string{"Contingency", "", "", format.Currency(r.Contingency)},
		[]string{"Total", "", "", format.Currency(r.TotalRenovation)},
	)
	return Table{
		Title:   "Renovation",
		Headers: []string{"Category", "Materials", "Labor", "Total"},
		Rows:    rows,
	}
}

// RenderIssues lists input warnings, or "" when there are none.
func RenderIssues(issues []validation.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	var b strings.Builder
	for _, is := range issues {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  ! %s: %s", is.Field, is.Message)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderProforma renders the full terminal pro forma for one scenario.
func RenderProforma(name string, in domain.PropertyInputs, items []domain.RenovationLineItem, sources []domain.FinancingSource) string {
	r := proforma.Compute(in, items, sources)
	if name == "" {
		name = "Untitled"
	}

	var b strings.Builder
	b.WriteString(RenderTitle("PRO FORMA  " + name))
	b.WriteString("\n")
	b.WriteString(RenderCards(format.Summarize(in, r), r.NetProfit))
	b.WriteString("\n")
	b.WriteString(RenderIssues(validation.CheckProject(in, items, sources)))
	b.WriteString("\n")
	b.WriteString(RenderTable(CostBreakdown(in, r)))
	b.WriteString("\n")
	b.WriteString(RenderTable(HoldingTable(r)))
	b.WriteString("\n")
	b.WriteString(RenderTable(FinancingTable(sources, r)))
	b.WriteString("\n")
	b.WriteString(RenderTable(RenovationTable(items, r)))
	return b.String()
}

// ProjectsTable lists saved projects newest first.
func ProjectsTable(list []domain.Project) Table {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		saved := ""
		if p.SavedAt != nil {
			saved = p.SavedAt.Local().Format("2006-01-02 15:04")
		}
		r := proforma.Compute(p.Inputs, p.RenovationItems, p.FinancingSources)
		rows = append(rows, []string{
			truncate(p.Name(), 28),
			p.ID,
			saved,
			format.Currency(r.NetProfit),
			format.Percent(r.ROI),
		})
	}
	return Table{
		Title:   fmt.Sprintf("Projects (%d)", len(list)),
		Headers: []string{"Name", "ID", "Saved", "Net Profit", "ROI"},
		Rows:    rows,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
