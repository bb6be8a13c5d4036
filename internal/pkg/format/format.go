// Package format renders pro forma figures for people: whole US dollars and one-decimal percents.
package format

import (
	"math"
	"strconv"
	"strings"

	"flipforma-backend/internal/application/proforma"
	"flipforma-backend/internal/domain"

	"github.com/Rhymond/go-money"
)

// NotAvailable is shown in place of a figure that is NaN or infinite.
const NotAvailable = "n/a"

var dollars = func() *money.Formatter {
	usd := money.GetCurrency(money.USD)
	return money.NewFormatter(0, usd.Decimal, usd.Thousand, usd.Grapheme, usd.Template)
}()

// Currency formats v as whole dollars with thousands separators, e.g. "-$1,235".
// Halves round away from zero.
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	r := math.Round(v)
	if math.Abs(r) >= math.MaxInt64 {
		return bigDollars(r)
	}
	return dollars.Format(int64(r))
}

// bigDollars formats whole amounts too large for go-money's int64 minor units.
func bigDollars(r float64) string {
	digits := strconv.FormatFloat(math.Abs(r), 'f', 0, 64)
	var b strings.Builder
	if r < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// Percent formats v with one decimal and a trailing '%'. Exact ties round away from zero.
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return oneDecimal(v) + "%"
}

func oneDecimal(v float64) string {
	a := math.Abs(v)
	if a >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	t := a * 10
	// strconv breaks exact ties toward even; only a product that is exact can be a true tie.
	if t-math.Floor(t) == 0.5 && math.FMA(a, 10, -t) == 0 {
		s := strconv.FormatFloat((math.Floor(t)+1)/10, 'f', 1, 64)
		if v < 0 {
			return "-" + s
		}
		return s
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Summary is the headline view of a result, as shown on the dashboard cards and cost breakdown.
type Summary struct {
	NetProfit           string `json:"netProfit"`
	ROI                 string `json:"roi"`
	IRR                 string `json:"irr"`
	TotalEquity         string `json:"totalEquity"`
	PurchasePrice       string `json:"purchasePrice"`
	TotalRenovation     string `json:"totalRenovation"`
	TotalHoldingCosts   string `json:"totalHoldingCosts"`
	TotalFinancingCosts string `json:"totalFinancingCosts"`
	TotalCosts          string `json:"totalCosts"`
	SalePrice           string `json:"salePrice"`
	SaleClosingCosts    string `json:"saleClosingCosts"`
	NetSaleProceeds     string `json:"netSaleProceeds"`
}

func Summarize(in domain.PropertyInputs, r proforma.Result) Summary {
	return Summary{
		NetProfit:           Currency(r.NetProfit),
		ROI:                 Percent(r.ROI),
		IRR:                 Percent(r.IRR),
		TotalEquity:         Currency(r.TotalEquity),
		PurchasePrice:       Currency(in.PurchasePrice),
		TotalRenovation:     Currency(r.TotalRenovation),
		TotalHoldingCosts:   Currency(r.TotalHoldingCosts),
		TotalFinancingCosts: Currency(r.TotalFinancingCosts),
		TotalCosts:          Currency(r.TotalCosts),
		SalePrice:           Currency(in.ARVPrice),
		SaleClosingCosts:    Currency(r.SaleClosingCosts),
		NetSaleProceeds:     Currency(r.NetSaleProceeds),
	}
}
