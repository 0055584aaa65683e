// Package report renders valuation reports as plain text, JSON or a
// self-contained HTML page with SVG growth charts. Amounts use Indian
// formatting.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/pkg/models"
	"github.com/seenimoa/compounder/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator
// ════════════════════════════════════════════════════════════════════

// Format specifies the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatHTML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, json or html)", s)
}

// Config controls report generation behaviour.
type Config struct {
	Title      string      // custom report title (optional)
	ShowTables bool        // include the full statement tables
	ChartCfg   ChartConfig // chart rendering config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ShowTables: true,
		ChartCfg:   DefaultChartConfig(),
	}
}

// SectionTitle is the display name of a statement section.
func SectionTitle(section string) string {
	switch document.SectionKey(section) {
	case document.SectionQuarters:
		return "Quarterly Results"
	case document.SectionProfitLoss:
		return "Profit & Loss"
	case document.SectionBalanceSheet:
		return "Balance Sheet"
	case document.SectionCashFlow:
		return "Cash Flows"
	case document.SectionRatios:
		return "Ratios"
	case document.SectionShareholding:
		return "Shareholding Pattern"
	}
	return section
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *models.Report, format Format, cfg Config) error {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatJSON:
		out, err = GenerateJSON(r)
	case FormatHTML:
		var s string
		s, err = GenerateHTML(r, cfg)
		out = []byte(s)
	default:
		var s string
		s, err = GenerateText(r, cfg)
		out = []byte(s)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// GenerateJSON encodes the report as indented JSON.
func GenerateJSON(r *models.Report) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("report is nil")
	}
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(out, '\n'), nil
}

// GenerateHTML generates a standalone HTML valuation report.
func GenerateHTML(r *models.Report, cfg Config) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is nil")
	}

	tmpl, err := template.New("report").Parse(ReportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildReportData(r, cfg)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText generates a plain-text report (terminal / CLI friendly).
func GenerateText(r *models.Report, cfg Config) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is nil")
	}
	return renderTextReport(buildReportData(r, cfg)), nil
}

// ════════════════════════════════════════════════════════════════════
// Report Data, flattened for rendering
// ════════════════════════════════════════════════════════════════════

// ReportData is the template model passed to the renderers.
type ReportData struct {
	Title       string
	Symbol      string
	CompanyName string
	GeneratedAt string // IST formatted

	Summary     []RatioRow
	Assumptions []RatioRow

	// Valuation
	HasValuation   bool
	IntrinsicPE    string
	AnchorPE       string
	Overvaluation  string
	Verdict        string
	VerdictClass   string // CSS class: under, fair, over
	Phases         []RatioRow
	ValuationError string

	// Growth
	Growth      []TableView
	SalesChart  template.HTML
	ProfitChart template.HTML

	Tables   []TableView
	Warnings []string
}

// RatioRow represents a key-value row.
type RatioRow struct {
	Label string
	Value string
}

// TableView is a table flattened to display strings.
type TableView struct {
	Title   string
	Columns []string // first column is the row label
	Rows    [][]string
}

func buildReportData(r *models.Report, cfg Config) ReportData {
	d := ReportData{
		Title:       cfg.Title,
		Symbol:      r.Symbol,
		CompanyName: r.CompanyName.String(),
		GeneratedAt: ReportTimestamp(r),
		Warnings:    r.Warnings,
	}
	if d.Title == "" {
		d.Title = fmt.Sprintf("%s Valuation", r.Symbol)
	}

	d.Summary = []RatioRow{
		{"Current Price", formatAmount(r.CurrentPrice)},
		{"Stock P/E", r.CurrentPE.String()},
		{fmt.Sprintf("EPS (%s)", labelOr(r.EPSPeriod, "n/a")), r.EPS.String()},
		{"Trailing P/E", r.TrailingPE.String()},
		{"5Y Median RoCE", r.MedianROCE.String()},
	}

	in := r.Inputs
	d.Assumptions = []RatioRow{
		{"Cost of Capital", fmt.Sprintf("%g%%", in.CostOfCapital)},
		{"Growth (high growth period)", fmt.Sprintf("%g%%", in.GrowthRate)},
		{"High Growth Period", fmt.Sprintf("%d years", in.HighGrowthPeriod)},
		{"Fade Period", fmt.Sprintf("%d years", in.FadePeriod)},
		{"Terminal Growth", fmt.Sprintf("%g%%", in.TerminalGrowthRate)},
	}

	if v := r.Valuation; v != nil {
		d.HasValuation = true
		d.IntrinsicPE = fmt.Sprintf("%.2f", v.IntrinsicPE)
		d.AnchorPE = fmt.Sprintf("%.2f", v.AnchorPE)
		d.Overvaluation = utils.FormatPct(v.OvervaluationPct)
		d.Verdict = string(v.Verdict)
		d.VerdictClass = verdictClass(v.Verdict)
		b := v.Breakdown
		d.Phases = []RatioRow{
			{"High growth phase", utils.FormatINR(b.HighGrowthValue)},
			{"Fade phase", utils.FormatINR(b.FadeValue)},
			{"Terminal value", utils.FormatINR(b.TerminalValue)},
			{"Intrinsic value (after tax)", utils.FormatINR(b.IntrinsicValue)},
		}
	}
	d.ValuationError = r.ValuationError

	for _, m := range []*models.GrowthMatrix{r.SalesGrowth, r.ProfitGrowth} {
		if m != nil {
			d.Growth = append(d.Growth, growthView(m))
		}
	}
	chart := cfg.ChartCfg
	if r.SalesSeries != nil {
		d.SalesChart = template.HTML(GrowthChart(r.SalesSeries, chart))
	}
	if r.ProfitSeries != nil {
		d.ProfitChart = template.HTML(GrowthChart(r.ProfitSeries, chart))
	}

	if cfg.ShowTables {
		for _, t := range r.Tables {
			d.Tables = append(d.Tables, tableView(t))
		}
	}
	return d
}

func tableView(t *models.MetricTable) TableView {
	v := TableView{
		Title:   SectionTitle(t.Section),
		Columns: append([]string{""}, t.Periods...),
	}
	for _, row := range t.Rows {
		cells := make([]string, 0, len(t.Periods)+1)
		cells = append(cells, row.Metric)
		for _, p := range t.Periods {
			cells = append(cells, row.Values[p])
		}
		v.Rows = append(v.Rows, cells)
	}
	return v
}

func growthView(m *models.GrowthMatrix) TableView {
	v := TableView{Columns: []string{""}}
	for _, b := range m.Buckets {
		v.Columns = append(v.Columns, string(b))
	}
	for _, row := range m.Rows {
		if v.Title == "" {
			v.Title = row.Category
		}
		cells := []string{row.Category}
		for _, b := range m.Buckets {
			cell := "-"
			if val, ok := row.Values[b]; ok {
				cell = fmt.Sprintf("%g%%", val)
			}
			cells = append(cells, cell)
		}
		v.Rows = append(v.Rows, cells)
	}
	return v
}

func formatAmount(v models.MetricValue) string {
	f, err := v.Float()
	if err != nil {
		return v.String()
	}
	return utils.FormatINR(f)
}

func verdictClass(v models.Verdict) string {
	switch v {
	case models.VerdictUndervalued:
		return "under"
	case models.VerdictOvervalued:
		return "over"
	default:
		return "fair"
	}
}

func labelOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

func renderTextReport(d ReportData) string {
	var sb strings.Builder
	line := strings.Repeat("═", 60)
	thinLine := strings.Repeat("─", 60)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", d.Title))
	sb.WriteString(fmt.Sprintf("  Generated: %s\n", d.GeneratedAt))
	sb.WriteString(line + "\n\n")

	sb.WriteString(fmt.Sprintf("  %s (%s)\n", d.CompanyName, d.Symbol))
	sb.WriteString(thinLine + "\n")
	writeRows(&sb, d.Summary)
	sb.WriteString(thinLine + "\n")

	sb.WriteString("\n  ■ ASSUMPTIONS\n")
	writeRows(&sb, d.Assumptions)
	sb.WriteString(thinLine + "\n")

	sb.WriteString("\n  ■ VALUATION\n")
	if d.HasValuation {
		writeRows(&sb, d.Phases)
		sb.WriteString(fmt.Sprintf("    %-28s %s\n", "Intrinsic P/E", d.IntrinsicPE))
		sb.WriteString(fmt.Sprintf("    %-28s %s\n", "P/E used for comparison", d.AnchorPE))
		sb.WriteString(fmt.Sprintf("    %-28s %s\n", "Degree of overvaluation", d.Overvaluation))
		sb.WriteString(fmt.Sprintf("\n  ★ %s\n", strings.ToUpper(d.Verdict)))
	} else {
		sb.WriteString(fmt.Sprintf("    Not available: %s\n", d.ValuationError))
	}
	sb.WriteString(thinLine + "\n")

	if len(d.Growth) > 0 {
		sb.WriteString("\n  ■ COMPOUNDED GROWTH\n")
		for _, g := range d.Growth {
			writeTable(&sb, g)
		}
		sb.WriteString(thinLine + "\n")
	}

	for _, t := range d.Tables {
		sb.WriteString(fmt.Sprintf("\n  ■ %s\n", strings.ToUpper(t.Title)))
		writeTable(&sb, t)
		sb.WriteString(thinLine + "\n")
	}

	if len(d.Warnings) > 0 {
		sb.WriteString("\n  ⚠ WARNINGS\n")
		for _, w := range d.Warnings {
			sb.WriteString(fmt.Sprintf("    - %s\n", w))
		}
		sb.WriteString(thinLine + "\n")
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString("  For educational purposes only. Not financial advice.\n")
	sb.WriteString(line + "\n")
	return sb.String()
}

func writeRows(sb *strings.Builder, rows []RatioRow) {
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("    %-28s %s\n", r.Label, r.Value))
	}
}

// writeTable lays out t in left-aligned columns sized to their widest cell.
func writeTable(sb *strings.Builder, t TableView) {
	widths := make([]int, len(t.Columns))
	measure := func(cells []string) {
		for i, c := range cells {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(c))
			}
		}
	}
	measure(t.Columns)
	for _, r := range t.Rows {
		measure(r)
	}

	writeLine := func(cells []string) {
		sb.WriteString("   ")
		for i := range widths {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			sb.WriteString(" " + c + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)))
		}
		sb.WriteString("\n")
	}
	writeLine(t.Columns)
	for _, r := range t.Rows {
		writeLine(r)
	}
}

// SensitivityText renders a grid with growth rates down and costs of
// capital across. Invalid combinations show as "n/a".
func SensitivityText(g *models.SensitivityGrid) string {
	t := TableView{Columns: []string{"growth \\ coc"}}
	for _, c := range g.CostsOfCapital {
		t.Columns = append(t.Columns, fmt.Sprintf("%g%%", c))
	}
	for i, gr := range g.GrowthRates {
		row := []string{fmt.Sprintf("%g%%", gr)}
		for _, cell := range g.Cells[i] {
			v := "n/a"
			if cell.Valid {
				v = fmt.Sprintf("%.2f", cell.IntrinsicPE)
			}
			row = append(row, v)
		}
		t.Rows = append(t.Rows, row)
	}

	var sb strings.Builder
	sb.WriteString("  Intrinsic P/E sensitivity\n")
	writeTable(&sb, t)
	return sb.String()
}

// TablesText renders only the extracted statement tables and growth
// matrices of r, as they appear in the document.
func TablesText(r *models.Report) string {
	var sb strings.Builder
	thinLine := strings.Repeat("─", 60)
	for _, t := range r.Tables {
		sb.WriteString(fmt.Sprintf("\n  ■ %s\n", strings.ToUpper(SectionTitle(t.Section))))
		writeTable(&sb, tableView(t))
		sb.WriteString(thinLine + "\n")
	}
	for _, m := range []*models.GrowthMatrix{r.SalesGrowth, r.ProfitGrowth} {
		if m == nil {
			continue
		}
		g := growthView(m)
		sb.WriteString(fmt.Sprintf("\n  ■ %s\n", strings.ToUpper(g.Title)))
		writeTable(&sb, g)
		sb.WriteString(thinLine + "\n")
	}
	return sb.String()
}

// ReportTimestamp returns the report time in IST, formatted for headers.
func ReportTimestamp(r *models.Report) string {
	t := r.GeneratedAt
	if t.IsZero() {
		t = utils.NowIST()
	}
	return utils.FormatDateTimeIST(t)
}
