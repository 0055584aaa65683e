package report

// ReportTemplate is the HTML template for the valuation report.
// It is embedded as a Go constant with no external file dependencies.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --orange: #ea580c;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 960px;
    margin: 0 auto;
    padding: 20px;
  }
  h1 { font-size: 1.5rem; margin-bottom: 4px; color: var(--accent); }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  .muted { color: var(--muted); font-size: 0.85rem; }
  .header { border-bottom: 3px solid var(--accent); padding-bottom: 12px; margin-bottom: 16px; }
  .ticker-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    margin-right: 8px;
  }
  .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(170px, 1fr)); gap: 10px; }
  .card { background: var(--section-bg); border: 1px solid var(--border); border-radius: 6px; padding: 8px 12px; }
  .card .label { color: var(--muted); font-size: 0.8rem; }
  .card .value { font-weight: 600; font-size: 1.05rem; }
  .verdict { font-size: 1.3rem; font-weight: 700; margin: 12px 0; }
  .verdict.over { color: var(--red); }
  .verdict.fair { color: var(--orange); }
  .verdict.under { color: var(--green); }
  .error { color: var(--red); }
  table { width: 100%; border-collapse: collapse; font-size: 0.85rem; margin: 8px 0 16px; }
  th, td { border-bottom: 1px solid var(--border); padding: 4px 8px; text-align: right; white-space: nowrap; }
  th:first-child, td:first-child { text-align: left; }
  th { background: var(--section-bg); }
  .scroll { overflow-x: auto; }
  .chart-container { margin: 8px 0; }
  .footer { margin-top: 32px; font-size: 0.8rem; color: var(--muted); text-align: center; }
</style>
</head>
<body>

<div class="header">
  <h1><span class="ticker-badge">{{.Symbol}}</span> {{.CompanyName}}</h1>
  <p class="muted">{{.GeneratedAt}}</p>
</div>

<div class="grid">
{{range .Summary}}  <div class="card"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>

<h2>Valuation</h2>
<div class="grid">
{{range .Assumptions}}  <div class="card"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>
{{if .HasValuation}}
<table>
{{range .Phases}}  <tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}  <tr><td>Intrinsic P/E</td><td>{{.IntrinsicPE}}</td></tr>
  <tr><td>P/E used for comparison</td><td>{{.AnchorPE}}</td></tr>
  <tr><td>Degree of overvaluation</td><td>{{.Overvaluation}}</td></tr>
</table>
<div class="verdict {{.VerdictClass}}">{{.Verdict}}</div>
{{else}}
<p class="error">Valuation not available: {{.ValuationError}}</p>
{{end}}

{{if .Growth}}
<h2>Compounded Growth</h2>
{{range .Growth}}{{template "table" .}}{{end}}
{{if .SalesChart}}<div class="chart-container">{{.SalesChart}}</div>{{end}}
{{if .ProfitChart}}<div class="chart-container">{{.ProfitChart}}</div>{{end}}
{{end}}

{{range .Tables}}
<h2>{{.Title}}</h2>
{{template "table" .}}
{{end}}

{{if .Warnings}}
<h2>Warnings</h2>
<ul>
{{range .Warnings}}  <li class="muted">{{.}}</li>
{{end}}</ul>
{{end}}

<div class="footer">For educational purposes only. Not financial advice.</div>
</body>
</html>
{{define "table"}}<div class="scroll"><table>
  <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}  <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table></div>{{end}}`
