// Package documenttest provides a Screener.in-shaped company page for tests.
package documenttest

import (
	"testing"

	"github.com/seenimoa/compounder/internal/document"
)

// Figures of the fixture page that tests assert against.
const (
	CompanyName  = "Nestle India Ltd"
	CurrentPrice = "2,480"
	StockPE      = "70.5"
	EPSLatest    = "41.00" // profit-loss, Mar 2024
	ROCEOffset5  = "62.0%" // ratios, fifth column from the end (Mar 2020)
)

// Page is a trimmed company page with all six statement sections and four
// growth range tables.
const Page = `<!DOCTYPE html>
<html>
<body>
<div class="company-info">
  <h1 class="h2 shrink-text">  Nestle India Ltd </h1>
  <ul id="top-ratios">
    <li class="flex flex-space-between">
      <span class="name">Market Cap</span>
      <span class="nowrap value">₹ <span class="number">2,39,109</span> Cr.</span>
    </li>
    <li class="flex flex-space-between">
      <span class="name">Current Price</span>
      <span class="nowrap value">₹ <span class="number">2,480</span></span>
    </li>
    <li class="flex flex-space-between">
      <span class="name">Stock P/E</span>
      <span class="nowrap value"><span class="number">70.5</span></span>
    </li>
  </ul>
</div>

<section id="quarters">
  <table class="data-table">
    <thead><tr><th></th><th>Dec 2023</th><th>Mar 2024</th><th>Jun 2024</th><th>Sep 2024</th><th>Dec 2024</th></tr></thead>
    <tbody>
      <tr><td> Sales + </td><td>4,600</td><td>5,268</td><td>4,814</td><td>5,104</td><td>4,780</td></tr>
      <tr><td>Net Profit +</td><td>655</td><td>934</td><td>747</td><td>899</td><td>688</td></tr>
      <tr><td>EPS in Rs</td><td>6.79</td><td>9.69</td><td>7.75</td><td>9.33</td><td>7.14</td></tr>
    </tbody>
  </table>
</section>

<section id="profit-loss">
  <table class="data-table">
    <thead><tr><th></th><th>Mar 2020</th><th>Mar 2021</th><th>Mar 2022</th><th>Mar 2023</th><th>Mar 2024</th><th>TTM</th></tr></thead>
    <tbody>
      <tr><td>Sales +</td><td>13,350</td><td>14,741</td><td>16,897</td><td>19,126</td><td>24,394</td><td>19,966</td></tr>
      <tr><td>Net Profit +</td><td>2,082</td><td>2,184</td><td>2,391</td><td>2,998</td><td>3,933</td><td>3,268</td></tr>
      <tr><td>EPS in Rs</td><td>21.59</td><td>22.65</td><td>24.80</td><td>31.10</td><td>41.00</td><td>33.90</td></tr>
      <tr><td>Dividend Payout %</td><td>95%</td><td>88%</td><td>89%</td><td>86%</td><td>79%</td><td></td></tr>
    </tbody>
  </table>
  <div class="responsive-holder">
    <table class="ranges-table">
      <tr><th colspan="2">Compounded Sales Growth</th></tr>
      <tr><td>10 Years:</td><td>8%</td></tr>
      <tr><td>5 Years:</td><td>11%</td></tr>
      <tr><td>3 Years:</td><td>13%</td></tr>
      <tr><td>TTM:</td><td>4%</td></tr>
    </table>
    <table class="ranges-table">
      <tr><th colspan="2">Compounded Profit Growth</th></tr>
      <tr><td>10 Years:</td><td>11%</td></tr>
      <tr><td>5 Years:</td><td>14%</td></tr>
      <tr><td>3 Years:</td><td>16%</td></tr>
      <tr><td>TTM:</td><td>-2%</td></tr>
    </table>
    <table class="ranges-table">
      <tr><th colspan="2">Stock Price CAGR</th></tr>
      <tr><td>10 Years:</td><td>14%</td></tr>
      <tr><td>5 Years:</td><td>9%</td></tr>
      <tr><td>3 Years:</td><td>7%</td></tr>
      <tr><td>1 Year:</td><td>-10%</td></tr>
    </table>
    <table class="ranges-table">
      <tr><th colspan="2">Return on Equity</th></tr>
      <tr><td>10 Years:</td><td>81%</td></tr>
      <tr><td>5 Years:</td><td>97%</td></tr>
      <tr><td>3 Years:</td><td>105%</td></tr>
      <tr><td>Last Year:</td><td>118%</td></tr>
    </table>
  </div>
</section>

<section id="balance-sheet">
  <table class="data-table">
    <thead><tr><th></th><th>Mar 2022</th><th>Mar 2023</th><th>Mar 2024</th></tr></thead>
    <tbody>
      <tr><td>Equity Capital</td><td>96</td><td>96</td><td>96</td></tr>
      <tr><td>Reserves</td><td>2,350</td><td>3,100</td><td>3,399</td></tr>
      <tr><td>Total Liabilities</td><td>8,999</td><td>10,450</td><td>11,102</td></tr>
    </tbody>
  </table>
</section>

<section id="cash-flow">
  <table class="data-table">
    <thead><tr><th></th><th>Mar 2022</th><th>Mar 2023</th><th>Mar 2024</th></tr></thead>
    <tbody>
      <tr><td>Cash from Operating Activity +</td><td>2,194</td><td>3,006</td><td>3,545</td></tr>
      <tr><td>Net Cash Flow</td><td>-78</td><td>46</td><td>-45</td></tr>
    </tbody>
  </table>
</section>

<section id="ratios">
  <table class="data-table">
    <thead><tr><th></th><th>Mar 2015</th><th>Mar 2016</th><th>Mar 2017</th><th>Mar 2018</th><th>Mar 2019</th><th>Mar 2020</th><th>Mar 2021</th><th>Mar 2022</th><th>Mar 2023</th><th>Mar 2024</th></tr></thead>
    <tbody>
      <tr><td>Debtor Days</td><td>3</td><td>4</td><td>3</td><td>4</td><td>4</td><td>3</td><td>4</td><td>4</td><td>5</td><td>5</td></tr>
      <tr><td>ROCE %</td><td>47.0%</td><td>39.0%</td><td>43.0%</td><td>51.0%</td><td>60.0%</td><td>62.0%</td><td>140.0%</td><td>135.0%</td><td>142.0%</td><td>136.0%</td></tr>
    </tbody>
  </table>
</section>

<section id="shareholding">
  <table class="data-table">
    <thead><tr><th></th><th>Jun 2024</th><th>Sep 2024</th><th>Dec 2024</th></tr></thead>
    <tbody>
      <tr><td>Promoters +</td><td>62.76%</td><td>62.76%</td><td>62.76%</td></tr>
      <tr><td>FIIs +</td><td>11.90%</td><td>11.67%</td><td>11.07%</td></tr>
      <tr><td>Public +</td><td>16.12%</td><td>16.10%</td><td>16.34%</td></tr>
    </tbody>
  </table>
</section>
</body>
</html>`

// MustParse parses Page, failing the test on error.
func MustParse(t testing.TB) *document.HTMLDocument {
	t.Helper()
	return MustParseHTML(t, Page)
}

// MustParseHTML parses html, failing the test on error.
func MustParseHTML(t testing.TB, html string) *document.HTMLDocument {
	t.Helper()
	doc, err := document.ParseHTMLString(html)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}
