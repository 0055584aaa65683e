package financials

import (
	"errors"
	"reflect"
	"testing"

	"github.com/seenimoa/compounder/pkg/models"
)

func sampleGrowth() []models.GrowthRecord {
	return []models.GrowthRecord{
		{Category: SalesGrowth, Bucket: models.Bucket10Y, Value: "8%"},
		{Category: SalesGrowth, Bucket: models.Bucket5Y, Value: "11%"},
		{Category: SalesGrowth, Bucket: models.Bucket3Y, Value: "13%"},
		{Category: SalesGrowth, Bucket: models.BucketTTM, Value: "4%"},
		{Category: ProfitGrowth, Bucket: models.BucketTTM, Value: "-2%"},
		{Category: ProfitGrowth, Bucket: models.Bucket10Y, Value: "11%"},
		{Category: ProfitGrowth, Bucket: models.Bucket3Y, Value: "16%"},
		{Category: ProfitGrowth, Bucket: models.Bucket5Y, Value: "14%"},
	}
}

func TestBuildGrowthMatrix(t *testing.T) {
	m, err := BuildGrowthMatrix(sampleGrowth(), SalesGrowth)
	if err != nil {
		t.Fatalf("BuildGrowthMatrix error: %v", err)
	}

	if !reflect.DeepEqual(m.Buckets, models.PeriodBuckets()) {
		t.Errorf("buckets = %v, want canonical order", m.Buckets)
	}
	if len(m.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(m.Rows))
	}
	want := map[models.PeriodBucket]float64{
		models.BucketTTM: 4, models.Bucket3Y: 13, models.Bucket5Y: 11, models.Bucket10Y: 8,
	}
	if !reflect.DeepEqual(m.Rows[0].Values, want) {
		t.Errorf("values = %v, want %v", m.Rows[0].Values, want)
	}
}

func TestBuildGrowthMatrixCanonicalOrder(t *testing.T) {
	// Profit records arrive in a scrambled order.
	m, err := BuildGrowthMatrix(sampleGrowth(), ProfitGrowth)
	if err != nil {
		t.Fatalf("BuildGrowthMatrix error: %v", err)
	}
	s, ok := Series(m, ProfitGrowth)
	if !ok {
		t.Fatal("expected series")
	}

	var labels []string
	for _, p := range s.Points {
		labels = append(labels, p.Label)
	}
	want := []string{"TTM", "3 Years", "5 Years", "10 Years"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
	if s.Points[0].Value != -2 {
		t.Errorf("TTM = %v, want -2", s.Points[0].Value)
	}
}

func TestBuildGrowthMatrixDuplicateCategory(t *testing.T) {
	records := append(sampleGrowth(),
		models.GrowthRecord{Category: SalesGrowth, Bucket: models.Bucket5Y, Value: "12%"})

	_, err := BuildGrowthMatrix(records, SalesGrowth)
	if !errors.Is(err, ErrDataShape) {
		t.Fatalf("expected ErrDataShape, got %v", err)
	}
}

func TestBuildGrowthMatrixBroadPrefix(t *testing.T) {
	// "Compounded" selects both families; each pair is still unique.
	m, err := BuildGrowthMatrix(sampleGrowth(), "Compounded")
	if err != nil {
		t.Fatalf("BuildGrowthMatrix error: %v", err)
	}
	if len(m.Rows) != 2 || m.Rows[0].Category != SalesGrowth {
		t.Errorf("rows = %+v, want sales then profit", m.Rows)
	}
}

func TestBuildGrowthMatrixNoMatch(t *testing.T) {
	_, err := BuildGrowthMatrix(sampleGrowth(), "Stock Price CAGR")
	if !errors.Is(err, ErrDataShape) {
		t.Fatalf("expected ErrDataShape, got %v", err)
	}
}

func TestBuildGrowthMatrixValues(t *testing.T) {
	records := []models.GrowthRecord{
		{Category: SalesGrowth, Bucket: models.Bucket10Y, Value: ""},
		{Category: SalesGrowth, Bucket: models.BucketTTM, Value: "7%"},
	}
	m, err := BuildGrowthMatrix(records, SalesGrowth)
	if err != nil {
		t.Fatalf("BuildGrowthMatrix error: %v", err)
	}
	if _, ok := m.Rows[0].Values[models.Bucket10Y]; ok {
		t.Error("empty value should be absent, not zero")
	}

	bad := []models.GrowthRecord{{Category: SalesGrowth, Bucket: models.BucketTTM, Value: "n/a"}}
	if _, err := BuildGrowthMatrix(bad, SalesGrowth); !errors.Is(err, ErrDataShape) {
		t.Errorf("expected ErrDataShape for unparseable value, got %v", err)
	}
}

func TestSeriesMissingCategory(t *testing.T) {
	m, _ := BuildGrowthMatrix(sampleGrowth(), SalesGrowth)
	if _, ok := Series(m, ProfitGrowth); ok {
		t.Error("expected no series for a filtered-out category")
	}
}
