package report

import (
	"testing"
	"time"

	"github.com/matejv/posteljnina/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleItems() []model.Item {
	return []model.Item{
		{Code: "SHT-1", Name: "Percale sheet set", Category: model.CategorySheets,
			Size: model.SizeQueen, Color: "white", Location: "main store",
			StockQuantity: 10, MinStockThreshold: 2, IntakeDate: date(2026, time.July, 3)},
		{Code: "PLW-1", Name: "Down pillow", Category: model.CategoryPillows,
			Size: model.SizeStandard, Color: "ivory", Location: "warehouse",
			StockQuantity: 4, MinStockThreshold: 5, IntakeDate: date(2026, time.August, 14)},
		{Code: "BLK-1", Name: "Wool blanket", Category: model.CategoryBlankets,
			Size: model.SizeKing, Color: "grey", Location: "main store", Supplier: "Alpina",
			StockQuantity: 5, MinStockThreshold: 5, IntakeDate: date(2025, time.August, 20)},
	}
}

func TestApplyIdentityFilter(t *testing.T) {
	items := sampleItems()

	out := Apply(items, Filter{SearchTerm: "", Category: FilterAll, Size: FilterAll, Location: FilterAll, Month: FilterAll})
	if len(out) != len(items) {
		t.Fatalf("expected identity filter to keep all %d items, got %d", len(items), len(out))
	}
	for i := range out {
		if out[i].Code != items[i].Code {
			t.Errorf("expected order preserved, got %q at %d", out[i].Code, i)
		}
	}
}

func TestApplySearchCaseInsensitive(t *testing.T) {
	items := sampleItems()

	out := Apply(items, Filter{SearchTerm: "WOOL"})
	if len(out) != 1 || out[0].Code != "BLK-1" {
		t.Fatalf("expected only the wool blanket, got %d items", len(out))
	}

	// The term matches any of the searched fields, supplier included.
	out = Apply(items, Filter{SearchTerm: "alpina"})
	if len(out) != 1 || out[0].Code != "BLK-1" {
		t.Errorf("expected supplier match, got %d items", len(out))
	}

	out = Apply(items, Filter{SearchTerm: "flannel"})
	if len(out) != 0 {
		t.Errorf("expected no match, got %d items", len(out))
	}
}

func TestApplyFacetsAreConjunctive(t *testing.T) {
	items := sampleItems()

	// Both items in "main store", but only one of them is a sheet.
	out := Apply(items, Filter{Location: "main store", Category: model.CategorySheets})
	if len(out) != 1 || out[0].Code != "SHT-1" {
		t.Fatalf("expected 1 item from conjunctive filters, got %d", len(out))
	}

	out = Apply(items, Filter{SearchTerm: "white", Category: model.CategoryPillows})
	if len(out) != 0 {
		t.Errorf("expected search AND facet to exclude everything, got %d", len(out))
	}
}

func TestFilterByIntakeMonth(t *testing.T) {
	items := sampleItems()

	out := FilterByIntakeMonth(items, "08", "2026")
	if len(out) != 1 || out[0].Code != "PLW-1" {
		t.Fatalf("expected only the August 2026 intake, got %d items", len(out))
	}

	// Without a year, all Augusts match.
	out = FilterByIntakeMonth(items, "08", "")
	if len(out) != 2 {
		t.Errorf("expected 2 August intakes across years, got %d", len(out))
	}

	out = FilterByIntakeMonth(items, FilterAll, "2026")
	if len(out) != len(items) {
		t.Errorf("expected month=all to pass everything, got %d", len(out))
	}
}

func TestFilterBySaleMonth(t *testing.T) {
	sales := []model.Sale{
		{ItemCode: "SHT-1", SoldAt: date(2026, time.August, 2)},
		{ItemCode: "SHT-1", SoldAt: date(2026, time.September, 1)},
	}

	out := FilterBySaleMonth(sales, "09", "2026")
	if len(out) != 1 || !out[0].SoldAt.Equal(date(2026, time.September, 1)) {
		t.Fatalf("expected only the September sale, got %d", len(out))
	}

	if out := FilterBySaleMonth(sales, "", ""); len(out) != 2 {
		t.Errorf("expected empty month to pass everything, got %d", len(out))
	}
}

func TestLowStockBoundaryInclusive(t *testing.T) {
	items := sampleItems()

	out := LowStock(items)
	if len(out) != 2 {
		t.Fatalf("expected 2 low-stock items, got %d", len(out))
	}

	// BLK-1 sits exactly at its threshold (5 <= 5) and must alert.
	found := false
	for _, item := range out {
		if item.Code == "BLK-1" {
			found = true
		}
		if item.Code == "SHT-1" {
			t.Errorf("item above threshold must not alert")
		}
	}
	if !found {
		t.Errorf("expected item at exact threshold to alert")
	}
}
