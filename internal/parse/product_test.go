package parse

import (
	"testing"

	"bakeimport/internal"
)

func TestParseProducts(t *testing.T) {
	text := "0001 RUNDSTYKKER 12345\n0003 GROVBRØD HALV 9900 21\n"
	products, errs := ParseProducts(text, "bakery-1")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(products) != 2 {
		t.Fatalf("len=%d", len(products))
	}

	first := products[0]
	if first.OriginalID != "1" || first.Name != "RUNDSTYKKER" {
		t.Fatalf("unexpected product: %+v", first)
	}
	if first.Category != internal.CategoryImported || !first.IsActive || first.BakeryID != "bakery-1" {
		t.Fatalf("unexpected defaults: %+v", first)
	}

	if products[1].Name != "GROVBRØD HALV" {
		t.Fatalf("multi-word name: %+v", products[1])
	}
}

func TestParseProductsSkipsMalformedLines(t *testing.T) {
	text := "0001 RUNDSTYKKER 12345\n\n0099\n0002 9999\n0004 LOFF 5000\n"
	products, errs := ParseProducts(text, "bakery-1")

	if len(products) != 2 {
		t.Fatalf("len=%d", len(products))
	}
	if products[0].OriginalID != "1" || products[1].OriginalID != "4" {
		t.Fatalf("wrong survivors: %+v", products)
	}

	if len(errs) != 2 {
		t.Fatalf("errs=%+v", errs)
	}
	if errs[0].LineNo != 3 || errs[0].Reason != "too few fields" {
		t.Fatalf("first err: %+v", errs[0])
	}
	if errs[1].LineNo != 4 || errs[1].Reason != "empty product name" {
		t.Fatalf("second err: %+v", errs[1])
	}
}

func TestParseProductsEmptyInput(t *testing.T) {
	products, errs := ParseProducts("", "bakery-1")
	if len(products) != 0 || len(errs) != 0 {
		t.Fatalf("products=%d errs=%d", len(products), len(errs))
	}
}
