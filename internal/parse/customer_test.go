package parse

import (
	"testing"

	"bakeimport/internal"
)

func TestParseCustomersStandardLayout(t *testing.T) {
	text := "0005    Bakeren AS    Storgata 1\n12    Kafe Nord\n"
	customers, errs := ParseCustomers(text, "bakery-1")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(customers) != 2 {
		t.Fatalf("len=%d", len(customers))
	}

	first := customers[0]
	if first.OriginalID != "5" || first.Name != "Bakeren AS" {
		t.Fatalf("unexpected customer: %+v", first)
	}
	if first.Address == nil || *first.Address != "Storgata 1" {
		t.Fatalf("address: %+v", first.Address)
	}
	if first.Status != internal.CustomerStatusActive || first.BakeryID != "bakery-1" {
		t.Fatalf("defaults: %+v", first)
	}

	if customers[1].Address != nil {
		t.Fatalf("address should be absent: %+v", customers[1])
	}
}

func TestParseCustomersLabeledLayout(t *testing.T) {
	text := "kundenummer:0007 Kundenanv:Baker Hansen Adresse:Storgata 1 Tlf:22334455\n"
	customers, errs := ParseCustomers(text, "bakery-1")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(customers) != 1 {
		t.Fatalf("len=%d", len(customers))
	}

	c := customers[0]
	if c.OriginalID != "7" || c.Name != "Baker Hansen" {
		t.Fatalf("unexpected customer: %+v", c)
	}
	if c.Address == nil || *c.Address != "Storgata 1" {
		t.Fatalf("address: %+v", c.Address)
	}
	if c.Phone == nil || *c.Phone != "22334455" {
		t.Fatalf("phone: %+v", c.Phone)
	}
}

func TestParseCustomersLabeledWithoutOptionalFields(t *testing.T) {
	customers, errs := ParseCustomers("kundenummer:31 Kundenanv:Lunsjbaren\n", "bakery-1")
	if len(errs) != 0 || len(customers) != 1 {
		t.Fatalf("customers=%+v errs=%+v", customers, errs)
	}
	c := customers[0]
	if c.OriginalID != "31" || c.Name != "Lunsjbaren" || c.Address != nil || c.Phone != nil {
		t.Fatalf("unexpected customer: %+v", c)
	}
}

func TestParseCustomersSkipsMalformedLines(t *testing.T) {
	text := "kundenummer:0009 Adresse:Uten Navn 2\nbare ett felt\n0005    Bakeren AS\n"
	customers, errs := ParseCustomers(text, "bakery-1")

	if len(customers) != 1 || customers[0].OriginalID != "5" {
		t.Fatalf("customers=%+v", customers)
	}
	if len(errs) != 2 {
		t.Fatalf("errs=%+v", errs)
	}
	if errs[0].LineNo != 1 || errs[0].Reason != "labeled line missing customer number or name" {
		t.Fatalf("first err: %+v", errs[0])
	}
	if errs[1].LineNo != 2 || errs[1].Reason != "too few fields" {
		t.Fatalf("second err: %+v", errs[1])
	}
}
