package importer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"bakeimport/internal/config"
	"bakeimport/internal/metrics"
	"bakeimport/internal/storage"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSmokeImportRun(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	productPath := writeFixture(t, tmp, "products.txt",
		"0012 RUNDSTYKKER 12345\n0013 GROVBRØD 9900\nbad\n")
	customerPath := writeFixture(t, tmp, "customers.txt",
		"34567    Bakeren AS    Storgata 1\nkundenummer:00099 Kundenanv:Kafe Nord Tlf:22334455\n")
	orderPath := writeFixture(t, tmp, "orders.txt",
		"00012 AB1234567 10 X 20240115\n"+
			"00013 CD1234567 5 X 20240115\n"+
			"00012 XY0004200 2 X 20240116\n"+ // customer 4200 has no master row
			"kaputt\n")

	svc := NewService(db, config.Config{}, zap.NewNop(), metrics.NewRegistry())
	res, err := svc.Run("bakery-1", productPath, customerPath, orderPath)
	if err != nil {
		t.Fatal(err)
	}

	if res.Products != 2 || res.Customers != 2 {
		t.Fatalf("masters: %+v", res)
	}
	if res.Orders != 1 || res.OrderLines != 2 {
		t.Fatalf("orders: %+v", res)
	}
	if res.OrdersWithoutCustomer != 1 {
		t.Fatalf("unresolved customers: %+v", res)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("skipped: %+v", res.Skipped)
	}

	summaries, err := db.OrderSummaries("bakery-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries=%+v", summaries)
	}
	s := summaries[0]
	if s.CustomerOriginalID != "34567" || s.DeliveryDate != "2024-01-15" || s.LineCount != 2 {
		t.Fatalf("summary: %+v", s)
	}
	if s.OrderNumber == "" || s.Status != "pending" {
		t.Fatalf("summary defaults: %+v", s)
	}

	reportPath := filepath.Join(tmp, "report.xlsx")
	if err := WriteReport(res, reportPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatal(err)
	}
}

func TestLoadResultRebuildsStoredRun(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	productPath := writeFixture(t, tmp, "products.txt", "0012 RUNDSTYKKER 12345\nbad\n")
	customerPath := writeFixture(t, tmp, "customers.txt", "34567    Bakeren AS\n")
	orderPath := writeFixture(t, tmp, "orders.txt", "00012 AB1234567 10 X 20240115\nkaputt\n")

	svc := NewService(db, config.Config{}, zap.NewNop(), metrics.NewRegistry())
	ran, err := svc.Run("bakery-1", productPath, customerPath, orderPath)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := svc.LoadResult(ran.TraceID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ran, loaded) {
		t.Fatalf("stored run differs:\nran:    %+v\nloaded: %+v", ran, loaded)
	}

	reportPath := filepath.Join(tmp, "report.xlsx")
	if err := WriteReport(loaded, reportPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.LoadResult("no-such-trace"); err == nil {
		t.Fatal("expected error for unknown trace id")
	}
}

func TestRunIsIndependentPerBakery(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	productPath := writeFixture(t, tmp, "products.txt", "0012 RUNDSTYKKER 12345\n")
	customerPath := writeFixture(t, tmp, "customers.txt", "34567    Bakeren AS\n")
	orderPath := writeFixture(t, tmp, "orders.txt", "00012 AB1234567 10 X 20240115\n")

	svc := NewService(db, config.Config{}, zap.NewNop(), metrics.NewRegistry())
	if _, err := svc.Run("bakery-1", productPath, customerPath, orderPath); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Run("bakery-2", productPath, customerPath, orderPath); err != nil {
		t.Fatal(err)
	}

	for _, bakery := range []string{"bakery-1", "bakery-2"} {
		summaries, err := db.OrderSummaries(bakery)
		if err != nil {
			t.Fatal(err)
		}
		if len(summaries) != 1 {
			t.Fatalf("%s summaries=%+v", bakery, summaries)
		}
	}
}
