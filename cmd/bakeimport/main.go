package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"bakeimport/internal"
	"bakeimport/internal/config"
	"bakeimport/internal/importer"
	"bakeimport/internal/metrics"
	"bakeimport/internal/parse"
	"bakeimport/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log, err := zap.NewProduction()
	must(err)
	defer func() { _ = log.Sync() }()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "parse:products":
		input, bakery := parseFlags(cmd, cfg)
		text, err := os.ReadFile(input)
		must(err)
		products, skipped := parse.ParseProducts(string(text), bakery)
		printSkipped(log, skipped)
		fmt.Printf("parsed products=%d skipped=%d\n", len(products), len(skipped))
	case "parse:customers":
		input, bakery := parseFlags(cmd, cfg)
		text, err := os.ReadFile(input)
		must(err)
		customers, skipped := parse.ParseCustomers(string(text), bakery)
		printSkipped(log, skipped)
		fmt.Printf("parsed customers=%d skipped=%d\n", len(customers), len(skipped))
	case "parse:orders":
		input, bakery := parseFlags(cmd, cfg)
		text, err := os.ReadFile(input)
		must(err)
		orders, skipped := parse.ParseOrders(string(text), bakery, nil)
		printSkipped(log, skipped)
		lines := 0
		for _, o := range orders {
			lines += len(o.Lines)
		}
		fmt.Printf("parsed orders=%d lines=%d skipped=%d\n", len(orders), lines, len(skipped))
	case "import:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		bakery := fs.String("bakery", cfg.DefaultBakeryID, "bakery/tenant id")
		products := fs.String("products", "", "product master file")
		customers := fs.String("customers", "", "customer master file")
		orders := fs.String("orders", "", "order lines file")
		report := fs.String("report", "", "optional xlsx report path")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--bakery", *bakery))
		must(cfg.Require("--products", *products))
		must(cfg.Require("--customers", *customers))
		must(cfg.Require("--orders", *orders))

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		reg := metrics.NewRegistry()
		if cfg.MetricsAddr != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", reg.Handler())
				if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
					log.Warn("metrics listener stopped", zap.Error(err))
				}
			}()
		}

		svc := importer.NewService(db, cfg, log, reg)
		res, err := svc.Run(*bakery, *products, *customers, *orders)
		must(err)
		if strings.TrimSpace(*report) != "" {
			must(importer.WriteReport(res, *report))
		}
		fmt.Printf("import done trace=%s products=%d customers=%d orders=%d lines=%d skipped=%d unresolved=%d\n",
			res.TraceID, res.Products, res.Customers, res.Orders, res.OrderLines, len(res.Skipped), res.OrdersWithoutCustomer)
	case "export:report":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		trace := fs.String("trace", "", "import run trace id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--trace", *trace))
		must(cfg.Require("--out", *out))

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		svc := importer.NewService(db, cfg, log, metrics.NewRegistry())
		res, err := svc.LoadResult(*trace)
		must(err)
		must(importer.WriteReport(res, *out))
		fmt.Printf("exported report trace=%s skipped=%d to %s\n", res.TraceID, len(res.Skipped), *out)
	case "orders:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		bakery := fs.String("bakery", cfg.DefaultBakeryID, "bakery/tenant id")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--bakery", *bakery))

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		summaries, err := db.OrderSummaries(*bakery)
		must(err)
		for _, s := range summaries {
			fmt.Printf("%s %s customer=%s lines=%d status=%s\n",
				s.OrderNumber, s.DeliveryDate, s.CustomerOriginalID, s.LineCount, s.Status)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func parseFlags(cmd string, cfg config.Config) (input, bakery string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	in := fs.String("input", "", "input file path")
	bk := fs.String("bakery", cfg.DefaultBakeryID, "bakery/tenant id")
	_ = fs.Parse(os.Args[2:])
	must(cfg.Require("--input", *in))
	must(cfg.Require("--bakery", *bk))
	return *in, *bk
}

func printSkipped(log *zap.Logger, skipped []internal.LineError) {
	for _, e := range skipped {
		log.Warn("line skipped",
			zap.String("file", string(e.File)),
			zap.Int("line", e.LineNo),
			zap.String("reason", e.Reason),
			zap.String("raw", e.Line))
	}
}

func usage() {
	fmt.Println(`bakeimport commands:
  parse:products  --input <file> --bakery <id>
  parse:customers --input <file> --bakery <id>
  parse:orders    --input <file> --bakery <id>
  import:run      --bakery <id> --products <file> --customers <file> --orders <file> [--report <out.xlsx>]
  export:report   --trace <id> --out <out.xlsx>
  orders:list     --bakery <id>`)
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
