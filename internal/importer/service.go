package importer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"bakeimport/internal"
	"bakeimport/internal/config"
	"bakeimport/internal/metrics"
	"bakeimport/internal/parse"
	"bakeimport/internal/storage"
)

// Service sequences a full import: products and customers first, then orders
// with original-id foreign keys resolved against the freshly persisted
// masters. Parsing itself stays pure; all logging and I/O happens here.
type Service struct {
	db      *storage.DB
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Registry
}

func NewService(db *storage.DB, cfg config.Config, log *zap.Logger, m *metrics.Registry) *Service {
	return &Service{db: db, cfg: cfg, log: log, metrics: m}
}

type Result struct {
	TraceID  string
	BakeryID string

	Products   int
	Customers  int
	Orders     int
	OrderLines int

	OrdersWithoutCustomer int
	Skipped               []internal.LineError
}

func (s *Service) Run(bakeryID, productPath, customerPath, orderPath string) (Result, error) {
	start := time.Now()
	res := Result{TraceID: traceID(), BakeryID: bakeryID}

	productText, err := os.ReadFile(productPath)
	if err != nil {
		return res, err
	}
	products, skipped := parse.ParseProducts(string(productText), bakeryID)
	s.recordSkipped(&res, skipped)
	if err := s.db.UpsertProducts(products); err != nil {
		return res, err
	}
	res.Products = len(products)
	s.metrics.ProductsParsed.Add(float64(len(products)))

	customerText, err := os.ReadFile(customerPath)
	if err != nil {
		return res, err
	}
	customers, skipped := parse.ParseCustomers(string(customerText), bakeryID)
	s.recordSkipped(&res, skipped)
	if err := s.db.UpsertCustomers(customers); err != nil {
		return res, err
	}
	res.Customers = len(customers)
	s.metrics.CustomersParsed.Add(float64(len(customers)))

	productIDs, err := s.db.ProductIDsByOriginal(bakeryID)
	if err != nil {
		return res, err
	}
	customerIDs, err := s.db.CustomerIDsByOriginal(bakeryID)
	if err != nil {
		return res, err
	}

	orderText, err := os.ReadFile(orderPath)
	if err != nil {
		return res, err
	}
	orders, skipped := parse.ParseOrders(string(orderText), bakeryID, nil)
	s.recordSkipped(&res, skipped)

	for _, order := range orders {
		customerID, ok := customerIDs[order.CustomerOriginalID]
		if !ok {
			res.OrdersWithoutCustomer++
			s.log.Warn("order skipped: customer not in master data",
				zap.String("bakeryId", bakeryID),
				zap.String("customerOriginalId", order.CustomerOriginalID),
				zap.String("deliveryDate", order.DeliveryDate))
			continue
		}
		if _, err := s.db.InsertOrder(order, customerID, productIDs); err != nil {
			return res, err
		}
		res.Orders++
		res.OrderLines += len(order.Lines)
	}
	s.metrics.OrdersParsed.Add(float64(res.Orders))
	s.metrics.OrderLinesParsed.Add(float64(res.OrderLines))
	s.metrics.ImportRuns.Inc()

	counts := map[string]int{
		"products":              res.Products,
		"customers":             res.Customers,
		"orders":                res.Orders,
		"orderLines":            res.OrderLines,
		"skippedLines":          len(res.Skipped),
		"ordersWithoutCustomer": res.OrdersWithoutCustomer,
	}
	if err := s.db.InsertRun(res.TraceID, bakeryID, counts); err != nil {
		return res, err
	}
	if err := s.db.InsertSkippedLines(res.TraceID, res.Skipped); err != nil {
		return res, err
	}

	s.log.Info("import run finished",
		zap.String("traceId", res.TraceID),
		zap.String("bakeryId", bakeryID),
		zap.Int("products", res.Products),
		zap.Int("customers", res.Customers),
		zap.Int("orders", res.Orders),
		zap.Int("skippedLines", len(res.Skipped)),
		zap.Duration("took", time.Since(start)))

	return res, nil
}

// LoadResult rebuilds the Result of a finished run from the database, so a
// report can be rendered after the fact.
func (s *Service) LoadResult(traceID string) (Result, error) {
	bakeryID, counts, err := s.db.RunByTrace(traceID)
	if err != nil {
		return Result{}, err
	}
	skipped, err := s.db.SkippedLines(traceID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		TraceID:               traceID,
		BakeryID:              bakeryID,
		Products:              counts["products"],
		Customers:             counts["customers"],
		Orders:                counts["orders"],
		OrderLines:            counts["orderLines"],
		OrdersWithoutCustomer: counts["ordersWithoutCustomer"],
		Skipped:               skipped,
	}, nil
}

func (s *Service) recordSkipped(res *Result, skipped []internal.LineError) {
	for _, e := range skipped {
		s.log.Warn("line skipped",
			zap.String("file", string(e.File)),
			zap.Int("line", e.LineNo),
			zap.String("reason", e.Reason),
			zap.String("raw", e.Line))
		s.metrics.LinesSkipped.WithLabelValues(string(e.File)).Inc()
	}
	res.Skipped = append(res.Skipped, skipped...)
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
