package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	ProductsParsed   prometheus.Counter
	CustomersParsed  prometheus.Counter
	OrdersParsed     prometheus.Counter
	OrderLinesParsed prometheus.Counter
	LinesSkipped     *prometheus.CounterVec
	ImportRuns       prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	productsParsed := prometheus.NewCounter(prometheus.CounterOpts{Name: "bakeimport_products_parsed_total"})
	customersParsed := prometheus.NewCounter(prometheus.CounterOpts{Name: "bakeimport_customers_parsed_total"})
	ordersParsed := prometheus.NewCounter(prometheus.CounterOpts{Name: "bakeimport_orders_parsed_total"})
	orderLinesParsed := prometheus.NewCounter(prometheus.CounterOpts{Name: "bakeimport_order_lines_parsed_total"})
	linesSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bakeimport_lines_skipped_total"}, []string{"file"})
	importRuns := prometheus.NewCounter(prometheus.CounterOpts{Name: "bakeimport_import_runs_total"})

	r.MustRegister(productsParsed, customersParsed, ordersParsed, orderLinesParsed, linesSkipped, importRuns)
	return &Registry{
		reg:              r,
		ProductsParsed:   productsParsed,
		CustomersParsed:  customersParsed,
		OrdersParsed:     ordersParsed,
		OrderLinesParsed: orderLinesParsed,
		LinesSkipped:     linesSkipped,
		ImportRuns:       importRuns,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
