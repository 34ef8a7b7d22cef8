package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rustyeddy/riskcore/risk"
)

var (
	stopChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskcore_stop_checks_total",
			Help: "Stop evaluations performed, by outcome",
		},
		[]string{"outcome"},
	)

	exitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskcore_exits_total",
			Help: "Positions closed by the monitor, by trigger",
		},
		[]string{"code"},
	)

	markPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskcore_mark_price",
			Help: "Last price seen per monitored symbol",
		},
		[]string{"symbol"},
	)

	symbolVolatility = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskcore_symbol_volatility",
			Help: "Streaming ATR per monitored symbol, from sweep prices",
		},
		[]string{"symbol"},
	)

	priceErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "riskcore_price_errors_total",
			Help: "Failed price lookups",
		},
	)
)

func init() {
	prometheus.MustRegister(stopChecksTotal)
	prometheus.MustRegister(exitsTotal)
	prometheus.MustRegister(markPrice)
	prometheus.MustRegister(symbolVolatility)
	prometheus.MustRegister(priceErrorsTotal)
}

// Handler exposes the metrics endpoint for the monitor process.
func Handler() http.Handler {
	return promhttp.Handler()
}

func recordCheck(d risk.ExitDecision) {
	if d.Exit {
		stopChecksTotal.WithLabelValues("exit").Inc()
		exitsTotal.WithLabelValues(d.Code).Inc()
		return
	}
	stopChecksTotal.WithLabelValues("hold").Inc()
}

func updateMark(symbol string, price float64) {
	markPrice.WithLabelValues(symbol).Set(price)
}

func updateVolatility(symbol string, atr float64) {
	symbolVolatility.WithLabelValues(symbol).Set(atr)
}

func recordPriceError() {
	priceErrorsTotal.Inc()
}
