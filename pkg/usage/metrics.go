package usage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
)

// PrometheusObserver exports ledger events as Prometheus counters.
//
// Metrics:
//   - <ns>_usage_checks_total{feature,tier,result}
//   - <ns>_usage_increments_total{feature,result}
//   - <ns>_usage_window_resets_total
//   - <ns>_usage_store_failures_total{op}
type PrometheusObserver struct {
	checks        *prometheus.CounterVec
	increments    *prometheus.CounterVec
	resets        prometheus.Counter
	storeFailures *prometheus.CounterVec
}

// NewPrometheusObserver creates the collectors and registers them with reg.
func NewPrometheusObserver(reg prometheus.Registerer, namespace string) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "usage_checks_total",
				Help:      "Total number of limit checks by feature, tier and result",
			},
			[]string{"feature", "tier", "result"},
		),
		increments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "usage_increments_total",
				Help:      "Total number of metered increments by feature and result",
			},
			[]string{"feature", "result"},
		),
		resets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "usage_window_resets_total",
				Help:      "Total number of monthly window resets applied",
			},
		),
		storeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "usage_store_failures_total",
				Help:      "Total number of failed store operations",
			},
			[]string{"op"},
		),
	}

	for _, c := range []prometheus.Collector{o.checks, o.increments, o.resets, o.storeFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *PrometheusObserver) CheckObserved(feature limits.Feature, tier limits.Tier, allowed bool) {
	o.checks.WithLabelValues(string(feature), string(tier), result(allowed, "allowed", "denied")).Inc()
}

func (o *PrometheusObserver) IncrementObserved(feature limits.Feature, success bool) {
	o.increments.WithLabelValues(string(feature), result(success, "success", "limit_reached")).Inc()
}

func (o *PrometheusObserver) ResetObserved() {
	o.resets.Inc()
}

func (o *PrometheusObserver) StoreFailed(op string) {
	o.storeFailures.WithLabelValues(op).Inc()
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
