package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics records ledger activity worth alerting on.
type InventoryMetrics struct {
	writeOffDuration *prometheus.HistogramVec
	overdrafts       *prometheus.CounterVec
	transitions      *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	writeOffDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_write_off_duration_seconds",
		Help:    "Duration of FIFO write-off transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	overdrafts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_overdrafts_total",
		Help: "Write-offs that exceeded physically available stock.",
	}, []string{"product"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Applied order fulfillment status transitions.",
	}, []string{"from", "to"})
	reg.MustRegister(writeOffDuration, overdrafts, transitions)
	return &InventoryMetrics{
		writeOffDuration: writeOffDuration,
		overdrafts:       overdrafts,
		transitions:      transitions,
	}
}

// ObserveWriteOff records the duration of one write-off transaction.
func (m *InventoryMetrics) ObserveWriteOff(outcome string, duration time.Duration) {
	if m == nil || m.writeOffDuration == nil {
		return
	}
	m.writeOffDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncOverdraft counts a write-off that committed with a physical shortfall.
func (m *InventoryMetrics) IncOverdraft(product string) {
	if m == nil || m.overdrafts == nil {
		return
	}
	m.overdrafts.WithLabelValues(normalizeLabel(product)).Inc()
}

// IncTransition counts an applied order status transition.
func (m *InventoryMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
