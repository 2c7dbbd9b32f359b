package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts builder activity. It implements builder.Observer.
type Metrics struct {
	actions   *prometheus.CounterVec
	drops     *prometheus.CounterVec
	emissions prometheus.Counter
	requests  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qb_actions_total",
				Help: "Actions dispatched, by type and whether they were accepted",
			},
			[]string{"type", "accepted"},
		),
		drops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qb_drops_total",
				Help: "Drops checked against the depth limit",
			},
			[]string{"accepted"},
		),
		emissions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "qb_emissions_total",
				Help: "Complete trees emitted",
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qb_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
	reg.MustRegister(m.actions, m.drops, m.emissions, m.requests)
	return m
}

func (m *Metrics) ActionApplied(action string, accepted bool) {
	m.actions.WithLabelValues(action, strconv.FormatBool(accepted)).Inc()
}

func (m *Metrics) DropChecked(accepted bool) {
	m.drops.WithLabelValues(strconv.FormatBool(accepted)).Inc()
}

func (m *Metrics) Emitted() {
	m.emissions.Inc()
}

func (m *Metrics) request(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
