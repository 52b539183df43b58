package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/trafficlab/tunnelsim/tunnel"
)

var (
	// Prometheus metrics
	promMetrics = struct {
		activeOccupants prometheus.Gauge
		completed       prometheus.Gauge
		interrupted     prometheus.Gauge
		preemptions     prometheus.Gauge
		totalEvents     prometheus.Gauge
		entriesTotal    *prometheus.CounterVec
	}{
		activeOccupants: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tunnelsim_active_occupants",
			Help: "Vehicles currently inside a tunnel",
		}),
		completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tunnelsim_completed_vehicles",
			Help: "Vehicles that finished their crossing in the current run",
		}),
		interrupted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tunnelsim_interrupted_vehicles",
			Help: "Vehicles whose crossing was abandoned in the current run",
		}),
		preemptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tunnelsim_preemptions",
			Help: "Emergency preemptions in the current run",
		}),
		totalEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tunnelsim_events",
			Help: "Events logged in the current run",
		}),
		entriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tunnelsim_entries_total",
			Help: "Tunnel entries across all runs, by vehicle kind",
		}, []string{"kind"}),
	}
)

func initPrometheusMetrics() {
	prometheus.MustRegister(
		promMetrics.activeOccupants,
		promMetrics.completed,
		promMetrics.interrupted,
		promMetrics.preemptions,
		promMetrics.totalEvents,
		promMetrics.entriesTotal,
	)
}

// recordEvent updates the occupancy gauge and entry counters as events arrive.
func recordEvent(e tunnel.Event) {
	switch e.Type {
	case tunnel.EventTypeEnter:
		promMetrics.activeOccupants.Inc()
		promMetrics.entriesTotal.WithLabelValues(e.Kind.String()).Inc()
	case tunnel.EventTypeExit:
		promMetrics.activeOccupants.Dec()
	}
}

func updatePrometheusMetrics(stats *tunnel.Stats) {
	promMetrics.completed.Set(float64(stats.Completed))
	promMetrics.interrupted.Set(float64(stats.Interrupted))
	promMetrics.preemptions.Set(float64(stats.Preemptions))
	promMetrics.totalEvents.Set(float64(stats.TotalEvents))
}
