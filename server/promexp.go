// In-process Prometheus view over the expvar stats. Gauges/counters are
// scraped from the same variables stats.go publishes, so the two endpoints
// can never disagree.

package main

import (
	"expvar"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roomery/chat/server/logs"
)

type promExporter struct {
	up                *prometheus.Desc
	roomsCreated      *prometheus.Desc
	messages          *prometheus.Desc
	membershipChanges *prometheus.Desc
	eventsDropped     *prometheus.Desc
	sessionsLive      *prometheus.Desc
	sessionsTotal     *prometheus.Desc
}

func newPromExporter(namespace string) *promExporter {
	return &promExporter{
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "up"),
			"If the server is up.",
			nil,
			nil,
		),
		roomsCreated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "rooms_created_total"),
			"Total number of rooms created since start.",
			nil,
			nil,
		),
		messages: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "messages_total"),
			"Total number of messages stored since start.",
			nil,
			nil,
		),
		membershipChanges: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "membership_changes_total"),
			"Total number of committed membership transitions.",
			nil,
			nil,
		),
		eventsDropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "events_dropped_total"),
			"Events dropped by the fan-out hub.",
			nil,
			nil,
		),
		sessionsLive: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sessions_live_count"),
			"Number of currently attached sessions.",
			nil,
			nil,
		),
		sessionsTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sessions_total"),
			"Total number of sessions since start.",
			nil,
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (e *promExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.up
	ch <- e.roomsCreated
	ch <- e.messages
	ch <- e.membershipChanges
	ch <- e.eventsDropped
	ch <- e.sessionsLive
	ch <- e.sessionsTotal
}

// Collect implements prometheus.Collector.
func (e *promExporter) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(e.up, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(e.roomsCreated, prometheus.CounterValue, expvarInt("RoomsCreatedTotal"))
	ch <- prometheus.MustNewConstMetric(e.messages, prometheus.CounterValue, expvarInt("MessagesTotal"))
	ch <- prometheus.MustNewConstMetric(e.membershipChanges, prometheus.CounterValue, expvarInt("MembershipChangesTotal"))
	ch <- prometheus.MustNewConstMetric(e.eventsDropped, prometheus.CounterValue, expvarInt("EventsDroppedTotal"))
	ch <- prometheus.MustNewConstMetric(e.sessionsLive, prometheus.GaugeValue, expvarInt("SessionsLive"))
	ch <- prometheus.MustNewConstMetric(e.sessionsTotal, prometheus.CounterValue, expvarInt("SessionsTotal"))
}

func expvarInt(name string) float64 {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		return float64(v.Value())
	}
	return 0
}

// promInit exposes the Prometheus scrape endpoint.
func promInit(mux *http.ServeMux, path, namespace string) {
	if path == "" || path == "-" {
		return
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(newPromExporter(namespace))
	mux.Handle(path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	logs.Info.Printf("prometheus: metrics exposed at '%s'", path)
}
