package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsOpen tracks live client connections.
	ConnectionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomcast_connections_open",
		Help: "Number of open client connections.",
	})

	// RoomsLive tracks rooms in the registry, including rooms inside their
	// deletion grace period.
	RoomsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomcast_rooms_live",
		Help: "Number of rooms currently in the registry.",
	})

	// MessagesRelayed counts messages fanned out to a room.
	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomcast_messages_relayed_total",
		Help: "Total messages relayed to room members.",
	})

	// MessagesDropped counts messages discarded because the sender had no
	// active session.
	MessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomcast_messages_dropped_total",
		Help: "Total messages dropped for lack of an active session.",
	})

	// EventsDropped counts events discarded because a connection's send
	// buffer was full.
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomcast_events_dropped_total",
		Help: "Total events dropped due to slow consumers.",
	})
)

// Handler exposes Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
