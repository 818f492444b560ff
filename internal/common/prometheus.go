package common

import "github.com/prometheus/client_golang/prometheus"

const (
	ActiveConnections    = "chat_active_connections"
	CommandsTotal        = "chat_commands_total"
	BroadcastsTotal      = "chat_broadcasts_total"
	DeliveriesTotal      = "chat_deliveries_total"
	AuthFailuresTotal    = "chat_auth_failures_total"
	DroppedPayloadsTotal = "chat_dropped_payloads_total"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		ActiveConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: ActiveConnections,
			Help: "Number of currently open websocket connections",
		}, []string{}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CommandsTotal,
			Help: "Count of commands processed by the worker pool",
		}, []string{"command"}),
		BroadcastsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BroadcastsTotal,
			Help: "Count of chat messages broadcast",
		}, []string{}),
		DeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DeliveriesTotal,
			Help: "Count of per-recipient message deliveries",
		}, []string{}),
		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: AuthFailuresTotal,
			Help: "Count of failed login and register attempts",
		}, []string{"command"}),
		DroppedPayloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DroppedPayloadsTotal,
			Help: "Count of inbound payloads dropped before dispatch",
		}, []string{"reason"}),
	}
)
