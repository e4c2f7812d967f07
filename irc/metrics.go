package irc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the Prometheus registry used by this package. Applications
// that want the engine's counters exposed mount it on their own promhttp
// handler.
var Registry = prometheus.NewRegistry()

var (
	linesReceived = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "irc_client_lines_received_total",
		Help: "Total protocol lines read from the server",
	})

	linesSent = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "irc_client_lines_sent_total",
		Help: "Total protocol lines written to the server",
	})

	parseErrors = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "irc_client_parse_errors_total",
		Help: "Inbound lines skipped because they failed to parse",
	})

	pingsAnswered = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "irc_client_pings_answered_total",
		Help: "Server PINGs answered with a PONG",
	})

	messagesDropped = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "irc_client_messages_dropped_total",
		Help: "Delivered messages evicted because the application fell behind",
	})
)
