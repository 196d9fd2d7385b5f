package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_active_sessions",
		Help: "Number of currently connected sessions",
	})

	sessionsAuthenticated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_sessions_authenticated_total",
		Help: "Total number of sessions that completed authentication",
	})

	broadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcasts_total",
		Help: "Total number of chat messages broadcast through the room",
	})

	messagesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_delivered_total",
		Help: "Total number of frames written to recipients",
	})
)
