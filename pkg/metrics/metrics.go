package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway counters. Registered on the default registry and exposed at
// /metrics through promhttp.
var (
	OracleRequestsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fiat_gateway",
		Name:      "oracle_requests_sent_total",
		Help:      "Oracle requests dispatched, by callback selector.",
	}, []string{"callback"})

	OracleFulfillments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fiat_gateway",
		Name:      "oracle_fulfillments_total",
		Help:      "Oracle fulfillments processed, by callback selector and result.",
	}, []string{"callback", "result"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fiat_gateway",
		Name:      "orders_created_total",
		Help:      "Buy orders created.",
	})

	MakersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fiat_gateway",
		Name:      "makers_registered_total",
		Help:      "Makers registered.",
	})
)

// Fulfillment result labels
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)
