package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK             = "ok"
	outcomeTransportError = "transport_error"
	outcomeStatusError    = "status_error"
	outcomeDecodeError    = "decode_error"
)

var remoteCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "restaurant_api_requests_total",
		Help: "Total number of requests issued to the restaurant API",
	},
	[]string{"operation", "outcome"},
)

func observeRemoteCall(operation, outcome string) {
	remoteCallsTotal.WithLabelValues(operation, outcome).Inc()
}
