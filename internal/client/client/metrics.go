package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "recipes_client",
		Name:      "requests_total",
		Help:      "API calls by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

func observe(endpoint string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "canceled"
		if apiErr, ok := err.(*APIError); ok {
			outcome = apiErr.Kind.String()
		}
	}
	requestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
