package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipes",
			Name:      "search_dispatched_total",
			Help:      "Listing requests sent, by listing kind.",
		},
		[]string{"kind"},
	)

	searchesSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipes",
			Name:      "search_superseded_total",
			Help:      "Listing responses dropped because a newer request was issued.",
		},
	)
)

func (k ListingKind) String() string {
	if k == ListingFavorites {
		return "favorites"
	}
	return "search"
}
