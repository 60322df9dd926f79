package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_cache_hits_total",
			Help: "Total number of cache lookups that found an entry",
		},
		[]string{"collection"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_cache_misses_total",
			Help: "Total number of cache lookups that found nothing",
		},
		[]string{"collection"},
	)

	cacheExpiries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_cache_expired_total",
			Help: "Total number of expiry checks that reported a stale collection",
		},
		[]string{"collection"},
	)
)
