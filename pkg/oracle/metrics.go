package oracle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsoracle_queries_total",
		Help: "Total independence queries answered, by verdict.",
	}, []string{"verdict"})

	memoHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsoracle_memo_hits_total",
		Help: "Queries answered from the memo or the persistent result cache.",
	})

	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsoracle_searches_total",
		Help: "Underlying d-separation path searches executed.",
	})
)
