package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	revisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revision_edits_total",
			Help: "Total number of committed revise calls by decision",
		},
		[]string{"decision"},
	)

	revisionRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revision_rejections_total",
			Help: "Total number of rejected revise calls by reason",
		},
		[]string{"reason"},
	)

	revisionCompactionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revision_compactions_total",
			Help: "Revisions deleted because amends netted out to no change",
		},
	)

	hiddenRevisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revision_hidden_total",
			Help: "Revisions created hidden from public history",
		},
	)
)
