package filter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var actionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "filter_actions_applied",
	Help: "Number of actions applied to the filter state, by function and outcome",
}, []string{"function", "outcome"})

var actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "filter_action_duration_sec",
	Help:    "Duration of filter action processing, including content resolution",
	Buckets: prometheus.ExponentialBuckets(0.0001, 2, 18),
}, []string{"function"})

var reportsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "filter_reports_executed",
	Help: "Number of reports executed, by kind",
}, []string{"kind"})

var usersSuspended = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filter_users_suspended",
	Help: "Number of users whose status flipped to suspended",
})
