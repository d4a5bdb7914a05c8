package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var actionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "filterd_action_requests",
	Help: "Number of action requests received over HTTP, by response status",
}, []string{"status"})

var snapshotSaves = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "filterd_snapshot_saves",
	Help: "Number of state snapshot saves, by result",
}, []string{"result"})

var lastHeight = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "filterd_last_height",
	Help: "Block height of the last accepted action",
})
