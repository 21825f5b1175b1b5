package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Quote sources for the added counter.
const (
	SourceLocal  = "local"
	SourceImport = "import"
	SourceRemote = "remote"
)

var (
	quotesAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quotekeeper",
		Name:      "quotes_added_total",
		Help:      "Quotes appended to the store, by source.",
	}, []string{"source"})

	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quotekeeper",
		Name:      "sync_runs_total",
		Help:      "Remote sync runs, by result.",
	}, []string{"result"})

	remotePushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quotekeeper",
		Name:      "remote_pushes_total",
		Help:      "Fire-and-forget pushes to the remote, by result.",
	}, []string{"result"})
)

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}

	return "success"
}
