package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux builds the side-port HTTP surface: probes, metrics and the outbox
// events listing. A nil gatherer leaves /metrics unregistered.
func NewMux(gatherer prometheus.Gatherer, events *EventsHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	if events != nil {
		mux.Handle("/api/v1/events", events)
	}
	return mux
}
