package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var chunksIndexedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_indexed_total",
	Help: "Number of chunks written to the vector index",
})

var generationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "generation_outcomes_total",
	Help: "Generation results by engine and outcome status",
}, []string{"engine", "status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30, 60},
}, []string{"service"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_request_duration_seconds",
	Help:    "Total time spent per pipeline operation.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120},
}, []string{"operation"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureOperationMetrics(operation string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(operation).Observe(timeElapsed.Seconds())
}

func CountChunksIndexed(n int) {
	chunksIndexedTotal.Add(float64(n))
}

func CountGenerationOutcome(engine string, status string) {
	generationOutcomes.WithLabelValues(engine, status).Inc()
}
