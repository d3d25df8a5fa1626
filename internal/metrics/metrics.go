package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	submissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mediamod_submissions_total",
		Help: "Total media items accepted into the moderation queue",
	})

	transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mediamod_transitions_total",
		Help: "Total moderation status transitions by target status and source",
	}, []string{"to", "via"})

	classificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mediamod_classifications_total",
		Help: "Total AI classification attempts by outcome",
	}, []string{"outcome"})

	itemsDesc = prometheus.NewDesc(
		"mediamod_items",
		"Current number of media items by status",
		[]string{"status"},
		nil,
	)
)

// Classification outcomes.
const (
	OutcomeAutoApproved = "auto_approved"
	OutcomeManualReview = "manual_review"
	OutcomeFailed       = "failed"
)

// StatusCounter provides live per-status item counts. Satisfied by
// *moderation.Store.
type StatusCounter interface {
	Counts() map[string]int
}

// ItemsCollector is a custom Prometheus collector that reads item counts
// from the store on each scrape.
type ItemsCollector struct {
	counts StatusCounter
}

// Describe sends the metric descriptor to the channel.
func (c *ItemsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- itemsDesc
}

// Collect emits the current partition sizes as gauges.
func (c *ItemsCollector) Collect(ch chan<- prometheus.Metric) {
	for status, count := range c.counts.Counts() {
		ch <- prometheus.MustNewConstMetric(itemsDesc, prometheus.GaugeValue, float64(count), status)
	}
}

var initOnce sync.Once

// Init registers all collectors. Must be called once at startup.
func Init(counter StatusCounter) {
	initOnce.Do(func() {
		prometheus.MustRegister(submissionsTotal, transitionsTotal, classificationsTotal)
		prometheus.MustRegister(&ItemsCollector{counts: counter})
	})
}

// RecordSubmission counts an accepted submission.
func RecordSubmission() {
	submissionsTotal.Inc()
}

// RecordTransition counts a status transition.
func RecordTransition(to, via string) {
	transitionsTotal.WithLabelValues(to, via).Inc()
}

// RecordClassification counts a classification attempt outcome.
func RecordClassification(outcome string) {
	classificationsTotal.WithLabelValues(outcome).Inc()
}
