// Package metrics collects and exposes Prometheus metrics for the
// engine's session tracking, reconciliation, and goal aggregation.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the session.Metrics and goal.Metrics interfaces
// on top of Prometheus counters.
type Collector struct {
	sessionsStarted prometheus.Counter
	sessionsEnded   prometheus.Counter
	studySeconds    prometheus.Counter
	repairs         *prometheus.CounterVec
	goalsRecomputed prometheus.Counter
	milestones      *prometheus.CounterVec
	goalsCompleted  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studytrack_sessions_started_total",
			Help: "Study sessions started.",
		}),
		sessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studytrack_sessions_ended_total",
			Help: "Study sessions ended normally.",
		}),
		studySeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studytrack_study_seconds_total",
			Help: "Total recorded study seconds.",
		}),
		repairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studytrack_session_repairs_total",
			Help: "Session rows repaired by the reconciler, by repair kind.",
		}, []string{"kind"}),
		goalsRecomputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studytrack_goals_recomputed_total",
			Help: "Goal progress recomputations.",
		}),
		milestones: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studytrack_goal_milestones_total",
			Help: "Goal milestones crossed, by threshold.",
		}, []string{"milestone"}),
		goalsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studytrack_goals_completed_total",
			Help: "Goals that reached completion.",
		}),
	}

	reg.MustRegister(
		c.sessionsStarted,
		c.sessionsEnded,
		c.studySeconds,
		c.repairs,
		c.goalsRecomputed,
		c.milestones,
		c.goalsCompleted,
	)

	return c
}

// RecordSessionStarted counts a started session.
func (c *Collector) RecordSessionStarted() {
	c.sessionsStarted.Inc()
}

// RecordSessionEnded counts an ended session and its duration.
func (c *Collector) RecordSessionEnded(durationSeconds int) {
	c.sessionsEnded.Inc()
	c.studySeconds.Add(float64(durationSeconds))
}

// RecordRepair counts one reconciler repair by kind.
func (c *Collector) RecordRepair(kind string) {
	c.repairs.WithLabelValues(kind).Inc()
}

// RecordGoalRecomputed counts one goal recomputation.
func (c *Collector) RecordGoalRecomputed() {
	c.goalsRecomputed.Inc()
}

// RecordMilestone counts a crossed milestone.
func (c *Collector) RecordMilestone(milestone int) {
	c.milestones.WithLabelValues(strconv.Itoa(milestone)).Inc()
}

// RecordGoalCompleted counts a completed goal.
func (c *Collector) RecordGoalCompleted() {
	c.goalsCompleted.Inc()
}

// Handler returns the HTTP handler serving Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
