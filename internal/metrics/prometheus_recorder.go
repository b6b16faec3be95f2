package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	taskResults   *prom.CounterVec
	taskDuration  *prom.HistogramVec
	buildDuration prom.Histogram
	tasksPlanned  prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "exbuilder",
			Name:      "task_results_total",
			Help:      "Task result counts by action and outcome",
		}, []string{"action", "result"}),
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "exbuilder",
			Name:      "task_duration_seconds",
			Help:      "Duration of individual build tasks",
			Buckets:   prom.DefBuckets,
		}, []string{"action"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "exbuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		tasksPlanned: prom.NewGauge(prom.GaugeOpts{
			Namespace: "exbuilder",
			Name:      "tasks_planned",
			Help:      "Number of tasks in the last build plan",
		}),
	}
	reg.MustRegister(pr.taskResults, pr.taskDuration, pr.buildDuration, pr.tasksPlanned)
	return pr
}

func (p *PrometheusRecorder) IncTask(action string, result ResultLabel) {
	p.taskResults.WithLabelValues(action, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveTaskDuration(action string, d time.Duration) {
	p.taskDuration.WithLabelValues(action).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetTasksPlanned(n int) {
	p.tasksPlanned.Set(float64(n))
}
