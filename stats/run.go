// Package stats collects the metrics of an analysis run and writes them
// as a node_exporter textfile, so scheduled analyses can be monitored
package stats

import (
	"sync"
	"time"

	"github.com/mensio/brickstat/survey"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "brickstat"

// Run holds the metrics of one run of a workflow.
type Run struct {
	sync.Mutex
	registry *prometheus.Registry
	start    time.Time

	steps      prometheus.Counter
	warnings   prometheus.Counter
	components *prometheus.GaugeVec
	rows       *prometheus.GaugeVec
	duration   prometheus.Gauge
	success    prometheus.Gauge
	lastRun    prometheus.Gauge
}

// NewRun returns the metrics of a run of workflow, starting now.
func NewRun(workflow string) *Run {
	labels := prometheus.Labels{"workflow": workflow}
	r := &Run{
		registry: prometheus.NewRegistry(),
		start:    time.Now(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "steps_total",
			Help:        "The number of workflow steps started.",
			ConstLabels: labels,
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "warnings_total",
			Help:        "The number of warnings raised by the run.",
			ConstLabels: labels,
		}),
		components: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "components",
			Help:        "The number of components analysed, by class.",
			ConstLabels: labels,
		}, []string{"class"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "table_rows",
			Help:        "The number of rows of each result table.",
			ConstLabels: labels,
		}, []string{"table"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "How long the run took.",
			ConstLabels: labels,
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_success",
			Help:        "1 if the run completed, 0 if it failed.",
			ConstLabels: labels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_timestamp_seconds",
			Help:        "When the run finished, in unix seconds.",
			ConstLabels: labels,
		}),
	}
	r.registry.MustRegister(r.steps, r.warnings, r.components, r.rows, r.duration, r.success, r.lastRun)
	return r
}

// Wrap returns a Feedback that counts steps and warnings before passing
// them on to fb.
func (r *Run) Wrap(fb survey.Feedback) survey.Feedback {
	return &feedback{run: r, next: fb}
}

type feedback struct {
	run  *Run
	next survey.Feedback
}

func (f *feedback) Step(step, total int, name string) {
	f.run.steps.Inc()
	f.next.Step(step, total, name)
}

func (f *feedback) Infof(format string, args ...interface{}) {
	f.next.Infof(format, args...)
}

func (f *feedback) Warnf(format string, args ...interface{}) {
	f.run.warnings.Inc()
	f.next.Warnf(format, args...)
}

// Done records the outcome of the run. res is ignored when err is set.
func (r *Run) Done(res survey.Result, err error) {
	r.Lock()
	defer r.Unlock()
	now := time.Now()
	r.duration.Set(now.Sub(r.start).Seconds())
	r.lastRun.Set(float64(now.Unix()))
	if err != nil {
		r.success.Set(0)
		return
	}
	r.success.Set(1)
	total, whole, partial := res.Counts()
	r.components.WithLabelValues("total").Set(float64(total))
	r.components.WithLabelValues("whole").Set(float64(whole))
	r.components.WithLabelValues("partial").Set(float64(partial))
	for _, t := range res.Tables() {
		r.rows.WithLabelValues(t.Name).Set(float64(len(t.Rows)))
	}
}

// WriteTextfile writes the metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Run) WriteTextfile(path string) error {
	r.Lock()
	defer r.Unlock()
	return prometheus.WriteToTextfile(path, r.registry)
}
