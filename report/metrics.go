package report

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteMetrics stores r at path in the Prometheus text format, ready for
// the node exporter textfile collector.
func WriteMetrics(path string, r Report) error {
	reg := prometheus.NewRegistry()

	score := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wasmbench_score",
		Help: "Mean benchmark score across all trials.",
	}, []string{"engine", "benchmark"})
	trialScore := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wasmbench_trial_score",
		Help: "Benchmark score of a single trial.",
	}, []string{"engine", "benchmark", "trial"})
	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wasmbench_duration_seconds",
		Help: "Wall time spent running all trials.",
	}, []string{"engine", "benchmark"})

	reg.MustRegister(score, trialScore, duration)

	score.WithLabelValues(r.Engine, r.Benchmark).Set(float64(r.Mean))
	duration.WithLabelValues(r.Engine, r.Benchmark).Set(r.Duration.Seconds())
	for i, s := range r.Scores {
		trialScore.WithLabelValues(r.Engine, r.Benchmark, strconv.Itoa(i+1)).Set(float64(s))
	}

	return prometheus.WriteToTextfile(path, reg)
}
