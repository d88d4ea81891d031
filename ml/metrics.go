package ml

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes training progress as Prometheus collectors.
type Metrics struct {
	Epochs    prometheus.Counter
	Samples   prometheus.Counter
	EpochLoss prometheus.Gauge
	EvalLoss  prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Epochs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "epochs_total",
			Help:      "Completed training epochs.",
		}),
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Samples used for a weight update.",
		}),
		EpochLoss: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "epoch_loss",
			Help:      "Average loss of the last completed epoch.",
		}),
		EvalLoss: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "eval_loss",
			Help:      "Average loss of the last evaluation.",
		}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Epochs, m.Samples, m.EpochLoss, m.EvalLoss} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observeEpoch(samples int, loss float64) {
	if m == nil {
		return
	}
	m.Epochs.Inc()
	m.Samples.Add(float64(samples))
	m.EpochLoss.Set(loss)
}

func (m *Metrics) observeEval(loss float64) {
	if m == nil {
		return
	}
	m.EvalLoss.Set(loss)
}
