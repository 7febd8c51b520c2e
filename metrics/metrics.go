// Package metrics exposes the pipeline's counters through a private
// prometheus registry. A nil *Recorder is valid and records nothing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kindmarket"

// Drop reasons.
const (
	ReasonMissingIdentity = "missing_identity"
	ReasonMissingSource   = "missing_source"
	ReasonDuplicate       = "duplicate"
	ReasonMissingSeller   = "missing_seller"
)

// Recorder holds the pipeline counters.
type Recorder struct {
	registry *prometheus.Registry

	RecordsLoaded  *prometheus.CounterVec
	RecordsDropped *prometheus.CounterVec
	Families       prometheus.Gauge
	Variants       prometheus.Gauge
	OffersByFlag   *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		RecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Raw listing records read, by category.",
		}, []string{"category"}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Records or offers discarded during normalization, by reason.",
		}, []string{"reason"}),
		Families: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "product_families",
			Help:      "Product families in the latest snapshot.",
		}),
		Variants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "variants",
			Help:      "Variants (SKUs) in the latest snapshot.",
		}),
		OffersByFlag: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "marketplace_offers_total",
			Help:      "Marketplace offers by price flag; offers without a deviation use flag \"none\".",
		}, []string{"price_flag"}),
	}

	r.registry.MustRegister(r.RecordsLoaded, r.RecordsDropped, r.Families, r.Variants, r.OffersByFlag)
	return r
}

func (r *Recorder) Loaded(category string, n int) {
	if r == nil {
		return
	}
	r.RecordsLoaded.WithLabelValues(category).Add(float64(n))
}

func (r *Recorder) Dropped(reason string) {
	if r == nil {
		return
	}
	r.RecordsDropped.WithLabelValues(reason).Inc()
}

func (r *Recorder) Offer(flag string) {
	if r == nil {
		return
	}
	if flag == "" {
		flag = "none"
	}
	r.OffersByFlag.WithLabelValues(flag).Inc()
}

func (r *Recorder) Snapshot(families, variants int) {
	if r == nil {
		return
	}
	r.Families.Set(float64(families))
	r.Variants.Set(float64(variants))
}

// WriteTextfile writes the current metric values in the text exposition
// format, suitable for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %q: %w", path, err)
	}
	return nil
}
