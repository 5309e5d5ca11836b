package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

const namespace = "portfolio"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	runDuration     *prom.HistogramVec
	documentResults *prom.CounterVec
	imageResults    *prom.CounterVec
	categoryImages  *prom.GaugeVec
	loadFailures    prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of batch runs by command",
			Buckets:   prom.DefBuckets,
		}, []string{"command"}),
		documentResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_results_total",
			Help:      "Per-document results by stage and outcome",
		}, []string{"stage", "result"}),
		imageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "image_results_total",
			Help:      "Per-image results by stage and outcome",
		}, []string{"stage", "result"}),
		categoryImages: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "category_images",
			Help:      "Images in each category directory after the last run",
		}, []string{"category"}),
		loadFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Documents excluded from a portfolio load because they could not be read",
		}),
	}
	reg.MustRegister(pr.runDuration, pr.documentResults, pr.imageResults, pr.categoryImages, pr.loadFailures)
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(command string, d time.Duration) {
	p.runDuration.WithLabelValues(command).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDocumentResult(stage string, result ResultLabel) {
	p.documentResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncImageResult(stage string, result ResultLabel) {
	p.imageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) SetCategoryImages(category string, n int) {
	p.categoryImages.WithLabelValues(category).Set(float64(n))
}

func (p *PrometheusRecorder) IncLoadFailure() {
	p.loadFailures.Inc()
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

// WriteTextfile writes the current metric values to path in the text
// exposition format, replacing the file atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write metrics file").
			WithContext("path", path).
			Build()
	}
	return nil
}
