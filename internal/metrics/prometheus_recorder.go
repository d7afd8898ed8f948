package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docnav"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	sites          *prom.GaugeVec
	pages          *prom.CounterVec
	withoutTarget  prom.Counter
	buildOutcome   *prom.CounterVec
	buildDuration  prom.Histogram
	lastCompletion prom.Gauge
}

// NewPrometheusRecorder constructs and registers the metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		sites: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sites",
			Help:      "Sites found in the docs tree by topology",
		}, []string{"topology"}),
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Generated pages by kind and write result",
		}, []string{"kind", "result"}),
		withoutTarget: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sites_without_target_total",
			Help:      "Sites with no branch, release or pull request to redirect to",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Generation runs by final status",
		}, []string{"outcome"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a generation run",
			Buckets:   prom.DefBuckets,
		}),
		lastCompletion: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_completion_timestamp_seconds",
			Help:      "Unix time of the last finished generation run",
		}),
	}
	reg.MustRegister(pr.sites, pr.pages, pr.withoutTarget, pr.buildOutcome, pr.buildDuration, pr.lastCompletion)
	return pr
}

func (p *PrometheusRecorder) SetSites(topology string, n int) {
	if p == nil {
		return
	}
	p.sites.Reset()
	p.sites.WithLabelValues(topology).Set(float64(n))
}

func (p *PrometheusRecorder) IncPage(kind string, result PageResult) {
	if p == nil {
		return
	}
	p.pages.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) IncSiteWithoutTarget() {
	if p == nil {
		return
	}
	p.withoutTarget.Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
	p.lastCompletion.SetToCurrentTime()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}
