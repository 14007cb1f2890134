// Package metrics keeps Prometheus counters for normalization runs and exports them
// as a node-exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Target is the kind of file a normalization read. Labels stay bounded by the two
// targets no matter how many groups exist.
type Target string

const (
	// TargetManager is ossec.conf.
	TargetManager Target = "manager"
	// TargetGroup is any group's agent.conf.
	TargetGroup Target = "group"
)

// Recorder holds the collectors on an isolated registry.
type Recorder struct {
	registry *prometheus.Registry

	transforms  *prometheus.CounterVec
	warnings    *prometheus.CounterVec
	uploads     *prometheus.CounterVec
	sections    *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transforms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossec_conf_transforms_total",
			Help: "Total configuration normalizations by target and result.",
		}, []string{"target", "result"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossec_conf_overwrite_warnings_total",
			Help: "Total sections discarded because a later occurrence replaced them.",
		}, []string{"section"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossec_conf_uploads_total",
			Help: "Total group configuration uploads by result.",
		}, []string{"result"}),
		sections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossec_conf_sections",
			Help: "Number of sections (filter groups for a group) in the last normalized document.",
		}, []string{"target"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossec_conf_last_success_timestamp_seconds",
			Help: "Unix time of the last successful normalization.",
		}, []string{"target"}),
	}
	r.registry.MustRegister(r.transforms, r.warnings, r.uploads, r.sections, r.lastSuccess)
	return r
}

// Registry exposes the underlying registry as a Gatherer.
func (r *Recorder) Registry() prometheus.Gatherer {
	return r.registry
}

// ObserveTransform records one normalization of a target. sections is ignored on failure.
func (r *Recorder) ObserveTransform(target Target, sections int, err error) {
	label := string(target)
	if err != nil {
		r.transforms.WithLabelValues(label, "error").Inc()
		return
	}
	r.transforms.WithLabelValues(label, "ok").Inc()
	r.sections.WithLabelValues(label).Set(float64(sections))
	r.lastSuccess.WithLabelValues(label).SetToCurrentTime()
}

// ObserveWarning records a replaced Last-policy section.
func (r *Recorder) ObserveWarning(section string) {
	r.warnings.WithLabelValues(section).Inc()
}

// ObserveUpload records the outcome of a group configuration upload.
func (r *Recorder) ObserveUpload(result string) {
	r.uploads.WithLabelValues(result).Inc()
}

// WriteTextfile atomically writes the current values to path in the text exposition
// format. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
