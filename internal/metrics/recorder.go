package metrics

import "time"

// PageResult labels what happened to a rendered page.
type PageResult string

const (
	PageWritten   PageResult = "written"
	PageUnchanged PageResult = "unchanged"
)

// BuildOutcome labels the end state of a run.
type BuildOutcome string

const (
	OutcomeSuccess BuildOutcome = "success"
	OutcomeFailed  BuildOutcome = "failed"
)

// Recorder defines observability hooks for generation runs.
type Recorder interface {
	SetSites(topology string, n int)
	IncPage(kind string, result PageResult)
	IncSiteWithoutTarget()
	IncBuildOutcome(outcome BuildOutcome)
	ObserveBuildDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) SetSites(string, int)               {}
func (NoopRecorder) IncPage(string, PageResult)         {}
func (NoopRecorder) IncSiteWithoutTarget()              {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)       {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
