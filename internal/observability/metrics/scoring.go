// Package metrics provides shared helpers for emitting scoring pipeline metrics.
package metrics

import (
	"time"

	obserrors "github.com/bountylab/scoring-api/internal/observability/errors"
	"github.com/bountylab/scoring-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// TransitionMetric captures details about a job transition for metric emission.
type TransitionMetric struct {
	Status   string
	Action   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitTransition emits standardised job transition metrics.
func EmitTransition(sink statsd.Sink, in TransitionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"status": in.Status,
		"action": in.Action,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job.transition", 1, tags)
	if in.Duration > 0 {
		sink.Timing("job.transition_duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
