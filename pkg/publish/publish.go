package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/turbokube/storemeta/pkg/annotations"
	"github.com/turbokube/storemeta/pkg/labels"
	"github.com/turbokube/storemeta/pkg/tracker"
	"github.com/turbokube/storemeta/pkg/workflow"
	"go.uber.org/zap"
)

// ErrNoPipelineRun aborts a publish that has no run to attach metadata to.
var ErrNoPipelineRun = errors.New("no pipeline run name in user params")

// Result is what one publish cycle assembled, returned to the caller
// whether or not the records were empty.
type Result struct {
	Annotations map[string]string `json:"annotations"`
	Labels      map[string]string `json:"labels"`
}

// Publisher drives the two-phase metadata update for one finished build.
type Publisher struct {
	data      *workflow.Data
	assembler *annotations.Assembler
	tracker   tracker.Tracker
}

func New(data *workflow.Data, assembler *annotations.Assembler, t tracker.Tracker) *Publisher {
	return &Publisher{
		data:      data,
		assembler: assembler,
		tracker:   t,
	}
}

// Publish assembles both records and pushes them, annotations first.
// An empty label record skips the label update entirely. Either remote
// failure is fatal, with the rejected payload logged at debug level.
func (p *Publisher) Publish(ctx context.Context) (*Result, error) {
	run := p.data.UserParams.PipelineRunName
	if run == "" {
		zap.L().Error("no pipeline run name found")
		return nil, ErrNoPipelineRun
	}
	zap.L().Info("publishing build metadata", zap.String("pipelineRun", run))

	record := p.assembler.Assemble()
	if err := p.tracker.UpdateAnnotations(ctx, run, record); err != nil {
		zap.L().Debug("annotations", zap.Any("annotations", record))
		return nil, fmt.Errorf("update annotations on %s: %w", run, err)
	}

	merged := labels.Assemble(p.data.Labels, p.data.BuildResult.Labels)
	if len(merged) > 0 {
		if err := p.tracker.UpdateLabels(ctx, run, merged); err != nil {
			zap.L().Debug("labels", zap.Any("labels", merged))
			return nil, fmt.Errorf("update labels on %s: %w", run, err)
		}
	}

	return &Result{Annotations: record, Labels: merged}, nil
}
