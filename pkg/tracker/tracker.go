package tracker

import "context"

// Tracker is the build tracking service that receives published metadata
// for a named pipeline run. Both calls are idempotent on the remote side,
// repeated identical payloads are safe.
type Tracker interface {
	UpdateAnnotations(ctx context.Context, run string, annotations map[string]string) error
	UpdateLabels(ctx context.Context, run string, labels map[string]string) error
}
