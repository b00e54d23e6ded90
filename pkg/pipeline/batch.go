package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"girder/pkg/model"
)

// Input is one structure in a batch run.
type Input struct {
	Name    string
	Members []model.Member
	Joints  []model.Joint
}

// BatchResult pairs a structure's output with its error, if any. Errors are
// captured per structure so one bad input never sinks the rest of the batch.
type BatchResult struct {
	Name   string
	Output *model.Output
	Err    error
}

// RunBatch validates independent structures in parallel. Each run owns its
// own model arena, so no locking is needed beyond the indexed result slice.
// Results come back in input order regardless of completion order.
func (p *Pipeline) RunBatch(ctx context.Context, inputs []Input, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(inputs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			out, err := p.Run(gCtx, in.Name, in.Members, in.Joints)
			results[i] = BatchResult{Name: in.Name, Output: out, Err: err}
			return nil // errors are captured per result
		})
	}
	_ = g.Wait()
	return results
}
