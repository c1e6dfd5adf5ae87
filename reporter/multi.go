package reporter

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/blackbyt3/subenum/target"
)

// MultiReporter fans results out to every configured drain. All drains
// get a chance to run; their failures are aggregated.
type MultiReporter struct {
	reporters []Reporter
}

func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	return &MultiReporter{
		reporters: reporters,
	}
}

func (r *MultiReporter) Report(ctx context.Context, targets []target.Target) error {
	var resultErr error

	for _, reporter := range r.reporters {
		if err := reporter.Report(ctx, targets); err != nil {
			resultErr = multierror.Append(resultErr, err)
		}
	}

	return resultErr
}
