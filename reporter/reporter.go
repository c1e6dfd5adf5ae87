package reporter

import (
	"context"

	"github.com/blackbyt3/subenum/target"
)

type Reporter interface {
	Report(ctx context.Context, targets []target.Target) error
}
