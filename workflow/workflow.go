package workflow

import (
	"context"
	"fmt"

	"github.com/blackbyt3/subenum/enumerator"
	"github.com/blackbyt3/subenum/heartbeat"
	"github.com/blackbyt3/subenum/reporter"
	"github.com/blackbyt3/subenum/target"
)

type StringMatcher interface {
	MatchString(string) bool
}

// Runner drives one enumeration run: query every requested domain,
// drop excluded hostnames, merge everything into one deduplicated
// result set, hand it to the drain and finally beat the heartbeat.
type Runner struct {
	enumerator enumerator.Enumerator
	exclusion  StringMatcher
	drain      reporter.Reporter
	heartbeat  heartbeat.Heartbeat
}

// NewRunner wires a runner. exclusion may be nil when no hostnames are
// to be filtered out.
func NewRunner(enum enumerator.Enumerator, exclusion StringMatcher, drain reporter.Reporter, beat heartbeat.Heartbeat) *Runner {
	return &Runner{
		enumerator: enum,
		exclusion:  exclusion,
		drain:      drain,
		heartbeat:  beat,
	}
}

func (r *Runner) Run(ctx context.Context, domains []string) error {
	found := target.NewSet()

	for _, domain := range domains {
		domainTargets, err := r.enumerator.Enumerate(ctx, domain)
		if err != nil {
			return fmt.Errorf("unable to enumerate subdomains of %s: %w", domain, err)
		}

		for _, t := range domainTargets {
			if r.exclusion != nil && r.exclusion.MatchString(t.Hostname) {
				continue
			}
			found.Add(t)
		}
	}

	err := r.drain.Report(ctx, found.Sorted())
	if err != nil {
		return fmt.Errorf("reporting error: %w", err)
	}

	err = r.heartbeat.Beat(ctx)
	if err != nil {
		return fmt.Errorf("heartbeat error: %w", err)
	}

	return nil
}
