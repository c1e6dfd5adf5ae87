package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/PagerDuty/go-pagerduty"
	"github.com/hashicorp/go-multierror"

	"github.com/blackbyt3/subenum/target"
)

// PagerDutyReporter raises one event per apex domain summarizing the
// discovery. Useful for scheduled runs watching the attack surface of
// a domain: the dedup key keeps repeated runs from piling up alerts.
type PagerDutyReporter struct {
	routingKey string
}

func NewPagerDutyReporter(routingKey string) *PagerDutyReporter {
	return &PagerDutyReporter{
		routingKey: routingKey,
	}
}

func (r *PagerDutyReporter) Report(ctx context.Context, targets []target.Target) error {
	perApex := make(map[string]int)
	for _, t := range targets {
		perApex[t.Apex]++
	}

	var resultErr error

	for apex, count := range perApex {
		event := pagerduty.V2Event{
			RoutingKey: r.routingKey,
			Action:     "trigger",
			DedupKey:   fmt.Sprintf("subenum/%s", apex),
			Payload: &pagerduty.V2Payload{
				Summary:   fmt.Sprintf("%d hostnames discovered under %s", count, apex),
				Source:    apex,
				Severity:  "info",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		}

		_, err := pagerduty.ManageEventWithContext(ctx, event)
		if err != nil {
			resultErr = multierror.Append(resultErr, err)
		}
	}

	return resultErr
}
