package reporter

import (
	"context"
	"log"

	"github.com/blackbyt3/subenum/target"
)

type LogReporter struct {
	logHosts bool
}

func NewLogReporter() *LogReporter {
	return &LogReporter{
		logHosts: false,
	}
}

func (r *LogReporter) SetVerbose(verbose bool) *LogReporter {
	r.logHosts = verbose
	return r
}

func (r *LogReporter) Report(_ context.Context, targets []target.Target) error {
	log.Printf("discovered %d unique hostnames", len(targets))
	if r.logHosts {
		for _, t := range targets {
			log.Printf("hostname %s (apex %s)", t.Hostname, t.Apex)
		}
	}

	return nil
}
