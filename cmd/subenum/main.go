package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/blackbyt3/subenum/enumerator"
	"github.com/blackbyt3/subenum/heartbeat"
	"github.com/blackbyt3/subenum/reporter"
	"github.com/blackbyt3/subenum/securitytrails"
	"github.com/blackbyt3/subenum/workflow"
)

var version = "undefined"

var (
	// global options
	showVersion = flag.Bool("version", false, "show program version and exit")
	timeout     = flag.Duration("timeout", 5*time.Minute, "overall run timeout")

	// enumerator options
	apiKey         = flag.String("api-key", "", "SecurityTrails API key")
	method         = flag.String("method", "list", "enumeration method: list or search")
	maxPages       = flag.Int("max-pages", enumerator.DefaultMaxPages, "page cap for the search method")
	rateEvery      = flag.Duration("rate-every", 300*time.Millisecond, "minimal delay between API requests")
	excludePattern = flag.String("exclude", "", "regexp of hostnames to drop from the results")

	// reporter options
	outputPath   = flag.String("out", "", "output file, one hostname per line (default: stdout)")
	verbose      = flag.Bool("verbose", false, "log every discovered hostname")
	pdRoutingKey = flag.String("pagerduty-key", "", "PagerDuty Events API v2 routing key")

	// heartbeat options
	heartbeatURL = flag.String("heartbeat-url", "", "URL to GET after a successful run")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [options] domain [domain...]\n\nOptions:\n", os.Args[0])
	flag.PrintDefaults()
}

func run() int {
	flag.Usage = usage
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return 0
	}

	domains := flag.Args()
	if len(domains) == 0 {
		log.Print("no target domain specified")
		usage()
		return 2
	}

	if *apiKey == "" {
		envKey := os.Getenv("SECURITYTRAILS_APIKEY")
		if envKey != "" {
			*apiKey = envKey
		}
	}

	if *apiKey == "" {
		log.Print("SecurityTrails API key is not specified. Either set SECURITYTRAILS_APIKEY " +
			"environment variable or specify -api-key command line argument")
		return 2
	}

	enumMethod, err := enumerator.ParseMethod(*method)
	if err != nil {
		log.Printf("bad -method value: %v", err)
		return 2
	}

	var exclusion workflow.StringMatcher
	if *excludePattern != "" {
		re, err := regexp.Compile(*excludePattern)
		if err != nil {
			log.Printf("bad -exclude pattern: %v", err)
			return 2
		}
		exclusion = re
	}

	client, err := securitytrails.New(*apiKey)
	if err != nil {
		log.Printf("unable to construct SecurityTrails client: %v", err)
		return 2
	}

	targetEnum := enumerator.NewSTEnumerator(client, enumMethod, *maxPages, *rateEvery)

	var drains []reporter.Reporter
	if *outputPath != "" {
		drains = append(drains, reporter.NewFileReporter(*outputPath))
	} else {
		drains = append(drains, reporter.NewWriterReporter(os.Stdout))
	}
	drains = append(drains, reporter.NewLogReporter().SetVerbose(*verbose))
	if *pdRoutingKey != "" {
		drains = append(drains, reporter.NewPagerDutyReporter(*pdRoutingKey))
	}

	var beat heartbeat.Heartbeat = heartbeat.NewLogHeartbeat()
	if *heartbeatURL != "" {
		beat = heartbeat.NewURLHeartbeat(*heartbeatURL)
	}

	runner := workflow.NewRunner(targetEnum, exclusion, reporter.NewMultiReporter(drains...), beat)

	ctx, cl := context.WithTimeout(context.Background(), *timeout)
	defer cl()

	if err := runner.Run(ctx, domains); err != nil {
		log.Printf("run failed: %v", err)
		return 1
	}

	return 0
}

func main() {
	log.Default().SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	os.Exit(run())
}
