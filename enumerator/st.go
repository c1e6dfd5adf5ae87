package enumerator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/blackbyt3/subenum/enumerator/sthelper"
	"github.com/blackbyt3/subenum/securitytrails"
	"github.com/blackbyt3/subenum/target"
)

// DefaultMaxPages caps the search pagination loop so a misbehaving API
// handing out cursors forever cannot spin us indefinitely.
const DefaultMaxPages = 10

type STEnumerator struct {
	client   *securitytrails.Client
	method   Method
	maxPages int
	limiter  *rate.Limiter
}

// NewSTEnumerator builds an enumerator on top of a SecurityTrails
// client. rateEvery is the minimal interval between API requests; zero
// or negative disables pacing. maxPages <= 0 selects DefaultMaxPages.
func NewSTEnumerator(client *securitytrails.Client, method Method, maxPages int, rateEvery time.Duration) *STEnumerator {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	limit := rate.Inf
	if rateEvery > 0 {
		limit = rate.Every(rateEvery)
	}

	return &STEnumerator{
		client:   client,
		method:   method,
		maxPages: maxPages,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (e *STEnumerator) Enumerate(ctx context.Context, domain string) ([]target.Target, error) {
	domain, err := sthelper.NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	switch e.method {
	case MethodList:
		return e.enumerateList(ctx, domain)
	case MethodSearch:
		return e.enumerateSearch(ctx, domain)
	default:
		return nil, fmt.Errorf("unsupported enumeration method %v", e.method)
	}
}

// enumerateList does a single round trip and joins each returned label
// with the apex domain.
func (e *STEnumerator) enumerateList(ctx context.Context, domain string) ([]target.Target, error) {
	err := e.limiter.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("error waiting for ratelimit: %w", err)
	}

	labels, err := e.client.ListSubdomains(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("ListSubdomains failed: %w", err)
	}

	found := target.NewSet()
	for _, label := range labels {
		label = strings.ToLower(strings.Trim(label, "."))
		if label == "" {
			continue
		}

		hostname := label + "." + domain
		if label == domain || strings.HasSuffix(label, "."+domain) {
			hostname = label
		}

		found.Add(target.Target{Hostname: hostname, Apex: domain})
	}

	return found.Sorted(), nil
}

// enumerateSearch walks the paginated search endpoint until the API
// stops handing out a continuation cursor, the page comes back empty,
// or the page cap is reached.
func (e *STEnumerator) enumerateSearch(ctx context.Context, domain string) ([]target.Target, error) {
	found := target.NewSet()

	var cursor string
	for page := 0; page < e.maxPages; page++ {
		err := e.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("error waiting for ratelimit: %w", err)
		}

		res, err := e.client.SearchDomains(ctx, domain, cursor)
		if err != nil {
			return nil, fmt.Errorf("SearchDomains failed on page %d: %w", page+1, err)
		}

		for _, hostname := range res.Hostnames {
			hostname = strings.ToLower(strings.Trim(hostname, "."))
			if hostname != domain && !strings.HasSuffix(hostname, "."+domain) {
				// Search may match records outside the requested apex.
				continue
			}
			found.Add(target.Target{Hostname: hostname, Apex: domain})
		}

		if res.NextCursor == "" || len(res.Hostnames) == 0 {
			break
		}
		cursor = res.NextCursor
	}

	return found.Sorted(), nil
}
