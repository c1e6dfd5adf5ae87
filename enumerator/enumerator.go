package enumerator

import (
	"context"
	"fmt"

	"github.com/blackbyt3/subenum/target"
)

type Enumerator interface {
	Enumerate(ctx context.Context, domain string) ([]target.Target, error)
}

// Method selects which SecurityTrails endpoint drives the enumeration.
type Method int

const (
	// MethodList uses the flat per-domain subdomain listing.
	MethodList = Method(iota)
	// MethodSearch uses the paginated domain search.
	MethodSearch = Method(iota)
)

func (m Method) String() string {
	switch m {
	case MethodList:
		return "list"
	case MethodSearch:
		return "search"
	default:
		return "unknown"
	}
}

func ParseMethod(s string) (Method, error) {
	switch s {
	case "list":
		return MethodList, nil
	case "search":
		return MethodSearch, nil
	default:
		return 0, fmt.Errorf("unknown enumeration method %q (expected \"list\" or \"search\")", s)
	}
}
