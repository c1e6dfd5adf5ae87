package sthelper

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeDomain brings a user-supplied domain name into the form the
// SecurityTrails API expects: lowercase ASCII (IDNs converted to
// Punycode), no surrounding whitespace, no leading or trailing dots.
//
// Rejecting garbage here keeps it from ever reaching the network.
func NormalizeDomain(name string) (string, error) {
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return "", errors.New("domain name is empty")
	}

	ascii, err := idna.Lookup.ToASCII(strings.ToLower(name))
	if err != nil {
		return "", fmt.Errorf("invalid domain name %q: %w", name, err)
	}

	return ascii, nil
}
