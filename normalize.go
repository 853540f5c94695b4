package main

import (
	"encoding/hex"
	"net/netip"
	"slices"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

const likeWildcard = "%"

// Both profiles are non-transitional: ß and ς keep their own code points
// instead of being folded to ss and σ.
var (
	idnaLookup = idna.New(
		idna.MapForLookup(),
		idna.Transitional(false),
		idna.StrictDomainName(false),
	)
	idnaDisplay = idna.New(
		idna.Transitional(false),
		idna.StrictDomainName(false),
	)
)

// normalizeQuery turns raw user input into the LIKE patterns used by the zone
// lookup. Reverse matching is dropped silently when the input is not an IP
// literal.
func normalizeQuery(query string, reverse, wildcard bool) searchTokens {
	var tokens searchTokens

	tokens.Forward = toASCIIName(query)
	if wildcard {
		tokens.Forward = likeWildcard + tokens.Forward + likeWildcard
	}

	if reverse {
		if rev, ok := reverseAddressToken(query); ok {
			tokens.Reverse = likeWildcard + rev + likeWildcard
			tokens.ReverseAttempted = true
		}
	}

	return tokens
}

// toASCIIName returns the ASCII compatible form of a (possibly partial)
// domain name. Inputs idna rejects still yield the best-effort conversion so a
// fragment such as "-test" stays searchable.
func toASCIIName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	out, err := idnaLookup.ToASCII(name)
	if err != nil && out == "" {
		return strings.ToLower(name)
	}
	return out
}

// toDisplayName decodes punycode labels for display. Names that fail to
// decode are returned as stored.
func toDisplayName(name string) string {
	if name == "" {
		return ""
	}

	out, err := idnaDisplay.ToUnicode(name)
	if err != nil && out == "" {
		return name
	}
	return out
}

// reverseAddressToken renders an IP literal the way its PTR owner name starts:
// octets reversed for IPv4, nibbles reversed for IPv6. The reverse zone suffix
// is not included.
func reverseAddressToken(query string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(query))
	if err != nil || addr.Zone() != "" {
		return "", false
	}

	if addr.Is4() {
		arpa, err := dns.ReverseAddr(addr.String())
		if err != nil {
			return "", false
		}
		return strings.TrimSuffix(arpa, ".in-addr.arpa."), true
	}

	raw := addr.As16()
	nibbles := []byte(hex.EncodeToString(raw[:]))
	slices.Reverse(nibbles)

	var b strings.Builder
	b.Grow(len(nibbles) * 2)
	for i, n := range nibbles {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteByte(n)
	}
	return b.String(), true
}
