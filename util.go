package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

var errMissingDomainName = errors.New("missing domain name")

// canonicalDomainName returns name in the form domains.name stores it:
// ASCII compatible, lower case, without the trailing root dot.
func canonicalDomainName(name string) (string, error) {
	ascii, err := idnaLookup.ToASCII(strings.TrimSpace(name))
	if err != nil {
		return "", fmt.Errorf("invalid domain name %q: %w", name, err)
	}
	ascii = strings.TrimSuffix(strings.ToLower(ascii), ".")
	if ascii == "" {
		return "", errMissingDomainName
	}
	if _, ok := dns.IsDomainName(ascii); !ok {
		return "", fmt.Errorf("invalid domain name %q", name)
	}
	return ascii, nil
}

func normalizeDomainType(domainType string) string {
	domainType = strings.ToUpper(strings.TrimSpace(domainType))
	switch domainType {
	case "MASTER", "SLAVE":
		return domainType
	default:
		return "NATIVE"
	}
}

func normalizeRecordType(recordType string) (string, bool) {
	recordType = strings.ToUpper(strings.TrimSpace(recordType))
	if _, ok := dns.StringToType[recordType]; !ok {
		return "", false
	}
	return recordType, true
}

func parseBoolParam(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return b
}

func decodeJSON(r io.Reader, out any) error {
	dec := json.NewDecoder(io.LimitReader(r, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func validToken(r *http.Request, expected string) bool {
	bearer := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if bearer != "" && bearer == expected {
		return true
	}

	header := strings.TrimSpace(r.Header.Get("X-API-Token"))
	return header != "" && header == expected
}
