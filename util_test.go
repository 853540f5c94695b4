package main

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCanonicalDomainName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "  Example.COM. ", want: "example.com", ok: true},
		{in: "münchen.de", want: "xn--mnchen-3ya.de", ok: true},
		{in: "4.3.2.1.in-addr.arpa", want: "4.3.2.1.in-addr.arpa", ok: true},
		{in: ""},
		{in: "."},
	}
	for _, tt := range tests {
		got, err := canonicalDomainName(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("canonicalDomainName(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("canonicalDomainName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDomainType(t *testing.T) {
	if got := normalizeDomainType(" master "); got != "MASTER" {
		t.Fatalf("unexpected type %q", got)
	}
	if got := normalizeDomainType("weird"); got != "NATIVE" {
		t.Fatalf("unexpected type %q", got)
	}
}

func TestNormalizeRecordType(t *testing.T) {
	if got, ok := normalizeRecordType("ptr"); !ok || got != "PTR" {
		t.Fatalf("unexpected PTR result %q %v", got, ok)
	}
	if _, ok := normalizeRecordType("NOPE"); ok {
		t.Fatal("expected unknown type to be rejected")
	}
}

func TestDecodeJSONUnknownFields(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}
	err := decodeJSON(strings.NewReader(`{"a":1,"b":2}`), &out)
	if err == nil {
		t.Fatal("expected decodeJSON to reject unknown field")
	}
}

func TestParseBoolParam(t *testing.T) {
	for in, want := range map[string]bool{"1": true, "true": true, " TRUE ": true, "0": false, "": false, "on": false} {
		if got := parseBoolParam(in); got != want {
			t.Fatalf("parseBoolParam(%q) = %v", in, got)
		}
	}
}

func TestValidToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer abc")
	if !validToken(r, "abc") {
		t.Fatal("expected bearer token to pass")
	}

	r2 := httptest.NewRequest("GET", "/", nil)
	r2.Header.Set("X-API-Token", "xyz")
	if !validToken(r2, "xyz") {
		t.Fatal("expected X-API-Token to pass")
	}
}
