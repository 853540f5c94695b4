package main

import "testing"

func TestNormalizeQueryForwardToken(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wildcard bool
		want     string
	}{
		{name: "exact", query: "example.com", want: "example.com"},
		{name: "trimmed and lowered", query: "  Example.COM ", want: "example.com"},
		{name: "wildcard", query: "exam", wildcard: true, want: "%exam%"},
		{name: "idn", query: "münchen.de", want: "xn--mnchen-3ya.de"},
		{name: "idn non-transitional", query: "faß.de", want: "xn--fa-hia.de"},
		{name: "idn wildcard", query: " bücher ", wildcard: true, want: "%xn--bcher-kva%"},
		{name: "empty wildcard", query: "", wildcard: true, want: "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeQuery(tt.query, false, tt.wildcard)
			if got.Forward != tt.want {
				t.Fatalf("forward token = %q, want %q", got.Forward, tt.want)
			}
			if got.ReverseAttempted || got.Reverse != "" {
				t.Fatalf("reverse should not be attempted: %#v", got)
			}
		})
	}
}

func TestReverseAddressToken(t *testing.T) {
	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{query: "1.2.3.4", want: "4.3.2.1", ok: true},
		{query: " 192.0.2.10 ", want: "10.2.0.192", ok: true},
		{query: "2001:db8::1", want: "1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.8.b.d.0.1.0.0.2", ok: true},
		{query: "2001:DB8::1", want: "1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.8.b.d.0.1.0.0.2", ok: true},
		{query: "::ffff:1.2.3.4", want: "4.0.3.0.2.0.1.0.f.f.f.f.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0", ok: true},
		{query: "example.com"},
		{query: "1.2.3"},
		{query: "256.1.1.1"},
		{query: "fe80::1%eth0"},
		{query: ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := reverseAddressToken(tt.query)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeQueryReverseIsAlwaysWildcarded(t *testing.T) {
	got := normalizeQuery("1.2.3.4", true, false)
	if !got.ReverseAttempted {
		t.Fatal("expected reverse matching for an IPv4 literal")
	}
	if got.Reverse != "%4.3.2.1%" {
		t.Fatalf("reverse token = %q", got.Reverse)
	}
	if got.Forward != "1.2.3.4" {
		t.Fatalf("forward token = %q", got.Forward)
	}
}

func TestNormalizeQueryReverseTrimsPaddedAddress(t *testing.T) {
	got := normalizeQuery(" 1.2.3.4\t", true, false)
	if !got.ReverseAttempted {
		t.Fatal("a padded IPv4 literal should still enable reverse matching")
	}
	if got.Reverse != "%4.3.2.1%" {
		t.Fatalf("reverse token = %q", got.Reverse)
	}
	if got.Forward != "1.2.3.4" {
		t.Fatalf("forward token = %q", got.Forward)
	}
}

func TestNormalizeQueryReverseDisabledForNonIP(t *testing.T) {
	got := normalizeQuery("example.com", true, true)
	if got.ReverseAttempted {
		t.Fatal("reverse matching must be skipped for a non IP query")
	}
	if got.Reverse != "" {
		t.Fatalf("unexpected reverse token %q", got.Reverse)
	}
	if got.Forward != "%example.com%" {
		t.Fatalf("forward token = %q", got.Forward)
	}
}

func TestToDisplayName(t *testing.T) {
	tests := map[string]string{
		"xn--mnchen-3ya.de": "münchen.de",
		"xn--fa-hia.de":     "faß.de",
		"example.com":       "example.com",
		"":                  "",
	}
	for in, want := range tests {
		if got := toDisplayName(in); got != want {
			t.Fatalf("toDisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
