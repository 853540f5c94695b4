package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleResponse = `{"zones":[{"id":1,"name":"example.com","type":"NATIVE","zone_id":3,"owner":"1, 2","fullname":"alice, Bob B","count_records":4},{"id":2,"name":"example.net","type":"MASTER","zone_id":null,"owner":"","fullname":"","count_records":null}],"reverse_attempted":false}`

func newTestAPI(t *testing.T, check func(r *http.Request)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSearchSendsParameters(t *testing.T) {
	srv := newTestAPI(t, func(r *http.Request) {
		if r.URL.Path != "/v1/zones/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "192.0.2.1" || q.Get("reverse") != "true" || q.Get("limit") != "5" || q.Get("sort") != "-name" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Has("wildcard") {
			t.Errorf("wildcard should be omitted when false")
		}
		if r.Header.Get("Authorization") != "Bearer tok" || r.Header.Get("X-User-ID") != "7" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
	})

	c := &client{baseURL: srv.URL, token: "tok", userID: 7, http: srv.Client()}
	body, err := c.search(context.Background(), searchParams{Query: "192.0.2.1", Reverse: true, Sort: "-name", Limit: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(string(body), "example.com") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestClientSearchReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"unknown user"}`))
	}))
	defer srv.Close()

	c := &client{baseURL: srv.URL, http: srv.Client()}
	_, err := c.search(context.Background(), searchParams{Query: "x"})
	if err == nil || !strings.Contains(err.Error(), "unknown user") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestSearchCommandPrintsTable(t *testing.T) {
	srv := newTestAPI(t, func(r *http.Request) {})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"search", "example", "--wildcard", "--server", srv.URL, "--user", "1"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[1], "alice, Bob B") {
		t.Fatalf("unexpected table:\n%s", out.String())
	}
	if !strings.Contains(lines[2], "-") {
		t.Fatalf("missing count should render as '-':\n%s", out.String())
	}
}

func TestPrintZonesEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := printZones(&out, searchResult{}); err != nil {
		t.Fatalf("printZones: %v", err)
	}
	if strings.TrimSpace(out.String()) != "no zones found" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
