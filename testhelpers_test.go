package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestPersistence(t *testing.T) *persistence {
	t.Helper()

	cfg := config{
		DBDriver: engineSQLite,
		DBPath:   filepath.Join(t.TempDir(), "zones-test.db"),
	}
	p, err := newPersistence(cfg)
	if err != nil {
		t.Fatalf("newPersistence: %v", err)
	}
	t.Cleanup(func() { _ = p.close() })
	return p
}

func newTestServer(t *testing.T) *server {
	t.Helper()

	p := newTestPersistence(t)
	return &server{
		cfg: config{
			DBDriver:       engineSQLite,
			APIToken:       "token",
			SearchRowLimit: 50,
			SearchMaxRows:  500,
			SearchSort:     "name",
		},
		persist: p,
		search:  newZoneSearcher(p),
		log:     zerolog.Nop(),
		start:   time.Now().Add(-time.Second),
	}
}

func mustCreateUser(t *testing.T, p *persistence, username, fullname string, viewAll bool) userModel {
	t.Helper()

	u, err := p.createUser(context.Background(), createUserRequest{Username: username, FullName: fullname, ViewAllZones: viewAll})
	if err != nil {
		t.Fatalf("createUser %s: %v", username, err)
	}
	return u
}

func mustCreateDomain(t *testing.T, p *persistence, name string, owners ...int64) domainModel {
	t.Helper()

	d, err := p.createDomain(context.Background(), name, "NATIVE", owners)
	if err != nil {
		t.Fatalf("createDomain %s: %v", name, err)
	}
	return d
}

func mustAddRecords(t *testing.T, p *persistence, d domainModel, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		typ := "A"
		_, err := p.addRecord(context.Background(), recordModel{DomainID: d.ID, Name: d.Name, Type: &typ, Content: "192.0.2.1", TTL: 60})
		if err != nil {
			t.Fatalf("addRecord %s: %v", d.Name, err)
		}
	}
}
