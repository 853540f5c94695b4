package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const onlyFullGroupBy = "ONLY_FULL_GROUP_BY"

// sessionConn is the slice of a pinned database connection the session-mode
// guard needs.
type sessionConn interface {
	queryOne(ctx context.Context, query string, args ...any) (string, error)
	exec(ctx context.Context, query string, args ...any) error
}

// gormSession adapts a gorm handle bound to a single connection.
type gormSession struct {
	db *gorm.DB
}

func (g gormSession) queryOne(ctx context.Context, query string, args ...any) (string, error) {
	var out string
	if err := g.db.WithContext(ctx).Raw(query, args...).Row().Scan(&out); err != nil {
		return "", err
	}
	return out, nil
}

func (g gormSession) exec(ctx context.Context, query string, args ...any) error {
	return g.db.WithContext(ctx).Exec(query, args...).Error
}

// sessionModeGuard holds the sql_mode to put back once the relaxed query is done.
// A zero saved mode means nothing was changed.
type sessionModeGuard struct {
	conn  sessionConn
	saved string
}

// relaxSessionMode drops ONLY_FULL_GROUP_BY from the MySQL session sql_mode.
// Other engines have no such mode and get a guard that restores nothing.
//
// The guard is not reentrant: a nested call sees the relaxed mode as the
// current mode and records nothing to restore.
func relaxSessionMode(ctx context.Context, conn sessionConn, engine engineKind) (*sessionModeGuard, error) {
	g := &sessionModeGuard{conn: conn}
	if engine != engineMySQL {
		return g, nil
	}

	mode, err := conn.queryOne(ctx, "SELECT @@SESSION.sql_mode")
	if err != nil {
		return nil, fmt.Errorf("read sql_mode: %w", err)
	}

	relaxed, ok := withoutModeFlag(mode, onlyFullGroupBy)
	if !ok {
		return g, nil
	}

	if err := conn.exec(ctx, "SET SESSION sql_mode = ?", relaxed); err != nil {
		return nil, fmt.Errorf("relax sql_mode: %w", err)
	}
	g.saved = mode
	return g, nil
}

// restore reapplies the saved sql_mode. It runs even when ctx is already
// cancelled so the pooled connection never goes back relaxed.
func (g *sessionModeGuard) restore(ctx context.Context) error {
	if g == nil || g.saved == "" {
		return nil
	}

	mode := g.saved
	g.saved = ""
	if err := g.conn.exec(context.WithoutCancel(ctx), "SET SESSION sql_mode = ?", mode); err != nil {
		return fmt.Errorf("restore sql_mode: %w", err)
	}
	return nil
}

// withRelaxedSessionMode runs fn with ONLY_FULL_GROUP_BY lifted and restores the
// session mode on every exit path. A restore failure is joined with fn's error.
func withRelaxedSessionMode(ctx context.Context, conn sessionConn, engine engineKind, fn func() error) (err error) {
	guard, err := relaxSessionMode(ctx, conn, engine)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := guard.restore(ctx); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	return fn()
}

// withoutModeFlag removes flag from a comma separated sql_mode list. It
// reports false when flag is not present.
func withoutModeFlag(mode, flag string) (string, bool) {
	if mode == "" {
		return mode, false
	}

	parts := strings.Split(mode, ",")
	kept := make([]string, 0, len(parts))
	found := false
	for _, p := range parts {
		if strings.EqualFold(strings.TrimSpace(p), flag) {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return mode, false
	}
	return strings.Join(kept, ","), true
}
