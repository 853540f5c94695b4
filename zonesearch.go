package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var errInvalidRowLimit = errors.New("row limit must be positive")

// sortColumns is the allow-list of orderable columns. Keys are what callers
// send, values are column references in the lookup query.
var sortColumns = map[string]string{
	"name":          "domains.name",
	"type":          "domains.type",
	"count_records": "record_count.count_records",
	"owner":         "u.fullname",
}

// resolveSortKey maps a caller supplied sort key, optionally prefixed with "-"
// for descending order, to an ORDER BY term.
func resolveSortKey(key string) (string, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")

	col, ok := sortColumns[key]
	if !ok {
		return "", false
	}
	if desc {
		return col + " DESC", true
	}
	return col, true
}

type zoneSearcher struct {
	db     *gorm.DB
	engine engineKind
}

func newZoneSearcher(p *persistence) *zoneSearcher {
	return &zoneSearcher{db: p.db, engine: p.engine}
}

// search runs one zone lookup. req.SortKey must already be an ORDER BY term
// from resolveSortKey; it is placed in the query as is.
func (z *zoneSearcher) search(ctx context.Context, req searchRequest) ([]aggregatedZone, searchTokens, error) {
	tokens := normalizeQuery(req.Query, req.Reverse, req.Wildcard)
	if req.RowLimit < 1 {
		return nil, tokens, errInvalidRowLimit
	}

	logger := loggerFrom(ctx)
	logger.Debug().
		Str("forward", tokens.Forward).
		Str("reverse", tokens.Reverse).
		Bool("reverse_attempted", tokens.ReverseAttempted).
		Str("scope", req.Scope.String()).
		Msg("zone search")

	var found []aggregatedZone
	// sql_mode is per connection, so the guard and the lookup share one.
	err := z.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		tx := conn.Session(&gorm.Session{Context: ctx})
		return withRelaxedSessionMode(ctx, gormSession{db: tx}, z.engine, func() error {
			groups, err := fetchZones(tx, tokens, req)
			if err != nil {
				return err
			}
			found = aggregateZones(groups)
			return nil
		})
	})
	if err != nil {
		return nil, tokens, err
	}

	return found, tokens, nil
}

// fetchZones runs the domain/owner/record-count join and groups the rows by
// domain in the order the cursor returns them.
func fetchZones(db *gorm.DB, tokens searchTokens, req searchRequest) (*zoneGroups, error) {
	recordCounts := db.Table("records").
		Select("COUNT(domain_id) AS count_records, domain_id").
		Where("type IS NOT NULL").
		Group("domain_id")

	q := db.Table("domains").
		Select("domains.id, domains.name, domains.type, z.id AS zone_id, z.owner, u.username, u.fullname, record_count.count_records").
		Joins("LEFT JOIN zones z ON domains.id = z.domain_id").
		Joins("LEFT JOIN users u ON z.owner = u.id").
		Joins("LEFT JOIN (?) record_count ON record_count.domain_id = domains.id", recordCounts)

	if tokens.ReverseAttempted {
		q = q.Where("(domains.name LIKE ? OR domains.name LIKE ?)", tokens.Forward, tokens.Reverse)
	} else {
		q = q.Where("domains.name LIKE ?", tokens.Forward)
	}
	if req.Scope == scopeOwn {
		q = q.Where("z.owner = ?", req.UserID)
	}

	rows, err := q.Order(req.SortKey).Order("z.owner").Limit(req.RowLimit).Rows()
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()

	groups := newZoneGroups()
	for rows.Next() {
		var (
			r        zoneRow
			username *string
			fullname *string
		)
		if err := rows.Scan(&r.DomainID, &r.DomainName, &r.DomainType, &r.ZoneID, &r.OwnerID, &username, &fullname, &r.RecordCount); err != nil {
			return nil, fmt.Errorf("scan zone row: %w", err)
		}
		if username != nil {
			r.OwnerUsername = *username
		}
		if fullname != nil {
			r.OwnerFullName = *fullname
		}
		groups.add(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read zone rows: %w", err)
	}

	return groups, nil
}
