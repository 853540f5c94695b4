package main

import (
	"strconv"
	"strings"
)

const ownerSeparator = ", "

// zoneGroups is an ordered multimap from domain id to its owner rows. Domains
// keep the order in which they were first seen; rows within a domain keep
// insertion order.
type zoneGroups struct {
	order []int64
	rows  map[int64][]zoneRow
}

func newZoneGroups() *zoneGroups {
	return &zoneGroups{rows: make(map[int64][]zoneRow)}
}

func (g *zoneGroups) add(r zoneRow) {
	if _, ok := g.rows[r.DomainID]; !ok {
		g.order = append(g.order, r.DomainID)
	}
	g.rows[r.DomainID] = append(g.rows[r.DomainID], r)
}

func (g *zoneGroups) len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// aggregateZones collapses each domain's owner rows into one result. The
// first row supplies the scalar fields.
func aggregateZones(groups *zoneGroups) []aggregatedZone {
	out := make([]aggregatedZone, 0, groups.len())
	if groups.len() == 0 {
		return out
	}

	for _, id := range groups.order {
		rows := groups.rows[id]
		if len(rows) == 0 {
			continue
		}

		ids := make([]string, 0, len(rows))
		names := make([]string, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, ownerIDText(r))
			names = append(names, ownerDisplayName(r))
		}

		first := rows[0]
		zone := aggregatedZone{
			DomainID:   first.DomainID,
			Name:       toDisplayName(first.DomainName),
			Type:       first.DomainType,
			Owners:     strings.Join(ids, ownerSeparator),
			OwnerNames: strings.Join(names, ownerSeparator),
		}
		if first.ZoneID.Valid {
			v := first.ZoneID.Int64
			zone.ZoneID = &v
		}
		if first.RecordCount.Valid {
			v := first.RecordCount.Int64
			zone.RecordCount = &v
		}
		out = append(out, zone)
	}

	return out
}

// ownerIDText is empty for a domain without an ownership row.
func ownerIDText(r zoneRow) string {
	if !r.OwnerID.Valid {
		return ""
	}
	return strconv.FormatInt(r.OwnerID.Int64, 10)
}

func ownerDisplayName(r zoneRow) string {
	if r.OwnerFullName != "" {
		return r.OwnerFullName
	}
	return r.OwnerUsername
}
