package floor

import (
	"sort"
	"strings"
)

// ValidateZoneName checks a new or renamed zone name against the empty,
// reserved and duplicate rules. excludeID is the zone being renamed (0 on create).
func ValidateZoneName(name string, zones []Zone, excludeID int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validation(ErrEmptyZoneName)
	}
	if IsReservedZoneName(name) {
		return validation(ErrReservedZoneName)
	}
	n := normalizeName(name)
	for _, z := range zones {
		if z.ID != excludeID && normalizeName(z.Name) == n {
			return validation(ErrDuplicateZoneName)
		}
	}
	return nil
}

// ZoneEntry is one tab of the zone listing.
type ZoneEntry struct {
	Zone    Zone
	Virtual bool
	Filter  ZoneFilter
	Tables  int
}

// ListZones returns the virtual All entry followed by the real zones sorted
// by name, with the Unassigned sentinel last. Unassigned is listed even when
// the store has no such row so that tables with no zone stay reachable.
func ListZones(zones []Zone, tables []Table) []ZoneEntry {
	entries := []ZoneEntry{{
		Zone:    Zone{Name: AllZoneName, Status: ZoneActive},
		Virtual: true,
		Filter:  FilterAll,
		Tables:  len(tables),
	}}

	named := make([]Zone, 0, len(zones))
	var unassigned *Zone
	for _, z := range zones {
		if normalizeName(z.Name) == normalizeName(UnassignedZoneName) {
			zz := z
			unassigned = &zz
			continue
		}
		named = append(named, z)
	}
	sort.Slice(named, func(i, j int) bool { return normalizeName(named[i].Name) < normalizeName(named[j].Name) })

	for _, z := range named {
		f := FilterZone(z.ID)
		entries = append(entries, ZoneEntry{Zone: z, Filter: f, Tables: len(FilterTables(tables, zones, f))})
	}

	u := ZoneEntry{Zone: Zone{Name: UnassignedZoneName, Status: ZoneActive}, Virtual: true, Filter: FilterUnassigned}
	if unassigned != nil {
		u.Zone = *unassigned
		u.Virtual = false
	}
	u.Tables = len(FilterTables(tables, zones, FilterUnassigned))
	return append(entries, u)
}

// MoveDestinations lists the zones the tables of sourceID may be moved to:
// active, real, not reserved and not the source itself.
func MoveDestinations(zones []Zone, sourceID int64) []Zone {
	out := make([]Zone, 0, len(zones))
	for _, z := range zones {
		if z.ID == sourceID || !z.Active() || z.Reserved() {
			continue
		}
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return normalizeName(out[i].Name) < normalizeName(out[j].Name) })
	return out
}

// AssignableZones lists the zones a table may be placed in.
func AssignableZones(zones []Zone) []Zone {
	out := make([]Zone, 0, len(zones))
	for _, z := range zones {
		if z.Active() {
			out = append(out, z)
		}
	}
	return out
}
