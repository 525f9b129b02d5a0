package floor

import (
	"fmt"
	"strings"
)

var stateAliases = map[string]TableState{
	"free":       StateFree,
	"libre":      StateFree,
	"available":  StateFree,
	"disponible": StateFree,
	"active":     StateFree,
	"activa":     StateFree,

	"occupied": StateOccupied,
	"ocupada":  StateOccupied,

	"awaiting_bill": StateAwaitingBill,
	"awaiting":      StateAwaitingBill,
	"waiting":       StateAwaitingBill,
	"billing":       StateAwaitingBill,
	"esperando":     StateAwaitingBill,

	"grouped":  StateGrouped,
	"agrupada": StateGrouped,

	"inactive":      StateInactive,
	"inactiva":      StateInactive,
	"disabled":      StateInactive,
	"desactivada":   StateInactive,
	"deshabilitada": StateInactive,
}

// ParseTableState maps any known spelling onto the canonical state set.
func ParseTableState(raw string) (TableState, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	s, ok := stateAliases[key]
	return s, ok
}

// IsReservedZoneName reports whether name is one of the reserved zone names.
func IsReservedZoneName(name string) bool {
	n := normalizeName(name)
	for _, r := range reservedZoneNames {
		if n == normalizeName(r) {
			return true
		}
	}
	return false
}

// FindZoneByName looks a zone up case-insensitively.
func FindZoneByName(zones []Zone, name string) (Zone, bool) {
	n := normalizeName(name)
	for _, z := range zones {
		if normalizeName(z.Name) == n {
			return z, true
		}
	}
	return Zone{}, false
}

// FindZone looks a zone up by id.
func FindZone(zones []Zone, id int64) (Zone, bool) {
	for _, z := range zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

// NormalizeZone fills the defaults of a zone record.
func NormalizeZone(z Zone) Zone {
	z.Name = strings.TrimSpace(z.Name)
	switch strings.ToLower(strings.TrimSpace(string(z.Status))) {
	case "inactive", "inactiva", "inactivo", "disabled", "closed":
		z.Status = ZoneInactive
	default:
		z.Status = ZoneActive
	}
	return z
}

// NormalizeTable turns a raw record into the canonical in-memory shape.
// Legacy name references are resolved to ids; references that do not resolve
// to a known zone become nil. The second return value is false when the state
// spelling was unknown and the table was parked as inactive.
func NormalizeTable(raw RawTable, zones []Zone) (Table, bool) {
	state, known := ParseTableState(raw.State)
	if !known {
		state = StateInactive
	}

	t := Table{
		ID:        raw.ID,
		Name:      strings.TrimSpace(raw.Name),
		Capacity:  raw.Capacity,
		State:     state,
		Order:     raw.Order,
		Group:     strings.TrimSpace(raw.Group),
		IsPrimary: raw.IsPrimary,
	}
	if t.Name == "" {
		t.Name = fmt.Sprintf("%s %d", tableNamePrefix, raw.ID)
	}
	if t.Group == "" {
		t.IsPrimary = false
	}
	if state == StateFree || state == StateInactive {
		t.Order = nil
	}

	switch {
	case raw.ZoneID != nil:
		if z, ok := FindZone(zones, *raw.ZoneID); ok {
			id := z.ID
			t.ZoneID = &id
		}
	case raw.ZoneName != "":
		if z, ok := FindZoneByName(zones, raw.ZoneName); ok {
			id := z.ID
			t.ZoneID = &id
		}
	}
	return t, known
}
