package floor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

const tableNamePrefix = "Table"

var trailingNumber = regexp.MustCompile(`(\d+)\s*$`)

// IsEditable reports whether t may be renamed, resized, rezoned, deleted or
// disabled. Tables carrying live service never are.
func IsEditable(t Table) bool {
	return t.State == StateFree || t.State == StateInactive
}

// IsInteractive reports whether t responds to clicks in the grid. Secondary
// members of a group and inactive tables do not; inactive tables can still be
// re-enabled explicitly.
func IsInteractive(t Table) bool {
	if t.Secondary() {
		return false
	}
	return t.State != StateInactive
}

// CheckEditable returns a precondition error when t cannot be mutated.
func CheckEditable(t Table) error {
	if t.Secondary() {
		return precondition(ErrTableNotInteractive)
	}
	if !IsEditable(t) {
		return precondition(ErrTableInService)
	}
	return nil
}

// NextTableName suggests "Table N" where N follows the highest numeric suffix in use.
func NextTableName(names []string) string {
	highest := 0
	for _, name := range names {
		m := trailingNumber.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s %d", tableNamePrefix, highest+1)
}

// ZoneLabel is the zone name displayed for t. Unassigned tables, and tables
// whose zone is no longer known, show as Unassigned.
func ZoneLabel(t Table, zones []Zone) string {
	if t.ZoneID == nil {
		return UnassignedZoneName
	}
	if z, ok := FindZone(zones, *t.ZoneID); ok {
		return z.Name
	}
	return UnassignedZoneName
}

// TableView is the display-ready state of one table.
type TableView struct {
	ID          int64
	Name        string
	Capacity    int
	Zone        string
	State       TableState
	Available   bool
	Unavailable bool
	ZoneClosed  bool
	// ReadOnly is a display hint. No mutation path consults it; edits are
	// gated by table state alone (IsEditable).
	ReadOnly    bool
	Interactive bool
	Elapsed     time.Duration
	Total       float64
	AlertCount  int
	Group       string
	Primary     bool
}

// Describe derives how t is shown at instant now.
func Describe(t Table, zones []Zone, now time.Time) TableView {
	v := TableView{
		ID:          t.ID,
		Name:        t.Name,
		Capacity:    t.Capacity,
		Zone:        ZoneLabel(t, zones),
		State:       t.State,
		Group:       t.Group,
		Primary:     t.IsPrimary,
		Interactive: IsInteractive(t),
		ReadOnly:    t.Secondary(),
	}

	if t.ZoneID != nil {
		if z, ok := FindZone(zones, *t.ZoneID); ok && !z.Active() {
			v.ZoneClosed = true
			v.ReadOnly = true
		}
	}

	switch t.State {
	case StateFree:
		v.Available = true
	case StateOccupied, StateAwaitingBill, StateGrouped:
		if t.Order != nil {
			if !t.Order.StartedAt.IsZero() && now.After(t.Order.StartedAt) {
				v.Elapsed = now.Sub(t.Order.StartedAt).Truncate(time.Second)
			}
			v.Total = t.Order.Total
			v.AlertCount = t.Order.AlertCount
		}
	case StateInactive:
		v.Unavailable = true
	}
	return v
}

// ZoneFilter selects the tables shown for one zone tab.
type ZoneFilter struct {
	all        bool
	unassigned bool
	zoneID     int64
}

var (
	FilterAll        = ZoneFilter{all: true}
	FilterUnassigned = ZoneFilter{unassigned: true}
)

func FilterZone(id int64) ZoneFilter { return ZoneFilter{zoneID: id} }

func (f ZoneFilter) matches(t Table, zones []Zone) bool {
	switch {
	case f.all:
		return true
	case f.unassigned:
		return normalizeName(ZoneLabel(t, zones)) == normalizeName(UnassignedZoneName)
	}
	return t.ZoneID != nil && *t.ZoneID == f.zoneID
}

// FilterTables returns the tables matching f, ordered by id.
func FilterTables(tables []Table, zones []Zone, f ZoneFilter) []Table {
	out := make([]Table, 0, len(tables))
	for _, t := range tables {
		if f.matches(t, zones) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats counts tables per state.
type Stats struct {
	Free         int `json:"free"`
	Occupied     int `json:"occupied"`
	AwaitingBill int `json:"awaiting_bill"`
	Grouped      int `json:"grouped"`
	Inactive     int `json:"inactive"`
	Total        int `json:"total"`
}

func CountStates(tables []Table) Stats {
	var s Stats
	for _, t := range tables {
		switch t.State {
		case StateFree:
			s.Free++
		case StateOccupied:
			s.Occupied++
		case StateAwaitingBill:
			s.AwaitingBill++
		case StateGrouped:
			s.Grouped++
		case StateInactive:
			s.Inactive++
		}
		s.Total++
	}
	return s
}
