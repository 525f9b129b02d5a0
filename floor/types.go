// Package floor keeps the client-side view of a restaurant floor: zones, the
// tables inside them and the rules that keep the two consistent while they
// are edited through a RemoteStore.
package floor

import (
	"strings"
	"time"
)

type TableState string

const (
	StateFree         TableState = "free"
	StateOccupied     TableState = "occupied"
	StateAwaitingBill TableState = "awaiting_bill"
	StateGrouped      TableState = "grouped"
	StateInactive     TableState = "inactive"
)

// States lists every canonical table state.
var States = []TableState{StateFree, StateOccupied, StateAwaitingBill, StateGrouped, StateInactive}

type ZoneStatus string

const (
	ZoneActive   ZoneStatus = "active"
	ZoneInactive ZoneStatus = "inactive"
)

const (
	// AllZoneName is the virtual "no filter" zone. It is never persisted.
	AllZoneName = "All"
	// UnassignedZoneName is the persisted sentinel zone for tables without a real zone.
	UnassignedZoneName = "Unassigned"
)

var reservedZoneNames = []string{AllZoneName, "Todas", UnassignedZoneName, "Sin asignar", "Sin zona"}

type Zone struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Status ZoneStatus `json:"status"`
}

func (z Zone) Active() bool { return z.Status != ZoneInactive }

// Reserved reports whether z is the Unassigned sentinel (or carries another reserved name).
func (z Zone) Reserved() bool { return IsReservedZoneName(z.Name) }

type OrderItem struct {
	ID        int64     `json:"id"`
	Dish      string    `json:"dish"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID         int64       `json:"id"`
	Total      float64     `json:"total"`
	AlertCount int         `json:"alert_count"`
	StartedAt  time.Time   `json:"started_at"`
	Items      []OrderItem `json:"items,omitempty"`
}

type Table struct {
	ID        int64
	Name      string
	Capacity  int
	ZoneID    *int64
	State     TableState
	Order     *Order
	Group     string
	IsPrimary bool
}

// Secondary reports whether t is a non-primary member of a group.
func (t Table) Secondary() bool { return t.Group != "" && !t.IsPrimary }

// InZone reports whether t resolves to zoneID. A nil zoneID matches unassigned tables.
func (t Table) InZone(zoneID *int64) bool {
	if t.ZoneID == nil || zoneID == nil {
		return t.ZoneID == nil && zoneID == nil
	}
	return *t.ZoneID == *zoneID
}

// RawTable is a table record as the Remote Store returns it. Older records
// carry the zone by name and use legacy state spellings.
type RawTable struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	ZoneID    *int64 `json:"zone_id"`
	ZoneName  string `json:"zone,omitempty"`
	State     string `json:"state"`
	Order     *Order `json:"order,omitempty"`
	Group     string `json:"group,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// TableInput is the payload for creating a table. The name is assigned by the store.
type TableInput struct {
	Capacity int   `json:"capacity"`
	ZoneID   int64 `json:"zone_id"`
}

// TablePatch is a partial table update; nil fields are left untouched.
type TablePatch struct {
	Capacity *int        `json:"capacity,omitempty"`
	ZoneID   *int64      `json:"zone_id,omitempty"`
	Name     *string     `json:"name,omitempty"`
	State    *TableState `json:"state,omitempty"`
}

// Structural reports whether the patch touches anything other than the state.
func (p TablePatch) Structural() bool {
	return p.Capacity != nil || p.ZoneID != nil || p.Name != nil
}

type ZonePatch struct {
	Name   *string     `json:"name,omitempty"`
	Status *ZoneStatus `json:"status,omitempty"`
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
