package floor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var errBoom = errors.New("boom")

// memStore is an in-memory RemoteStore that records every call.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	zones  map[int64]Zone
	tables map[int64]RawTable
	calls  []string

	failUpdate map[int64]bool
	failDelete map[int64]bool
	failList   bool
}

func newMemStore() *memStore {
	return &memStore{
		nextID:     100,
		zones:      make(map[int64]Zone),
		tables:     make(map[int64]RawTable),
		failUpdate: make(map[int64]bool),
		failDelete: make(map[int64]bool),
	}
}

func (s *memStore) record(format string, args ...interface{}) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *memStore) addZone(id int64, name string, status ZoneStatus) {
	s.zones[id] = Zone{ID: id, Name: name, Status: status}
}

func (s *memStore) addTable(id int64, zoneID int64, state TableState) {
	t := RawTable{ID: id, Name: fmt.Sprintf("Table %d", id), Capacity: 4, State: string(state)}
	if zoneID != 0 {
		z := zoneID
		t.ZoneID = &z
	}
	if state != StateFree && state != StateInactive {
		t.Order = &Order{ID: id * 10, Total: 12.5}
	}
	s.tables[id] = t
}

func (s *memStore) writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range s.calls {
		if c != "ListZones" && c != "ListTables" {
			out = append(out, c)
		}
	}
	return out
}

func (s *memStore) ListTables(ctx context.Context) ([]RawTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListTables")
	if s.failList {
		return nil, errBoom
	}
	out := make([]RawTable, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) ListZones(ctx context.Context) ([]Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListZones")
	if s.failList {
		return nil, errBoom
	}
	out := make([]Zone, 0, len(s.zones))
	for _, z := range s.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) CreateTable(ctx context.Context, in TableInput) (RawTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("CreateTable %d %d", in.Capacity, in.ZoneID)
	s.nextID++
	z := in.ZoneID
	t := RawTable{ID: s.nextID, Name: fmt.Sprintf("Table %d", s.nextID), Capacity: in.Capacity, ZoneID: &z, State: "free"}
	s.tables[t.ID] = t
	return t, nil
}

func (s *memStore) UpdateTable(ctx context.Context, id int64, patch TablePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("UpdateTable %d", id)
	if s.failUpdate[id] {
		return errBoom
	}
	t, ok := s.tables[id]
	if !ok {
		return errors.New("not found")
	}
	if patch.Capacity != nil {
		t.Capacity = *patch.Capacity
	}
	if patch.ZoneID != nil {
		z := *patch.ZoneID
		t.ZoneID = &z
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.State != nil {
		t.State = string(*patch.State)
	}
	s.tables[id] = t
	return nil
}

func (s *memStore) DeleteTable(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("DeleteTable %d", id)
	if s.failDelete[id] {
		return errBoom
	}
	delete(s.tables, id)
	return nil
}

func (s *memStore) DeleteTables(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("DeleteTables %v", ids)
	for _, id := range ids {
		delete(s.tables, id)
	}
	return nil
}

func (s *memStore) CreateZone(ctx context.Context, name string) (Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("CreateZone %s", name)
	s.nextID++
	z := Zone{ID: s.nextID, Name: name, Status: ZoneActive}
	s.zones[z.ID] = z
	return z, nil
}

func (s *memStore) UpdateZone(ctx context.Context, id int64, patch ZonePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("UpdateZone %d", id)
	z := s.zones[id]
	if patch.Name != nil {
		z.Name = *patch.Name
	}
	if patch.Status != nil {
		z.Status = *patch.Status
	}
	s.zones[id] = z
	return nil
}

func (s *memStore) DeleteZone(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("DeleteZone %d", id)
	delete(s.zones, id)
	return nil
}

func (s *memStore) DeleteZoneCascade(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("DeleteZoneCascade %d", id)
	for tid, t := range s.tables {
		if t.ZoneID != nil && *t.ZoneID == id {
			delete(s.tables, tid)
		}
	}
	delete(s.zones, id)
	return nil
}

func (s *memStore) MoveTablesToZone(ctx context.Context, fromID, toID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("MoveTablesToZone %d %d", fromID, toID)
	s.repoint(fromID, toID)
	return nil
}

func (s *memStore) MigrateTablesToNewZone(ctx context.Context, fromID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("MigrateTablesToNewZone %d %s", fromID, name)
	s.nextID++
	s.zones[s.nextID] = Zone{ID: s.nextID, Name: name, Status: ZoneActive}
	s.repoint(fromID, s.nextID)
	return nil
}

// repoint expects s.mu to be held.
func (s *memStore) repoint(fromID, toID int64) {
	for tid, t := range s.tables {
		if t.ZoneID != nil && *t.ZoneID == fromID {
			to := toID
			t.ZoneID = &to
			s.tables[tid] = t
		}
	}
}
