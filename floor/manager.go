package floor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RemoteStore is the backend holding the authoritative zones and tables.
// Failures are opaque: the Manager only distinguishes success from error.
type RemoteStore interface {
	ListTables(ctx context.Context) ([]RawTable, error)
	ListZones(ctx context.Context) ([]Zone, error)

	CreateTable(ctx context.Context, in TableInput) (RawTable, error)
	UpdateTable(ctx context.Context, id int64, patch TablePatch) error
	DeleteTable(ctx context.Context, id int64) error
	DeleteTables(ctx context.Context, ids []int64) error

	CreateZone(ctx context.Context, name string) (Zone, error)
	UpdateZone(ctx context.Context, id int64, patch ZonePatch) error
	DeleteZone(ctx context.Context, id int64) error
	DeleteZoneCascade(ctx context.Context, id int64) error
	MoveTablesToZone(ctx context.Context, fromID, toID int64) error
	MigrateTablesToNewZone(ctx context.Context, fromID int64, name string) error
}

const defaultBatchLimit = 8

type Option func(*Manager)

func WithLogger(l *logrus.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithBatchLimit bounds the writes a cascade keeps in flight. n <= 0 means no bound.
func WithBatchLimit(n int) Option {
	return func(m *Manager) { m.limit = n }
}

// WithCapacityCeiling sets the largest capacity this screen accepts.
func WithCapacityCeiling(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.ceiling = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager owns the local copy of zones and tables. Every mutation goes to the
// RemoteStore first and is followed by a full refresh; the local copy is
// never patched optimistically.
type Manager struct {
	store   RemoteStore
	log     *logrus.Logger
	limit   int
	ceiling int
	now     func() time.Time

	mu        sync.RWMutex
	zones     []Zone
	tables    []Table
	selection Selection
}

func NewManager(store RemoteStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		log:     logrus.StandardLogger(),
		limit:   defaultBatchLimit,
		ceiling: FloorPlanCeiling,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Refresh re-fetches zones and tables from the store.
func (m *Manager) Refresh(ctx context.Context) error {
	rawZones, err := m.store.ListZones(ctx)
	if err != nil {
		return remote(fmt.Errorf("list zones: %w", err))
	}
	rawTables, err := m.store.ListTables(ctx)
	if err != nil {
		return remote(fmt.Errorf("list tables: %w", err))
	}

	zones := make([]Zone, len(rawZones))
	for i, z := range rawZones {
		zones[i] = NormalizeZone(z)
	}
	tables := make([]Table, 0, len(rawTables))
	for _, raw := range rawTables {
		t, known := NormalizeTable(raw, zones)
		if !known {
			m.log.WithFields(logrus.Fields{"table_id": raw.ID, "state": raw.State}).
				Warn("unknown table state, treating table as inactive")
		}
		tables = append(tables, t)
	}

	m.mu.Lock()
	m.zones = zones
	m.tables = tables
	m.mu.Unlock()
	return nil
}

func (m *Manager) snapshot() ([]Zone, []Table) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	zones := append([]Zone(nil), m.zones...)
	tables := append([]Table(nil), m.tables...)
	return zones, tables
}

func (m *Manager) Zones() []Zone {
	zones, _ := m.snapshot()
	return zones
}

func (m *Manager) Tables() []Table {
	_, tables := m.snapshot()
	return tables
}

func (m *Manager) Zone(id int64) (Zone, bool) {
	zones, _ := m.snapshot()
	return FindZone(zones, id)
}

func (m *Manager) Table(id int64) (Table, bool) {
	_, tables := m.snapshot()
	for _, t := range tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// ZoneListing returns the zone tabs, virtual All first.
func (m *Manager) ZoneListing() []ZoneEntry {
	zones, tables := m.snapshot()
	return ListZones(zones, tables)
}

func (m *Manager) TablesIn(f ZoneFilter) []Table {
	zones, tables := m.snapshot()
	return FilterTables(tables, zones, f)
}

// Views describes the tables matching f as they should be displayed now.
func (m *Manager) Views(f ZoneFilter) []TableView {
	zones, tables := m.snapshot()
	now := m.now()
	matched := FilterTables(tables, zones, f)
	views := make([]TableView, len(matched))
	for i, t := range matched {
		views[i] = Describe(t, zones, now)
	}
	return views
}

func (m *Manager) Stats() Stats {
	_, tables := m.snapshot()
	return CountStates(tables)
}

// MoveDestinations lists where the tables of zone sourceID may go.
func (m *Manager) MoveDestinations(sourceID int64) []Zone {
	zones, _ := m.snapshot()
	return MoveDestinations(zones, sourceID)
}

// CreateZone validates name and creates the zone.
func (m *Manager) CreateZone(ctx context.Context, name string) (Zone, error) {
	zones, _ := m.snapshot()
	if err := ValidateZoneName(name, zones, 0); err != nil {
		return Zone{}, err
	}
	z, err := m.store.CreateZone(ctx, strings.TrimSpace(name))
	if err != nil {
		return Zone{}, remote(fmt.Errorf("create zone: %w", err))
	}
	return NormalizeZone(z), m.Refresh(ctx)
}

// RenameZone renames a real zone. Tables reference zones by id so none of
// them needs repointing.
func (m *Manager) RenameZone(ctx context.Context, id int64, name string) error {
	zones, _ := m.snapshot()
	z, ok := FindZone(zones, id)
	if !ok {
		return precondition(ErrZoneNotFound)
	}
	if z.Reserved() {
		return precondition(ErrReservedZone)
	}
	if err := ValidateZoneName(name, zones, id); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(name)
	if err := m.store.UpdateZone(ctx, id, ZonePatch{Name: &trimmed}); err != nil {
		return remote(fmt.Errorf("rename zone %d: %w", id, err))
	}
	return m.Refresh(ctx)
}

// SetZoneStatus opens or closes a zone without touching its tables.
func (m *Manager) SetZoneStatus(ctx context.Context, id int64, status ZoneStatus) error {
	zones, _ := m.snapshot()
	z, ok := FindZone(zones, id)
	if !ok {
		return precondition(ErrZoneNotFound)
	}
	if z.Reserved() {
		return precondition(ErrReservedZone)
	}
	if status != ZoneActive && status != ZoneInactive {
		return validation(fmt.Errorf("zone status %q: %w", status, ErrInvalidState))
	}
	if z.Status == status {
		return nil
	}
	if err := m.store.UpdateZone(ctx, id, ZonePatch{Status: &status}); err != nil {
		return remote(fmt.Errorf("update zone %d status: %w", id, err))
	}
	return m.Refresh(ctx)
}

// PlanZoneDeletion classifies the deletion of zone id without writing anything.
func (m *Manager) PlanZoneDeletion(id int64) (DeletionPlan, error) {
	zones, tables := m.snapshot()
	z, ok := FindZone(zones, id)
	if !ok {
		return DeletionPlan{}, precondition(ErrZoneNotFound)
	}
	if z.Reserved() {
		return DeletionPlan{}, precondition(ErrReservedZone)
	}
	return PlanZoneDeletion(z, tables), nil
}

// DeleteZone deletes zone id following its DeletionPlan. Tables that are moved
// are repointed one request each; the zone is deleted once every move has
// settled, whether or not all of them succeeded.
func (m *Manager) DeleteZone(ctx context.Context, id int64, opts DeleteOptions) (CascadeReport, error) {
	plan, err := m.PlanZoneDeletion(id)
	if err != nil {
		return CascadeReport{}, err
	}
	report := CascadeReport{Plan: plan, Disposition: opts.Disposition}

	switch plan.Outcome {
	case OutcomeBlocked:
		return report, precondition(ErrZoneOccupied)
	case OutcomeEmpty:
		report.Disposition = DispositionNone
		if !opts.Confirmed {
			return report, precondition(ErrConfirmationRequired)
		}
		if err := m.store.DeleteZone(ctx, id); err != nil {
			return report, remote(fmt.Errorf("delete zone %d: %w", id, err))
		}
		report.ZoneDeleted = true
		return report, m.Refresh(ctx)
	}

	zones, _ := m.snapshot()
	var dest int64
	switch opts.Disposition {
	case DispositionDeleteAll:
		if err := m.store.DeleteZoneCascade(ctx, id); err != nil {
			return report, remote(fmt.Errorf("delete zone %d with tables: %w", id, err))
		}
		report.ZoneDeleted = true
		return report, m.Refresh(ctx)

	case DispositionMoveTo:
		if !validDestination(zones, id, opts.DestinationID) {
			return report, validation(ErrInvalidDestination)
		}
		dest = opts.DestinationID

	case DispositionMoveToNew:
		if err := ValidateZoneName(opts.NewZoneName, zones, 0); err != nil {
			return report, err
		}
		created, err := m.store.CreateZone(ctx, strings.TrimSpace(opts.NewZoneName))
		if err != nil {
			return report, remote(fmt.Errorf("create zone: %w", err))
		}
		dest = created.ID

	case DispositionMoveToUnassigned:
		u, ok := FindZoneByName(zones, UnassignedZoneName)
		if !ok {
			return report, precondition(ErrNoUnassignedZone)
		}
		dest = u.ID

	default:
		return report, validation(ErrDispositionRequired)
	}

	report.DestinationID = dest
	report.Moves = m.moveTables(ctx, plan.TableIDs(), dest)
	if failed := report.Moves.Failed(); len(failed) > 0 {
		m.log.WithFields(logrus.Fields{"zone_id": id, "failed": len(failed), "moved": len(report.Moves) - len(failed)}).
			Warn("zone deleted with tables left unmoved")
	}

	if err := m.store.DeleteZone(ctx, id); err != nil {
		_ = m.Refresh(ctx)
		return report, remote(fmt.Errorf("delete zone %d: %w", id, err))
	}
	report.ZoneDeleted = true
	return report, m.Refresh(ctx)
}

// MergeZones moves every table of fromID into intoID and deletes fromID. It is
// a zone deletion, so every table of fromID must be free.
func (m *Manager) MergeZones(ctx context.Context, fromID, intoID int64) (CascadeReport, error) {
	return m.DeleteZone(ctx, fromID, DeleteOptions{
		Confirmed:     true,
		Disposition:   DispositionMoveTo,
		DestinationID: intoID,
	})
}

// MoveAllTables repoints every table of fromID to toID in one store request.
// Every table of the zone must be editable.
func (m *Manager) MoveAllTables(ctx context.Context, fromID, toID int64) error {
	zones, err := m.checkMovable(fromID)
	if err != nil {
		return err
	}
	if !validDestination(zones, fromID, toID) {
		return validation(ErrInvalidDestination)
	}
	if err := m.store.MoveTablesToZone(ctx, fromID, toID); err != nil {
		return remote(fmt.Errorf("move tables of zone %d: %w", fromID, err))
	}
	return m.Refresh(ctx)
}

// MigrateTables creates zone name and moves every table of fromID into it.
func (m *Manager) MigrateTables(ctx context.Context, fromID int64, name string) error {
	zones, err := m.checkMovable(fromID)
	if err != nil {
		return err
	}
	if err := ValidateZoneName(name, zones, 0); err != nil {
		return err
	}
	if err := m.store.MigrateTablesToNewZone(ctx, fromID, strings.TrimSpace(name)); err != nil {
		return remote(fmt.Errorf("migrate tables of zone %d: %w", fromID, err))
	}
	return m.Refresh(ctx)
}

// checkMovable returns the current zones when every table of zone id may be
// moved out in one request.
func (m *Manager) checkMovable(id int64) ([]Zone, error) {
	zones, tables := m.snapshot()
	z, ok := FindZone(zones, id)
	if !ok {
		return nil, precondition(ErrZoneNotFound)
	}
	if z.Reserved() {
		return nil, precondition(ErrReservedZone)
	}
	return zones, CheckZoneMovable(z, tables)
}

func validDestination(zones []Zone, sourceID, destID int64) bool {
	for _, z := range MoveDestinations(zones, sourceID) {
		if z.ID == destID {
			return true
		}
	}
	return false
}

func (m *Manager) moveTables(ctx context.Context, ids []int64, dest int64) BatchResult {
	return runBatch(ctx, ids, m.limit, func(ctx context.Context, id int64) error {
		zoneID := dest
		err := m.store.UpdateTable(ctx, id, TablePatch{ZoneID: &zoneID})
		if err != nil {
			m.log.WithFields(logrus.Fields{"op": "move_table", "table_id": id, "zone_id": dest}).
				WithError(err).Error("cascade write failed")
			return remote(fmt.Errorf("move table %d: %w", id, err))
		}
		return nil
	})
}

func (m *Manager) lookupTable(id int64) (Table, []Zone, error) {
	zones, tables := m.snapshot()
	for _, t := range tables {
		if t.ID == id {
			return t, zones, nil
		}
	}
	return Table{}, zones, precondition(ErrTableNotFound)
}

// CheckAssignable reports whether a table may be placed in zone zoneID.
func CheckAssignable(zones []Zone, zoneID int64) error {
	if zoneID == 0 {
		return validation(ErrNoZoneSelected)
	}
	z, ok := FindZone(zones, zoneID)
	if !ok {
		return validation(ErrZoneNotFound)
	}
	if !z.Active() {
		return precondition(ErrZoneInactive)
	}
	return nil
}

// CreateTable adds a table to zoneID. The capacity is clamped to the ceiling
// and the name is left to the store.
func (m *Manager) CreateTable(ctx context.Context, capacity int, zoneID int64) (Table, error) {
	zones, _ := m.snapshot()
	if err := CheckAssignable(zones, zoneID); err != nil {
		return Table{}, err
	}
	raw, err := m.store.CreateTable(ctx, TableInput{Capacity: ClampCapacity(capacity, m.ceiling), ZoneID: zoneID})
	if err != nil {
		return Table{}, remote(fmt.Errorf("create table: %w", err))
	}
	t, _ := NormalizeTable(raw, zones)
	return t, m.Refresh(ctx)
}

// UpdateTable applies patch to table id. Only editable tables can be changed;
// a state patch may only move a table between free and inactive.
func (m *Manager) UpdateTable(ctx context.Context, id int64, patch TablePatch) error {
	t, zones, err := m.lookupTable(id)
	if err != nil {
		return err
	}
	if err := CheckEditable(t); err != nil {
		return err
	}

	if patch.Capacity != nil {
		c := ClampCapacity(*patch.Capacity, m.ceiling)
		patch.Capacity = &c
	}
	if patch.Name != nil {
		n := strings.TrimSpace(*patch.Name)
		if n == "" {
			return validation(ErrEmptyTableName)
		}
		patch.Name = &n
	}
	if patch.ZoneID != nil {
		if err := CheckAssignable(zones, *patch.ZoneID); err != nil {
			return err
		}
	}
	if patch.State != nil {
		switch *patch.State {
		case StateFree:
		case StateInactive:
			if t.Order != nil {
				return precondition(ErrTableHasOrder)
			}
		default:
			return validation(ErrInvalidState)
		}
	}

	if err := m.store.UpdateTable(ctx, id, patch); err != nil {
		return remote(fmt.Errorf("update table %d: %w", id, err))
	}
	return m.Refresh(ctx)
}

// SetTableActive disables or re-enables a table.
func (m *Manager) SetTableActive(ctx context.Context, id int64, active bool) error {
	t, _, err := m.lookupTable(id)
	if err != nil {
		return err
	}
	want := StateInactive
	if active {
		want = StateFree
	}
	if t.State == want {
		return nil
	}
	return m.UpdateTable(ctx, id, TablePatch{State: &want})
}

// CheckDeletable refuses tables carrying an order and tables that are not editable.
func CheckDeletable(t Table) error {
	if t.Order != nil {
		return precondition(ErrTableHasOrder)
	}
	return CheckEditable(t)
}

// DeleteTable removes table id from the store.
func (m *Manager) DeleteTable(ctx context.Context, id int64) error {
	t, _, err := m.lookupTable(id)
	if err != nil {
		return err
	}
	if err := CheckDeletable(t); err != nil {
		return err
	}
	if err := m.store.DeleteTable(ctx, id); err != nil {
		return remote(fmt.Errorf("delete table %d: %w", id, err))
	}
	return m.Refresh(ctx)
}

// DeleteTables removes ids in a single store request. Nothing is sent when
// any of them cannot be deleted.
func (m *Manager) DeleteTables(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return validation(ErrNothingSelected)
	}
	for _, id := range ids {
		t, _, err := m.lookupTable(id)
		if err != nil {
			return err
		}
		if err := CheckDeletable(t); err != nil {
			return fmt.Errorf("table %d: %w", id, err)
		}
	}
	if err := m.store.DeleteTables(ctx, ids); err != nil {
		return remote(fmt.Errorf("delete tables: %w", err))
	}
	return m.Refresh(ctx)
}

func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selection.Mode()
}

// ToggleMode enters mode, or returns to Normal when it is already active.
func (m *Manager) ToggleMode(mode Mode) Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection.ToggleMode(mode)
}

// LeaveMode returns to Normal and drops the selection.
func (m *Manager) LeaveMode() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection.Reset()
}

// ToggleSelection picks or unpicks table id for bulk deletion.
func (m *Manager) ToggleSelection(id int64) (bool, error) {
	t, _, err := m.lookupTable(id)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selection.Mode() != ModeDelete {
		return false, precondition(ErrNotInDeleteMode)
	}
	if t.Secondary() {
		return false, precondition(ErrTableNotInteractive)
	}
	if !m.selection.Selected(id) {
		if err := CheckDeletable(t); err != nil {
			return false, err
		}
	}
	return m.selection.Toggle(id)
}

func (m *Manager) SelectedIDs() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selection.IDs()
}

// ConfirmBulkDelete deletes every selected table with one request each,
// waits for all of them and returns to Normal whatever the outcome.
func (m *Manager) ConfirmBulkDelete(ctx context.Context) (BatchResult, error) {
	m.mu.RLock()
	mode := m.selection.Mode()
	ids := m.selection.IDs()
	m.mu.RUnlock()

	if mode != ModeDelete {
		return nil, precondition(ErrNotInDeleteMode)
	}
	if len(ids) == 0 {
		return nil, validation(ErrNothingSelected)
	}

	refused := make(map[int64]error)
	send := make([]int64, 0, len(ids))
	for _, id := range ids {
		t, _, err := m.lookupTable(id)
		if err == nil {
			err = CheckDeletable(t)
		}
		if err != nil {
			refused[id] = err
			continue
		}
		send = append(send, id)
	}

	sent := runBatch(ctx, send, m.limit, func(ctx context.Context, id int64) error {
		err := m.store.DeleteTable(ctx, id)
		if err != nil {
			m.log.WithFields(logrus.Fields{"op": "delete_table", "table_id": id}).
				WithError(err).Error("bulk delete failed")
			return remote(fmt.Errorf("delete table %d: %w", id, err))
		}
		return nil
	})

	byID := make(map[int64]error, len(sent))
	for _, r := range sent {
		byID[r.ID] = r.Err
	}
	results := make(BatchResult, len(ids))
	for i, id := range ids {
		if err, ok := refused[id]; ok {
			results[i] = ItemResult{ID: id, Err: err}
			continue
		}
		results[i] = ItemResult{ID: id, Err: byID[id]}
	}

	m.LeaveMode()
	return results, m.Refresh(ctx)
}
