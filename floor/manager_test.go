package floor

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	unassignedID int64 = 1
	patioID      int64 = 2
	terraceID    int64 = 3
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newFloor seeds Unassigned, Patio and Terrace and returns a refreshed Manager.
func newFloor(t *testing.T, seed func(s *memStore), opts ...Option) (*Manager, *memStore) {
	t.Helper()
	s := newMemStore()
	s.addZone(unassignedID, UnassignedZoneName, ZoneActive)
	s.addZone(patioID, "Patio", ZoneActive)
	s.addZone(terraceID, "Terrace", ZoneActive)
	if seed != nil {
		seed(s)
	}
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	m := NewManager(s, opts...)
	require.NoError(t, m.Refresh(context.Background()))
	s.calls = nil
	return m, s
}

func zoneNames(m *Manager) []string {
	var names []string
	for _, z := range m.Zones() {
		names = append(names, z.Name)
	}
	return names
}

func TestDeleteEmptyZone(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, nil)

	_, err := m.DeleteZone(ctx, patioID, DeleteOptions{})
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Empty(t, s.writes())

	report, err := m.DeleteZone(ctx, patioID, DeleteOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmpty, report.Plan.Outcome)
	assert.True(t, report.ZoneDeleted)
	assert.Equal(t, []string{"DeleteZone 2"}, s.writes())
	assert.NotContains(t, zoneNames(m), "Patio")
}

func TestDeleteOccupiedZoneIsRefused(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
		s.addTable(11, patioID, StateOccupied)
	})

	for _, d := range []Disposition{DispositionNone, DispositionDeleteAll, DispositionMoveToUnassigned} {
		report, err := m.DeleteZone(ctx, patioID, DeleteOptions{Confirmed: true, Disposition: d})
		assert.ErrorIs(t, err, ErrZoneOccupied)
		assert.Equal(t, KindPrecondition, KindOf(err))
		assert.Equal(t, OutcomeBlocked, report.Plan.Outcome)
	}
	assert.Empty(t, s.writes())
	assert.Contains(t, zoneNames(m), "Patio")
	assert.Len(t, m.TablesIn(FilterZone(patioID)), 2)
}

func TestDeleteZoneMovingTablesToUnassigned(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
		s.addTable(11, patioID, StateFree)
		s.addTable(12, terraceID, StateOccupied)
	})

	report, err := m.DeleteZone(ctx, patioID, DeleteOptions{Disposition: DispositionMoveToUnassigned})
	require.NoError(t, err)
	assert.True(t, report.Moves.OK())
	assert.Equal(t, unassignedID, report.DestinationID)

	writes := s.writes()
	require.Len(t, writes, 3)
	assert.ElementsMatch(t, []string{"UpdateTable 10", "UpdateTable 11"}, writes[:2])
	assert.Equal(t, "DeleteZone 2", writes[2], "zone goes only after every move settled")

	for _, id := range []int64{10, 11} {
		tbl, ok := m.Table(id)
		require.True(t, ok)
		require.NotNil(t, tbl.ZoneID)
		assert.Equal(t, unassignedID, *tbl.ZoneID)
	}
	assert.NotContains(t, zoneNames(m), "Patio")
}

func TestDeleteZoneWithoutUnassignedZone(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		delete(s.zones, unassignedID)
		s.addTable(10, patioID, StateFree)
	})

	_, err := m.DeleteZone(ctx, patioID, DeleteOptions{Disposition: DispositionMoveToUnassigned})
	assert.ErrorIs(t, err, ErrNoUnassignedZone)
	assert.Empty(t, s.writes())
}

func TestDeleteZonePartialMoveFailure(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
		s.addTable(11, patioID, StateFree)
		s.failUpdate[11] = true
	})

	report, err := m.DeleteZone(ctx, patioID, DeleteOptions{Disposition: DispositionMoveTo, DestinationID: terraceID})
	require.NoError(t, err)
	require.Len(t, report.Moves.Failed(), 1)
	assert.Equal(t, int64(11), report.Moves.Failed()[0].ID)
	assert.Equal(t, KindRemote, KindOf(report.Moves.Failed()[0].Err))
	assert.Equal(t, []int64{10}, report.Moves.Succeeded())
	assert.True(t, report.ZoneDeleted)

	writes := s.writes()
	assert.Equal(t, "DeleteZone 2", writes[len(writes)-1])

	moved, _ := m.Table(10)
	assert.Equal(t, "Terrace", ZoneLabel(moved, m.Zones()))
	orphan, _ := m.Table(11)
	assert.Nil(t, orphan.ZoneID)
	assert.Equal(t, UnassignedZoneName, ZoneLabel(orphan, m.Zones()))
}

func TestDeleteZoneWithTables(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
		s.addTable(11, patioID, StateFree)
	})

	_, err := m.DeleteZone(ctx, patioID, DeleteOptions{Confirmed: true})
	assert.ErrorIs(t, err, ErrDispositionRequired)
	assert.Empty(t, s.writes())

	_, err = m.DeleteZone(ctx, patioID, DeleteOptions{Disposition: DispositionDeleteAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"DeleteZoneCascade 2"}, s.writes())
	assert.Empty(t, m.Tables())
}

func TestDeleteZoneMovingTablesToNewZone(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
	})

	_, err := m.DeleteZone(ctx, patioID, DeleteOptions{Disposition: DispositionMoveToNew, NewZoneName: "Todas"})
	assert.ErrorIs(t, err, ErrReservedZoneName)
	_, err = m.DeleteZone(ctx, patioID, DeleteOptions{Disposition: DispositionMoveToNew, NewZoneName: "terrace"})
	assert.ErrorIs(t, err, ErrDuplicateZoneName)
	assert.Empty(t, s.writes())

	report, err := m.DeleteZone(ctx, patioID, DeleteOptions{Disposition: DispositionMoveToNew, NewZoneName: "Garden"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CreateZone Garden", "UpdateTable 10", "DeleteZone 2"}, s.writes())

	garden, ok := FindZoneByName(m.Zones(), "garden")
	require.True(t, ok)
	assert.Equal(t, garden.ID, report.DestinationID)
	tbl, _ := m.Table(10)
	assert.Equal(t, "Garden", ZoneLabel(tbl, m.Zones()))
}

func TestDeleteZoneRejectsBadDestination(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addZone(4, "Roof", ZoneInactive)
		s.addTable(10, patioID, StateFree)
	})

	assert.Equal(t, []Zone{{ID: terraceID, Name: "Terrace", Status: ZoneActive}}, m.MoveDestinations(patioID))

	for _, dest := range []int64{patioID, 4, unassignedID, 99} {
		_, err := m.DeleteZone(ctx, patioID, DeleteOptions{Disposition: DispositionMoveTo, DestinationID: dest})
		assert.ErrorIs(t, err, ErrInvalidDestination, dest)
	}
	assert.Empty(t, s.writes())
}

func TestReservedZonesAreProtected(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, nil)

	_, err := m.DeleteZone(ctx, unassignedID, DeleteOptions{Confirmed: true})
	assert.ErrorIs(t, err, ErrReservedZone)
	assert.ErrorIs(t, m.RenameZone(ctx, unassignedID, "Lobby"), ErrReservedZone)
	assert.ErrorIs(t, m.SetZoneStatus(ctx, unassignedID, ZoneInactive), ErrReservedZone)
	assert.ErrorIs(t, m.RenameZone(ctx, patioID, "All"), ErrReservedZoneName)
	assert.Empty(t, s.writes())
}

func TestCreateZoneValidation(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, nil)
	before := zoneNames(m)

	for _, name := range []string{"Todas", "All", "unassigned", ""} {
		_, err := m.CreateZone(ctx, name)
		assert.Error(t, err, name)
		assert.Equal(t, KindValidation, KindOf(err), name)
	}
	_, err := m.CreateZone(ctx, " patio")
	assert.ErrorIs(t, err, ErrDuplicateZoneName)
	assert.Empty(t, s.writes())
	assert.Equal(t, before, zoneNames(m))

	z, err := m.CreateZone(ctx, "  Garden ")
	require.NoError(t, err)
	assert.Equal(t, "Garden", z.Name)
	assert.Contains(t, zoneNames(m), "Garden")
}

func TestRenameZoneKeepsTables(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateOccupied)
	})

	require.NoError(t, m.RenameZone(ctx, patioID, "Garden"))
	assert.Equal(t, []string{"UpdateZone 2"}, s.writes())
	tbl, _ := m.Table(10)
	assert.Equal(t, "Garden", ZoneLabel(tbl, m.Zones()))
}

func TestCloseZone(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
	})

	require.NoError(t, m.SetZoneStatus(ctx, patioID, ZoneInactive))
	views := m.Views(FilterZone(patioID))
	require.Len(t, views, 1)
	assert.True(t, views[0].ZoneClosed)
	assert.True(t, views[0].ReadOnly)

	// read-only is display only: the state gate still allows edits
	name := "Corner"
	require.NoError(t, m.UpdateTable(ctx, 10, TablePatch{Name: &name}))
	assert.Contains(t, s.writes(), "UpdateTable 10")
	assert.NotContains(t, m.MoveDestinations(terraceID), Zone{ID: patioID, Name: "Patio", Status: ZoneInactive})

	_, err := m.CreateTable(ctx, 4, patioID)
	assert.ErrorIs(t, err, ErrZoneInactive)
}

func TestCreateTableClampsCapacity(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
	})

	tbl, err := m.CreateTable(ctx, 150, patioID)
	require.NoError(t, err)
	assert.Equal(t, 100, tbl.Capacity)
	assert.Equal(t, []string{"CreateTable 100 2"}, s.writes())

	_, err = m.CreateTable(ctx, 4, 0)
	assert.ErrorIs(t, err, ErrNoZoneSelected)

	require.NoError(t, m.UpdateTable(ctx, 10, TablePatch{Capacity: ptr(0)}))
	got, _ := m.Table(10)
	assert.Equal(t, 1, got.Capacity)

	quick, qs := newFloor(t, nil, WithCapacityCeiling(QuickAddCeiling))
	_, err = quick.CreateTable(ctx, 150, terraceID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CreateTable 32 3"}, qs.writes())
}

func TestTablesInServiceAreNotEditable(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateOccupied)
		s.addTable(11, patioID, StateAwaitingBill)
		s.addTable(12, patioID, StateGrouped)
	})

	for _, id := range []int64{10, 11, 12} {
		assert.ErrorIs(t, m.UpdateTable(ctx, id, TablePatch{Capacity: ptr(2)}), ErrTableInService)
		assert.ErrorIs(t, m.UpdateTable(ctx, id, TablePatch{ZoneID: ptr(terraceID)}), ErrTableInService)
		assert.ErrorIs(t, m.SetTableActive(ctx, id, false), ErrTableInService)
		assert.ErrorIs(t, m.DeleteTable(ctx, id), ErrTableHasOrder)
	}
	assert.ErrorIs(t, m.DeleteTables(ctx, []int64{10}), ErrTableHasOrder)
	assert.Empty(t, s.writes())
}

func TestToggleTableActive(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
	})

	require.NoError(t, m.SetTableActive(ctx, 10, false))
	tbl, _ := m.Table(10)
	assert.Equal(t, StateInactive, tbl.State)

	require.NoError(t, m.SetTableActive(ctx, 10, false), "already inactive")
	require.NoError(t, m.SetTableActive(ctx, 10, true))
	tbl, _ = m.Table(10)
	assert.Equal(t, StateFree, tbl.State)
	assert.Equal(t, []string{"UpdateTable 10", "UpdateTable 10"}, s.writes())

	assert.ErrorIs(t, m.UpdateTable(ctx, 10, TablePatch{State: ptr(StateOccupied)}), ErrInvalidState)
	assert.ErrorIs(t, m.UpdateTable(ctx, 10, TablePatch{Name: ptr("  ")}), ErrEmptyTableName)
	assert.ErrorIs(t, m.UpdateTable(ctx, 99, TablePatch{Name: ptr("x")}), ErrTableNotFound)
}

func TestBulkDelete(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		for _, id := range []int64{3, 5, 7, 9} {
			s.addTable(id, patioID, StateFree)
		}
	})

	_, err := m.ToggleSelection(3)
	assert.ErrorIs(t, err, ErrNotInDeleteMode)

	assert.Equal(t, ModeDelete, m.ToggleMode(ModeDelete))
	for _, id := range []int64{3, 7, 9} {
		on, err := m.ToggleSelection(id)
		require.NoError(t, err)
		assert.True(t, on)
	}
	assert.Equal(t, []int64{3, 7, 9}, m.SelectedIDs())

	res, err := m.ConfirmBulkDelete(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.ElementsMatch(t, []string{"DeleteTable 3", "DeleteTable 7", "DeleteTable 9"}, s.writes())

	require.Len(t, m.Tables(), 1)
	assert.Equal(t, int64(5), m.Tables()[0].ID)
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Empty(t, m.SelectedIDs())
}

func TestBulkDeletePartialFailure(t *testing.T) {
	ctx := context.Background()
	m, _ := newFloor(t, func(s *memStore) {
		s.addTable(3, patioID, StateFree)
		s.addTable(7, patioID, StateFree)
		s.failDelete[7] = true
	})

	m.ToggleMode(ModeDelete)
	_, _ = m.ToggleSelection(3)
	_, _ = m.ToggleSelection(7)

	res, err := m.ConfirmBulkDelete(ctx)
	require.NoError(t, err)
	require.Len(t, res.Failed(), 1)
	assert.Equal(t, int64(7), res.Failed()[0].ID)
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Empty(t, m.SelectedIDs())
	_, still := m.Table(7)
	assert.True(t, still)
}

func TestSelectionRejectsTablesInService(t *testing.T) {
	m, _ := newFloor(t, func(s *memStore) {
		s.addTable(3, patioID, StateOccupied)
		s.addTable(4, patioID, StateFree)
	})

	m.ToggleMode(ModeDelete)
	_, err := m.ToggleSelection(3)
	assert.ErrorIs(t, err, ErrTableHasOrder)
	on, err := m.ToggleSelection(4)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = m.ToggleSelection(4)
	require.NoError(t, err)
	assert.False(t, on)

	_, err = m.ConfirmBulkDelete(context.Background())
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestModeToggleIdempotence(t *testing.T) {
	m, _ := newFloor(t, func(s *memStore) {
		s.addTable(4, patioID, StateFree)
	})

	for _, mode := range []Mode{ModeEdit, ModeDelete} {
		m.ToggleMode(mode)
		if mode == ModeDelete {
			_, err := m.ToggleSelection(4)
			require.NoError(t, err)
		}
		assert.Equal(t, ModeNormal, m.ToggleMode(mode))
		assert.Empty(t, m.SelectedIDs())
	}

	m.ToggleMode(ModeDelete)
	_, _ = m.ToggleSelection(4)
	m.LeaveMode()
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Empty(t, m.SelectedIDs())
}

func TestMoveAndMigrateTables(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateFree)
		s.addTable(11, patioID, StateInactive)
	})

	require.NoError(t, m.MoveAllTables(ctx, patioID, terraceID))
	assert.Len(t, m.TablesIn(FilterZone(terraceID)), 2)

	require.NoError(t, m.MigrateTables(ctx, terraceID, "Garden"))
	garden, ok := FindZoneByName(m.Zones(), "Garden")
	require.True(t, ok)
	assert.Len(t, m.TablesIn(FilterZone(garden.ID)), 2)
	assert.Equal(t, []string{"MoveTablesToZone 2 3", "MigrateTablesToNewZone 3 Garden"}, s.writes())

	// merging deletes the zone, which the disabled table still blocks
	_, err := m.MergeZones(ctx, garden.ID, patioID)
	assert.ErrorIs(t, err, ErrZoneOccupied)
	assert.Len(t, m.TablesIn(FilterZone(garden.ID)), 2)

	require.NoError(t, m.SetTableActive(ctx, 11, true))
	report, err := m.MergeZones(ctx, garden.ID, patioID)
	require.NoError(t, err)
	assert.True(t, report.ZoneDeleted)
	assert.Len(t, m.TablesIn(FilterZone(patioID)), 2)
}

func TestMoveAllTablesRefusesTablesInService(t *testing.T) {
	ctx := context.Background()
	m, s := newFloor(t, func(s *memStore) {
		s.addTable(10, patioID, StateInactive)
		s.addTable(11, patioID, StateAwaitingBill)
	})

	err := m.MoveAllTables(ctx, patioID, terraceID)
	assert.ErrorIs(t, err, ErrTableInService)
	assert.Equal(t, KindPrecondition, KindOf(err))
	err = m.MigrateTables(ctx, patioID, "Garden")
	assert.ErrorIs(t, err, ErrTableInService)
	assert.Empty(t, s.writes())
	assert.Len(t, m.TablesIn(FilterZone(patioID)), 2)
}

func TestRefreshFailureIsRemote(t *testing.T) {
	m, s := newFloor(t, nil)
	s.failList = true
	err := m.Refresh(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, KindRemote, KindOf(err))
	assert.Len(t, m.Zones(), 3, "stale copy is kept")
}

func TestStatsAndListing(t *testing.T) {
	m, _ := newFloor(t, func(s *memStore) {
		s.addTable(1, patioID, StateFree)
		s.addTable(2, patioID, StateOccupied)
		s.addTable(3, 0, StateInactive)
	})

	st := m.Stats()
	assert.Equal(t, 1, st.Free)
	assert.Equal(t, 1, st.Occupied)
	assert.Equal(t, 1, st.Inactive)
	assert.Equal(t, 3, st.Total)

	entries := m.ZoneListing()
	assert.Equal(t, AllZoneName, entries[0].Zone.Name)
	assert.Equal(t, UnassignedZoneName, entries[len(entries)-1].Zone.Name)
	assert.Equal(t, 1, entries[len(entries)-1].Tables)
}
