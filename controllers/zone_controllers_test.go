package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
)

func unassigned(t *testing.T, e *env) models.Zone {
	var z models.Zone
	require.NoError(t, e.db.Where("name = ?", floor.UnassignedZoneName).First(&z).Error)
	return z
}

func TestCreateAndEditZone(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)

	w, resp := e.do(http.MethodPost, "/admin/zones", tok, map[string]string{"name": "  Patio "})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)
	var created floor.Zone
	decode(t, resp, &created)
	assert.Equal(t, "Patio", created.Name)
	assert.Equal(t, floor.ZoneActive, created.Status)

	for _, name := range []string{"patio", "Unassigned", "todas", "Sin zona"} {
		w, _ = e.do(http.MethodPost, "/admin/zones", tok, map[string]string{"name": name})
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	w, _ = e.do(http.MethodPost, "/admin/zones", tok, map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/admin/zones/%d", created.ID)
	w, resp = e.do(http.MethodPatch, path, tok, map[string]string{"name": "Garden", "status": "inactive"})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	var updated floor.Zone
	decode(t, resp, &updated)
	assert.Equal(t, "Garden", updated.Name)
	assert.Equal(t, floor.ZoneInactive, updated.Status)

	// renaming to its own name is not a duplicate
	w, _ = e.do(http.MethodPatch, path, tok, map[string]string{"name": "garden"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = e.do(http.MethodPatch, path, tok, map[string]string{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = e.do(http.MethodGet, "/admin/zones", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var zones []floor.Zone
	decode(t, resp, &zones)
	assert.Len(t, zones, 2)
}

func TestZoneRoutesRequireManager(t *testing.T) {
	e := newEnv(t)
	waiter := e.token(models.RoleWaiter)

	w, _ := e.do(http.MethodGet, "/admin/zones", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = e.do(http.MethodGet, "/admin/zones", waiter, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = e.do(http.MethodPost, "/admin/zones", waiter, map[string]string{"name": "Bar"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReservedZoneIsProtected(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleAdmin)
	u := unassigned(t, e)

	w, _ := e.do(http.MethodPatch, fmt.Sprintf("/admin/zones/%d", u.ID), tok, map[string]string{"name": "Lobby"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = e.do(http.MethodDelete, fmt.Sprintf("/admin/zones/%d", u.ID), tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = e.do(http.MethodDelete, "/admin/zones/999", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteZoneRefusedWhileInService(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)
	patio := e.zone("Patio", "active")
	e.table("Table 1", &patio, "free")
	e.table("Table 2", &patio, "occupied")

	for _, path := range []string{"/admin/zones/%d", "/admin/zones/%d/cascade"} {
		w, resp := e.do(http.MethodDelete, fmt.Sprintf(path, patio.ID), tok, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, floor.ErrZoneOccupied.Error(), resp.Message)
	}
	w, _ := e.do(http.MethodPost, fmt.Sprintf("/admin/zones/%d/move", patio.ID), tok,
		map[string]uint{"to_zone_id": unassigned(t, e).ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	e.db.Model(&models.Zone{}).Where("id = ?", patio.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	e.db.Model(&models.Table{}).Where("zone_id = ?", patio.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestInactiveTableBlocksZoneDeletion(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)
	patio := e.zone("Patio", "active")
	e.table("Table 1", &patio, "inactive")

	w, _ := e.do(http.MethodDelete, fmt.Sprintf("/admin/zones/%d", patio.ID), tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteZoneDetachesFreeTables(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)
	patio := e.zone("Patio", "active")
	t1 := e.table("Table 1", &patio, "free")
	t2 := e.table("Table 2", &patio, "free")

	w, resp := e.do(http.MethodDelete, fmt.Sprintf("/admin/zones/%d", patio.ID), tok, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	var out struct {
		Detached int `json:"detached_tables"`
	}
	decode(t, resp, &out)
	assert.Equal(t, 2, out.Detached)

	for _, tb := range []*models.Table{&t1, &t2} {
		e.reload(tb)
		assert.Nil(t, tb.ZoneID)
	}
}

func TestDeleteZoneCascade(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)
	patio := e.zone("Patio", "active")
	terrace := e.zone("Terrace", "active")
	t1 := e.table("Table 1", &patio, "free")
	t2 := e.table("Table 2", &patio, "free")
	keep := e.table("Table 3", &terrace, "free")

	w, resp := e.do(http.MethodDelete, fmt.Sprintf("/admin/zones/%d/cascade", patio.ID), tok, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	var out struct {
		Deleted []int64 `json:"deleted_tables"`
	}
	decode(t, resp, &out)
	assert.ElementsMatch(t, []int64{int64(t1.ID), int64(t2.ID)}, out.Deleted)

	var left []models.Table
	require.NoError(t, e.db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].ID)
}

func TestMoveTables(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)
	patio := e.zone("Patio", "active")
	closed := e.zone("Closed", "inactive")
	u := unassigned(t, e)
	t1 := e.table("Table 1", &patio, "free")
	e.table("Table 2", &patio, "inactive")

	path := fmt.Sprintf("/admin/zones/%d/move", patio.ID)
	for _, dest := range []uint{patio.ID, closed.ID, 999} {
		w, _ := e.do(http.MethodPost, path, tok, map[string]uint{"to_zone_id": dest})
		assert.Equal(t, http.StatusBadRequest, w.Code, dest)
	}

	w, resp := e.do(http.MethodPost, path, tok, map[string]uint{"to_zone_id": u.ID})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	var out struct {
		Moved int `json:"moved"`
	}
	decode(t, resp, &out)
	assert.Equal(t, 2, out.Moved)
	e.reload(&t1)
	require.NotNil(t, t1.ZoneID)
	assert.Equal(t, u.ID, *t1.ZoneID)
}

func TestMoveTablesRefusesTablesInService(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)
	patio := e.zone("Patio", "active")
	terrace := e.zone("Terrace", "active")
	e.table("Table 1", &patio, "inactive")
	busy := e.table("Table 2", &patio, "occupied")

	w, _ := e.do(http.MethodPost, fmt.Sprintf("/admin/zones/%d/move", patio.ID), tok, map[string]uint{"to_zone_id": terrace.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = e.do(http.MethodPost, fmt.Sprintf("/admin/zones/%d/migrate", patio.ID), tok, map[string]string{"name": "Rooftop"})
	assert.Equal(t, http.StatusConflict, w.Code)

	e.reload(&busy)
	require.NotNil(t, busy.ZoneID)
	assert.Equal(t, patio.ID, *busy.ZoneID)
	var count int64
	e.db.Model(&models.Zone{}).Where("name = ?", "Rooftop").Count(&count)
	assert.Zero(t, count, "migrate rolled back")
}

func TestMigrateTables(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)
	patio := e.zone("Patio", "active")
	t1 := e.table("Table 1", &patio, "free")

	path := fmt.Sprintf("/admin/zones/%d/migrate", patio.ID)
	w, _ := e.do(http.MethodPost, path, tok, map[string]string{"name": "PATIO"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := e.do(http.MethodPost, path, tok, map[string]string{"name": "Rooftop"})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)
	var out struct {
		Zone  floor.Zone `json:"zone"`
		Moved int        `json:"moved"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "Rooftop", out.Zone.Name)
	assert.Equal(t, 1, out.Moved)

	e.reload(&t1)
	require.NotNil(t, t1.ZoneID)
	assert.EqualValues(t, out.Zone.ID, *t1.ZoneID)
}
