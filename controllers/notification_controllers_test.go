package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
)

func TestNotificationsFollowTheOrder(t *testing.T) {
	e := newEnv(t)
	waiter := e.token(models.RoleWaiter)
	chef := e.token(models.RoleChef)
	manager := e.token(models.RoleManager)
	admin := e.token(models.RoleAdmin)
	patio := e.zone("Patio", "active")
	tb := e.table("Table 1", &patio, "free")
	soup := e.product("Soup", 6, true)

	order := e.openOrder(waiter, tb.ID)
	w, resp := e.do(http.MethodPost, fmt.Sprintf("/admin/orders/%d/items", order.ID), waiter, map[string]interface{}{
		"product_id": soup.ID, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)

	var item models.OrderItem
	require.NoError(t, e.db.Where("order_id = ?", order.ID).First(&item).Error)
	w, resp = e.do(http.MethodPatch, fmt.Sprintf("/admin/order-items/%d", item.ID), chef, map[string]string{"status": "ready"})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	w, resp = e.do(http.MethodPost, fmt.Sprintf("/admin/orders/%d/bill", order.ID), waiter, nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	var forWaiter []models.Notification
	_, resp = e.do(http.MethodGet, "/admin/notifications", waiter, nil)
	decode(t, resp, &forWaiter)
	require.Len(t, forWaiter, 1)
	assert.Equal(t, models.NotifyItemReady, forWaiter[0].Kind)
	assert.Contains(t, forWaiter[0].Message, "Soup")

	var forManager []models.Notification
	_, resp = e.do(http.MethodGet, "/admin/notifications", manager, nil)
	decode(t, resp, &forManager)
	require.Len(t, forManager, 1)
	assert.Equal(t, models.NotifyBillRequested, forManager[0].Kind)
	assert.Contains(t, forManager[0].Message, "Table 1")

	var all []models.Notification
	_, resp = e.do(http.MethodGet, "/admin/notifications", admin, nil)
	decode(t, resp, &all)
	assert.Len(t, all, 2)

	// a waiter cannot mark the manager's notification
	w, _ = e.do(http.MethodPatch, fmt.Sprintf("/admin/notifications/%d/read", forManager[0].ID), waiter, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = e.do(http.MethodPatch, fmt.Sprintf("/admin/notifications/%d/read", forWaiter[0].ID), waiter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, resp = e.do(http.MethodGet, "/admin/notifications?unread=true", waiter, nil)
	var unread []models.Notification
	decode(t, resp, &unread)
	assert.Empty(t, unread)

	w, _ = e.do(http.MethodDelete, fmt.Sprintf("/admin/notifications/%d", forManager[0].ID), waiter, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = e.do(http.MethodDelete, fmt.Sprintf("/admin/notifications/%d", forManager[0].ID), manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(http.MethodDelete, fmt.Sprintf("/admin/notifications/%d", forManager[0].ID), manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
