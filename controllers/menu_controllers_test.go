package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
)

func TestMenuCategories(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)

	w, resp := e.do(http.MethodPost, "/admin/categories", tok, map[string]string{"name": "Starters"})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)
	var cat models.MenuCategory
	decode(t, resp, &cat)

	path := fmt.Sprintf("/admin/categories/%d", cat.ID)
	w, resp = e.do(http.MethodPatch, path, tok, map[string]string{"name": "Tapas"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, resp, &cat)
	assert.Equal(t, "Tapas", cat.Name)

	w, resp = e.do(http.MethodPost, "/admin/products", tok, map[string]interface{}{
		"category_id": cat.ID, "name": "Croquetas", "price": 7.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)

	w, resp = e.do(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "category still has products", resp.Message)

	w, _ = e.do(http.MethodGet, "/admin/categories", e.token(models.RoleWaiter), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(http.MethodDelete, "/admin/categories/999", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProducts(t *testing.T) {
	e := newEnv(t)
	tok := e.token(models.RoleManager)
	cat := models.MenuCategory{Name: "Mains"}
	require.NoError(t, e.db.Create(&cat).Error)

	w, _ := e.do(http.MethodPost, "/admin/products", tok, map[string]interface{}{"category_id": 999, "name": "Ghost", "price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = e.do(http.MethodPost, "/admin/products", tok, map[string]interface{}{"category_id": cat.ID, "name": "Cheap", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := e.do(http.MethodPost, "/admin/products", tok, map[string]interface{}{
		"category_id": cat.ID, "name": "Paella", "price": 14, "available": false, "description": "for two",
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)
	var p models.Product
	decode(t, resp, &p)
	assert.Equal(t, "Paella", p.Name)
	assert.False(t, p.Available)
	var stored models.Product
	require.NoError(t, e.db.First(&stored, p.ID).Error)
	assert.False(t, stored.Available)
	assert.Equal(t, "for two", stored.Description)

	path := fmt.Sprintf("/admin/products/%d", p.ID)
	w, resp = e.do(http.MethodPatch, path, tok, map[string]interface{}{"price": 15.5, "available": true})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	require.NoError(t, e.db.First(&stored, p.ID).Error)
	assert.InDelta(t, 15.5, stored.Price, 0.001)
	assert.True(t, stored.Available)
	assert.Equal(t, "Paella", stored.Name)

	w, resp = e.do(http.MethodGet, "/admin/products?available=true", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Product
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Mains", list[0].Category.Name)

	// ordered products are retired rather than deleted
	patio := e.zone("Patio", "active")
	tb := e.table("Table 1", &patio, "free")
	order := e.openOrder(tok, tb.ID)
	w, _ = e.do(http.MethodPost, fmt.Sprintf("/admin/orders/%d/items", order.ID), tok, map[string]interface{}{"product_id": p.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = e.do(http.MethodDelete, path, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product retired", resp.Message)
	require.NoError(t, e.db.First(&stored, p.ID).Error)
	assert.False(t, stored.Available)
}
