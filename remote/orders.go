package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
)

// Bill is the answer to a bill request.
type Bill struct {
	Order     floor.Order `json:"order"`
	TotalText string      `json:"total_text"`
}

// Group is a freshly formed table group.
type Group struct {
	Code   string           `json:"group"`
	Tables []floor.RawTable `json:"tables"`
}

// Dashboard is the subset of the dashboard stats floorctl shows.
type Dashboard struct {
	Tables      floor.Stats `json:"tables"`
	OpenOrders  int64       `json:"open_orders"`
	Billing     int64       `json:"billing"`
	ReadyItems  int64       `json:"ready_items"`
	TodayClosed int64       `json:"today_closed"`
	RevenueText string      `json:"revenue_text"`
	Zones       []struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Status  string `json:"status"`
		Virtual bool   `json:"virtual"`
		Tables  int    `json:"tables"`
	} `json:"zones"`
}

func (c *Client) OpenOrder(ctx context.Context, tableID int64) (floor.Order, error) {
	var o floor.Order
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/tables/%d/orders", tableID), struct{}{}, &o)
	return o, err
}

func (c *Client) AddItem(ctx context.Context, orderID, productID int64, quantity int, notes string) (floor.Order, error) {
	body := map[string]interface{}{"product_id": productID, "quantity": quantity, "notes": notes}
	var o floor.Order
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/orders/%d/items", orderID), body, &o)
	return o, err
}

func (c *Client) BillOrder(ctx context.Context, orderID int64) (Bill, error) {
	var b Bill
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/orders/%d/bill", orderID), struct{}{}, &b)
	return b, err
}

func (c *Client) CloseOrder(ctx context.Context, orderID int64) (floor.Order, error) {
	var o floor.Order
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/orders/%d/close", orderID), struct{}{}, &o)
	return o, err
}

// GroupTables joins ids under primaryID, which keeps or opens the order.
func (c *Client) GroupTables(ctx context.Context, ids []int64, primaryID int64) (Group, error) {
	body := map[string]interface{}{"table_ids": ids, "primary_id": primaryID}
	var g Group
	err := c.do(ctx, http.MethodPost, "/admin/tables/group", body, &g)
	return g, err
}

func (c *Client) UngroupTables(ctx context.Context, code string) ([]floor.RawTable, error) {
	var tables []floor.RawTable
	err := c.do(ctx, http.MethodPost, "/admin/groups/"+code+"/ungroup", struct{}{}, &tables)
	return tables, err
}

func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := c.do(ctx, http.MethodGet, "/admin/dashboard/stats", nil, &d)
	return d, err
}
