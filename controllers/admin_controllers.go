package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/kds"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

type zoneCount struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Virtual bool   `json:"virtual"`
	Tables  int    `json:"tables"`
}

type dashboardStats struct {
	Tables       floor.Stats `json:"tables"`
	Zones        []zoneCount `json:"zones"`
	OpenOrders   int64       `json:"open_orders"`
	Billing      int64       `json:"billing"`
	ReadyItems   int64       `json:"ready_items"`
	TodayClosed  int64       `json:"today_closed"`
	TodayRevenue float64     `json:"today_revenue"`
	RevenueText  string      `json:"revenue_text"`
}

// GetDashboardStats -> table counters per state and per zone, plus today's takings
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.collect(time.Now())
	if err != nil {
		respondDBError(c, err)
		return
	}
	kds.BroadcastDashboardUpdate(stats.Tables)
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (ac *AdminController) collect(now time.Time) (dashboardStats, error) {
	var stats dashboardStats

	zones, err := loadZones(ac.DB)
	if err != nil {
		return stats, err
	}
	var tables []models.Table
	if err := ac.DB.Find(&tables).Error; err != nil {
		return stats, err
	}
	views := floorTables(tables, zones)
	stats.Tables = floor.CountStates(views)
	for _, e := range floor.ListZones(zones, views) {
		stats.Zones = append(stats.Zones, zoneCount{
			ID:      e.Zone.ID,
			Name:    e.Zone.Name,
			Status:  string(e.Zone.Status),
			Virtual: e.Virtual,
			Tables:  e.Tables,
		})
	}

	if err := ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderOpen).Count(&stats.OpenOrders).Error; err != nil {
		return stats, err
	}
	if err := ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderBilling).Count(&stats.Billing).Error; err != nil {
		return stats, err
	}
	if err := ac.DB.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ? AND order_items.status = ?", models.OrderClosed, models.ItemReady).
		Count(&stats.ReadyItems).Error; err != nil {
		return stats, err
	}

	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	today := ac.DB.Model(&models.Order{}).Where("status = ? AND closed_at >= ?", models.OrderClosed, start)
	if err := today.Count(&stats.TodayClosed).Error; err != nil {
		return stats, err
	}
	if err := ac.DB.Model(&models.Order{}).Where("status = ? AND closed_at >= ?", models.OrderClosed, start).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&stats.TodayRevenue); err != nil {
		return stats, err
	}
	stats.RevenueText = utils.FormatAmount(stats.TodayRevenue)
	return stats, nil
}

// GetOrderFlow -> the orders currently on the floor, oldest first
func (ac *AdminController) GetOrderFlow(c *gin.Context) {
	var orders []models.Order
	if err := preloadOrder(ac.DB).
		Where("status <> ?", models.OrderClosed).
		Order("started_at").
		Find(&orders).Error; err != nil {
		respondDBError(c, err)
		return
	}

	type flowEntry struct {
		TableID uint         `json:"table_id"`
		Status  string       `json:"status"`
		Order   *floor.Order `json:"order"`
		Elapsed string       `json:"elapsed"`
	}
	now := time.Now()
	out := make([]flowEntry, len(orders))
	for i, o := range orders {
		out[i] = flowEntry{
			TableID: o.TableID,
			Status:  o.Status,
			Order:   orderDTO(o),
			Elapsed: now.Sub(o.StartedAt).Truncate(time.Second).String(),
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Order flow status", out)
}

// GetSalesReport -> closed orders and best selling products in [from, to).
// Dates are YYYY-MM-DD, the default window is the last 7 days.
func (ac *AdminController) GetSalesReport(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)
	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		to = t
	}

	var sales struct {
		TotalSales   float64 `json:"total_sales"`
		TotalOrders  int64   `json:"total_orders"`
		AverageOrder float64 `json:"average_order"`
		TopProducts  []struct {
			ProductID uint    `json:"product_id"`
			Name      string  `json:"name"`
			Quantity  int     `json:"quantity"`
			Revenue   float64 `json:"revenue"`
		} `json:"top_products"`
	}

	closed := func() *gorm.DB {
		return ac.DB.Model(&models.Order{}).Where("status = ? AND closed_at >= ? AND closed_at < ?", models.OrderClosed, from, to)
	}
	if err := closed().Count(&sales.TotalOrders).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if err := closed().Select("COALESCE(SUM(total), 0)").Row().Scan(&sales.TotalSales); err != nil {
		respondDBError(c, err)
		return
	}
	if sales.TotalOrders > 0 {
		sales.AverageOrder = sales.TotalSales / float64(sales.TotalOrders)
	}

	if err := ac.DB.Model(&models.OrderItem{}).
		Select("order_items.product_id, products.name, SUM(order_items.quantity) AS quantity, SUM(order_items.quantity * order_items.price) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.status = ? AND orders.closed_at >= ? AND orders.closed_at < ?", models.OrderClosed, from, to).
		Group("order_items.product_id, products.name").
		Order("quantity DESC").
		Limit(5).
		Scan(&sales.TopProducts).Error; err != nil {
		respondDBError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Sales report", sales)
}
