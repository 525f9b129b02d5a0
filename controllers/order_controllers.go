package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/kds"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// OpenOrder -> open an order on a free table (free -> occupied)
func (oc *OrderController) OpenOrder(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	var order models.Order
	var table models.Table
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return err
		}
		if err := openZone(tx, table); err != nil {
			return err
		}
		if table.State != string(floor.StateFree) || table.OrderID != nil || table.GroupCode != "" {
			return withStatus(http.StatusConflict, ErrTableNotFree)
		}
		var err error
		order, err = startOrder(tx, &table, string(floor.StateOccupied))
		return err
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	utils.InfoLogger.WithFields(logrus.Fields{"table_id": table.ID, "order_id": order.ID}).Info("order opened")
	oc.broadcast(order, table)
	utils.RespondJSON(c, http.StatusCreated, "Order opened", orderDTO(order))
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	var order models.Order
	if err := preloadOrder(oc.DB).First(&order, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{
		"order":      orderDTO(order),
		"table_id":   order.TableID,
		"status":     order.Status,
		"closed_at":  order.ClosedAt,
		"total_text": utils.FormatAmount(order.Total),
	})
}

// AddItem -> add a product to an open order at its current price
func (oc *OrderController) AddItem(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		ProductID uint   `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1,max=99"`
		Notes     string `json:"notes" binding:"max=500"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if order.Status != models.OrderOpen {
			return withStatus(http.StatusConflict, ErrOrderNotOpen)
		}
		var product models.Product
		if err := tx.First(&product, body.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return withStatus(http.StatusBadRequest, ErrProductUnavailable)
			}
			return err
		}
		if !product.Available {
			return withStatus(http.StatusConflict, ErrProductUnavailable)
		}
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  body.Quantity,
			Price:     product.Price,
			Notes:     body.Notes,
			Status:    models.ItemPending,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return recalculate(tx, &order)
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	kds.BroadcastMessage(kds.Message{Event: kds.EventKitchenUpdate, Data: orderDTO(order)})
	kds.BroadcastOrderUpdate(orderDTO(order))
	utils.RespondJSON(c, http.StatusCreated, "Item added", orderDTO(order))
}

// UpdateItemStatus -> move an item through pending, cooking, ready, served
func (oc *OrderController) UpdateItemStatus(c *gin.Context) {
	id, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required,item_status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.First(&order, item.OrderID).Error; err != nil {
			return err
		}
		if order.Status == models.OrderClosed {
			return withStatus(http.StatusConflict, ErrOrderClosed)
		}
		if err := tx.Model(&item).Update("status", body.Status).Error; err != nil {
			return err
		}
		return preloadOrder(tx).First(&order, order.ID).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	dto := orderDTO(order)
	kds.BroadcastOrderUpdate(dto)
	if body.Status == models.ItemReady {
		kds.BroadcastMessage(kds.Message{Event: kds.EventOrderAlert, Data: gin.H{
			"order_id": order.ID, "table_id": order.TableID, "alert_count": dto.AlertCount,
		}})
		dish := "an item"
		for _, it := range order.Items {
			if it.ID == id {
				dish = it.Product.Name
			}
		}
		notify(oc.DB, models.Notification{
			Role:    models.RoleWaiter,
			Kind:    models.NotifyItemReady,
			Title:   "Dish ready",
			Message: fmt.Sprintf("Order %d: %s is ready", order.ID, dish),
			OrderID: &order.ID,
			TableID: &order.TableID,
		})
	}
	utils.RespondJSON(c, http.StatusOK, "Item updated", dto)
}

// BillOrder -> the table carrying the order waits for the bill
func (oc *OrderController) BillOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	var order models.Order
	var table models.Table
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := preloadOrder(tx).First(&order, id).Error; err != nil {
			return err
		}
		if order.Status != models.OrderOpen {
			return withStatus(http.StatusConflict, ErrOrderNotOpen)
		}
		if err := tx.First(&table, order.TableID).Error; err != nil {
			return err
		}
		order.Status = models.OrderBilling
		if err := tx.Model(&order).Update("status", order.Status).Error; err != nil {
			return err
		}
		table.State = string(floor.StateAwaitingBill)
		return tx.Model(&table).Update("state", table.State).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	oc.broadcast(order, table)
	notify(oc.DB, models.Notification{
		Role:    models.RoleManager,
		Kind:    models.NotifyBillRequested,
		Title:   "Bill requested",
		Message: fmt.Sprintf("%s asks for the bill (%s)", table.Name, utils.FormatAmount(order.Total)),
		OrderID: &order.ID,
		TableID: &table.ID,
	})
	utils.RespondJSON(c, http.StatusOK, "Bill requested", gin.H{
		"order":      orderDTO(order),
		"total_text": utils.FormatAmount(order.Total),
	})
}

// CloseOrder closes the order and frees every table it occupied, group
// members included.
func (oc *OrderController) CloseOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	var order models.Order
	var freed []models.Table
	var receipt models.Receipt
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := preloadOrder(tx).First(&order, id).Error; err != nil {
			return err
		}
		if order.Status == models.OrderClosed {
			return withStatus(http.StatusConflict, ErrOrderClosed)
		}
		now := time.Now()
		order.Status = models.OrderClosed
		order.ClosedAt = &now
		if err := tx.Model(&order).Updates(map[string]interface{}{"status": order.Status, "closed_at": now}).Error; err != nil {
			return err
		}

		var carrier models.Table
		if err := tx.First(&carrier, order.TableID).Error; err != nil {
			return err
		}
		q := tx.Where("order_id = ?", order.ID)
		if carrier.GroupCode != "" {
			q = q.Or("group_code = ?", carrier.GroupCode)
		}
		if err := q.Find(&freed).Error; err != nil {
			return err
		}
		if err := freeTables(tx, freed); err != nil {
			return err
		}
		var err error
		receipt, err = issueReceipt(tx, order, carrier, len(freed), c.GetUint("employee_id"))
		return err
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	utils.InfoLogger.WithFields(logrus.Fields{"order_id": order.ID, "tables": len(freed), "receipt": receipt.ReceiptNumber}).
		Infof("order closed, total %s", utils.FormatAmount(order.Total))
	kds.BroadcastOrderUpdate(orderDTO(order))
	for _, t := range freed {
		kds.BroadcastTableChange(kds.EventTableUpdate, toRawTable(t, nil))
	}
	oc.dashboard()
	utils.RespondJSON(c, http.StatusOK, "Order closed", orderDTO(order))
}

// GroupTables joins tables under a primary one. The primary carries the
// group's order, opening one when it had none; the others follow it.
func (oc *OrderController) GroupTables(c *gin.Context) {
	var body struct {
		TableIDs  []uint `json:"table_ids" binding:"required,dive,gt=0"`
		PrimaryID uint   `json:"primary_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ids := uniqueIDs(body.TableIDs)
	if len(ids) < 2 {
		utils.RespondError(c, http.StatusBadRequest, ErrGroupTooSmall)
		return
	}
	if !containsID(ids, body.PrimaryID) {
		utils.RespondError(c, http.StatusBadRequest, ErrPrimaryNotMember)
		return
	}

	code := uuid.NewString()
	var tables []models.Table
	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Order("id").Find(&tables).Error; err != nil {
			return err
		}
		if len(tables) != len(ids) {
			return &floor.Error{Kind: floor.KindPrecondition, Err: floor.ErrTableNotFound}
		}
		for _, t := range tables {
			if err := groupable(tx, t, t.ID == body.PrimaryID); err != nil {
				return err
			}
		}

		for i := range tables {
			t := &tables[i]
			t.GroupCode = code
			t.State = string(floor.StateGrouped)
			if t.ID != body.PrimaryID {
				if err := tx.Save(t).Error; err != nil {
					return err
				}
				continue
			}
			t.IsPrimary = true
			if t.OrderID == nil {
				var err error
				if order, err = startOrder(tx, t, t.State); err != nil {
					return err
				}
				continue
			}
			if err := tx.Save(t).Error; err != nil {
				return err
			}
			if err := preloadOrder(tx).First(&order, *t.OrderID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	utils.InfoLogger.WithFields(logrus.Fields{"group": code, "primary": body.PrimaryID, "tables": len(tables)}).Info("tables grouped")
	out := make([]floor.RawTable, len(tables))
	for i, t := range tables {
		if t.IsPrimary {
			out[i] = toRawTable(t, &order)
		} else {
			out[i] = toRawTable(t, nil)
		}
		kds.BroadcastTableChange(kds.EventTableUpdate, out[i])
	}
	kds.BroadcastOrderUpdate(orderDTO(order))
	oc.dashboard()
	utils.RespondJSON(c, http.StatusCreated, "Tables grouped", gin.H{"group": code, "tables": out})
}

// UngroupTables dissolves a group. The primary keeps the order, the others are freed.
func (oc *OrderController) UngroupTables(c *gin.Context) {
	code := c.Param("group")
	if _, err := uuid.Parse(code); err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
		return
	}

	var tables []models.Table
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_code = ?", code).Order("id").Find(&tables).Error; err != nil {
			return err
		}
		if len(tables) == 0 {
			return gorm.ErrRecordNotFound
		}
		for i := range tables {
			t := &tables[i]
			if !t.IsPrimary || t.OrderID == nil {
				t.OrderID = nil
				t.State = string(floor.StateFree)
			} else {
				var order models.Order
				if err := tx.First(&order, *t.OrderID).Error; err != nil {
					return err
				}
				t.State = string(floor.StateOccupied)
				if order.Status == models.OrderBilling {
					t.State = string(floor.StateAwaitingBill)
				}
			}
			t.GroupCode = ""
			t.IsPrimary = false
			if err := tx.Select("state", "order_id", "group_code", "is_primary").Save(t).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	utils.InfoLogger.WithField("group", code).Info("group dissolved")
	out := make([]floor.RawTable, len(tables))
	for i, t := range tables {
		out[i] = toRawTable(t, nil)
		kds.BroadcastTableChange(kds.EventTableUpdate, out[i])
	}
	oc.dashboard()
	utils.RespondJSON(c, http.StatusOK, "Group dissolved", out)
}

func (oc *OrderController) broadcast(order models.Order, table models.Table) {
	kds.BroadcastOrderUpdate(orderDTO(order))
	kds.BroadcastTableChange(kds.EventTableUpdate, toRawTable(table, &order))
	oc.dashboard()
}

func (oc *OrderController) dashboard() {
	if stats, err := floorStats(oc.DB); err == nil {
		kds.BroadcastDashboardUpdate(stats)
	}
}

// startOrder opens an order on t and leaves t in state.
func startOrder(tx *gorm.DB, t *models.Table, state string) (models.Order, error) {
	order := models.Order{TableID: t.ID, Status: models.OrderOpen, StartedAt: time.Now()}
	if err := tx.Create(&order).Error; err != nil {
		return order, err
	}
	t.OrderID = &order.ID
	t.State = state
	return order, tx.Save(t).Error
}

// openZone refuses tables whose zone is closed.
func openZone(tx *gorm.DB, t models.Table) error {
	if t.ZoneID == nil {
		return nil
	}
	var zone models.Zone
	if err := tx.First(&zone, *t.ZoneID).Error; err != nil {
		return err
	}
	if !zoneDTO(zone).Active() {
		return &floor.Error{Kind: floor.KindPrecondition, Err: floor.ErrZoneInactive}
	}
	return nil
}

// groupable checks t may join a group. Only the primary may already be occupied.
func groupable(tx *gorm.DB, t models.Table, primary bool) error {
	if t.GroupCode != "" {
		return withStatus(http.StatusConflict, ErrTableInGroup)
	}
	if err := openZone(tx, t); err != nil {
		return err
	}
	switch floor.TableState(t.State) {
	case floor.StateFree:
		return nil
	case floor.StateOccupied:
		if primary {
			return nil
		}
	}
	return withStatus(http.StatusConflict, ErrTableNotFree)
}

func freeTables(tx *gorm.DB, tables []models.Table) error {
	for i := range tables {
		t := &tables[i]
		t.State = string(floor.StateFree)
		t.OrderID = nil
		t.GroupCode = ""
		t.IsPrimary = false
		if err := tx.Select("state", "order_id", "group_code", "is_primary").Save(t).Error; err != nil {
			return err
		}
	}
	return nil
}

func recalculate(tx *gorm.DB, order *models.Order) error {
	if err := preloadOrder(tx).First(order, order.ID).Error; err != nil {
		return err
	}
	order.Recalculate()
	return tx.Model(order).Update("total", order.Total).Error
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
