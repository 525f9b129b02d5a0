package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/kds"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

// Alert is broadcast as order_alert whenever the number of ready items of
// an order changes.
type Alert struct {
	OrderID    uint `json:"order_id"`
	TableID    uint `json:"table_id"`
	AlertCount int  `json:"alert_count"`
}

// AlertMonitor polls the orders still on the floor and tells the screens
// when dishes are waiting to be served.
type AlertMonitor struct {
	DB        *gorm.DB
	StopChan  chan struct{}
	Interval  time.Duration
	Broadcast func(kds.Message)

	last     map[uint]Alert
	stopOnce sync.Once
}

func NewAlertMonitor(db *gorm.DB) *AlertMonitor {
	return &AlertMonitor{
		DB:        db,
		StopChan:  make(chan struct{}),
		Interval:  5 * time.Second,
		Broadcast: kds.BroadcastMessage,
		last:      make(map[uint]Alert),
	}
}

func (am *AlertMonitor) Start() {
	go func() {
		ticker := time.NewTicker(am.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := am.Check(); err != nil {
					utils.ErrorLogger.WithError(err).Error("alert monitor")
				}
			case <-am.StopChan:
				return
			}
		}
	}()
}

func (am *AlertMonitor) Stop() {
	am.stopOnce.Do(func() { close(am.StopChan) })
}

// Check compares the ready counts with the previous run and broadcasts the
// orders whose count changed. Orders that left the floor are reported with a
// count of zero once. It returns the alerts it sent.
func (am *AlertMonitor) Check() ([]Alert, error) {
	var rows []Alert
	err := am.DB.Model(&models.OrderItem{}).
		Select("orders.id AS order_id, orders.table_id AS table_id, COUNT(order_items.id) AS alert_count").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ? AND order_items.status = ?", models.OrderClosed, models.ItemReady).
		Group("orders.id, orders.table_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	current := make(map[uint]Alert, len(rows))
	var sent []Alert
	for _, a := range rows {
		current[a.OrderID] = a
		if prev, ok := am.last[a.OrderID]; !ok || prev.AlertCount != a.AlertCount {
			sent = append(sent, a)
		}
	}
	for id, prev := range am.last {
		if _, ok := current[id]; !ok {
			prev.AlertCount = 0
			sent = append(sent, prev)
		}
	}
	am.last = current

	for _, a := range sent {
		utils.InfoLogger.WithFields(logrus.Fields{"order_id": a.OrderID, "table_id": a.TableID, "ready": a.AlertCount}).
			Debug("order alert")
		am.Broadcast(kds.Message{Event: kds.EventOrderAlert, Data: a})
	}
	return sent, nil
}
