package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/kds"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// notify stores a notification for role and pushes it to the connected screens.
func notify(db *gorm.DB, n models.Notification) {
	if err := db.Create(&n).Error; err != nil {
		utils.ErrorLogger.WithError(err).WithField("kind", n.Kind).Error("store notification")
		return
	}
	kds.BroadcastMessage(kds.Message{Event: kds.EventNotification, Data: n})
}

// GetNotifications -> notifications for the caller's role, newest first. ?unread=true hides read ones.
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	q := nc.DB.Order("id DESC").Limit(100)
	if role := c.GetString("role"); role != models.RoleAdmin {
		q = q.Where("role = ?", role)
	}
	if c.Query("unread") == "true" {
		q = q.Where("read_at IS NULL")
	}

	var notifs []models.Notification
	if err := q.Find(&notifs).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}

// MarkRead -> set read_at on a notification addressed to the caller's role
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "notif_id")
	if !ok {
		return
	}
	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if role := c.GetString("role"); role != models.RoleAdmin && role != notif.Role {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	if notif.ReadAt == nil {
		now := time.Now()
		notif.ReadAt = &now
		if err := nc.DB.Model(&notif).Update("read_at", now).Error; err != nil {
			respondDBError(c, err)
			return
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Notification read", notif)
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, ok := paramID(c, "notif_id")
	if !ok {
		return
	}
	res := nc.DB.Delete(&models.Notification{}, id)
	if res.Error != nil {
		respondDBError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondDBError(c, gorm.ErrRecordNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
