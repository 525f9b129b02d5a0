package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/kds"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetAllTables -> every table with its open order.
// ?zone_id=<id> narrows to one zone, ?zone_id=0 to tables without zone; ?state= filters by state.
func (tc *TableController) GetAllTables(c *gin.Context) {
	q := tc.DB.Order("id")
	if z, ok := c.GetQuery("zone_id"); ok {
		id, err := strconv.ParseUint(z, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
			return
		}
		if id == 0 {
			q = q.Where("zone_id IS NULL")
		} else {
			q = q.Where("zone_id = ?", id)
		}
	}
	if s := c.Query("state"); s != "" {
		state, ok := floor.ParseTableState(s)
		if !ok {
			utils.RespondError(c, http.StatusBadRequest, floor.ErrInvalidState)
			return
		}
		q = q.Where("state = ?", string(state))
	}

	var tables []models.Table
	if err := q.Find(&tables).Error; err != nil {
		respondDBError(c, err)
		return
	}
	out, err := tableDTOs(tc.DB, tables)
	if err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", out)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	out, err := tableDTO(tc.DB, table)
	if err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", out)
}

// CreateTable -> new free table in an active zone, named "Table N"
func (tc *TableController) CreateTable(c *gin.Context) {
	var body floor.TableInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		zones, err := loadZones(tx)
		if err != nil {
			return err
		}
		if err := floor.CheckAssignable(zones, body.ZoneID); err != nil {
			return err
		}
		var names []string
		if err := tx.Model(&models.Table{}).Pluck("name", &names).Error; err != nil {
			return err
		}
		zoneID := uint(body.ZoneID)
		table = models.Table{
			Name:     floor.NextTableName(names),
			Capacity: floor.ClampCapacity(body.Capacity, floor.FloorPlanCeiling),
			ZoneID:   &zoneID,
			State:    string(floor.StateFree),
		}
		return tx.Create(&table).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	out := toRawTable(table, nil)
	tc.broadcast(kds.EventTableCreate, out)
	utils.InfoLogger.WithField("table_id", table.ID).Infof("table created: %s (capacity=%d)", table.Name, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created", out)
}

// UpdateTable -> rename, recapacity, rezone or enable/disable a table that is not in service
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	var body struct {
		Capacity *int    `json:"capacity"`
		ZoneID   *int64  `json:"zone_id"`
		Name     *string `json:"name"`
		State    *string `json:"state" binding:"omitempty,table_state"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return err
		}
		ft := gate(table)
		if err := floor.CheckEditable(ft); err != nil {
			return err
		}

		if body.Capacity != nil {
			table.Capacity = floor.ClampCapacity(*body.Capacity, floor.FloorPlanCeiling)
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return &floor.Error{Kind: floor.KindValidation, Err: floor.ErrEmptyTableName}
			}
			table.Name = name
		}
		if body.ZoneID != nil {
			zones, err := loadZones(tx)
			if err != nil {
				return err
			}
			if err := floor.CheckAssignable(zones, *body.ZoneID); err != nil {
				return err
			}
			z := uint(*body.ZoneID)
			table.ZoneID = &z
		}
		if body.State != nil {
			state, _ := floor.ParseTableState(*body.State)
			if state == floor.StateInactive && ft.Order != nil {
				return &floor.Error{Kind: floor.KindPrecondition, Err: floor.ErrTableHasOrder}
			}
			table.State = string(state)
		}
		return tx.Save(&table).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	out := toRawTable(table, nil)
	tc.broadcast(kds.EventTableUpdate, out)
	utils.RespondJSON(c, http.StatusOK, "Table updated", out)
}

// DeleteTable -> remove a table that carries no order
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, id).Error; err != nil {
			return err
		}
		if err := floor.CheckDeletable(gate(table)); err != nil {
			return err
		}
		return tx.Delete(&table).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	tc.broadcast(kds.EventTableDelete, gin.H{"table_id": id})
	utils.InfoLogger.WithField("table_id", id).Info("table deleted")
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}

// BulkDeleteTables deletes all of ids or none of them.
func (tc *TableController) BulkDeleteTables(c *gin.Context) {
	var body struct {
		IDs []uint `json:"ids" binding:"required,min=1,dive,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var tables []models.Table
		if err := tx.Where("id IN ?", body.IDs).Find(&tables).Error; err != nil {
			return err
		}
		found := make(map[uint]bool, len(tables))
		for _, t := range tables {
			found[t.ID] = true
			if err := floor.CheckDeletable(gate(t)); err != nil {
				return fmt.Errorf("table %d: %w", t.ID, err)
			}
		}
		for _, id := range body.IDs {
			if !found[id] {
				return fmt.Errorf("table %d: %w", id, &floor.Error{Kind: floor.KindValidation, Err: floor.ErrTableNotFound})
			}
		}
		return tx.Where("id IN ?", body.IDs).Delete(&models.Table{}).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	tc.broadcast(kds.EventTableDelete, gin.H{"table_ids": body.IDs})
	utils.RespondJSON(c, http.StatusOK, "Tables deleted", gin.H{"ids": body.IDs})
}

// TableQRCode -> PNG QR code pointing at the table's menu page. ?size= sets the edge in pixels.
func (tc *TableController) TableQRCode(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "256"))
	if err != nil || size < 64 || size > 1024 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("size must be between 64 and 1024"))
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	content := fmt.Sprintf("%s://%s/menu?table=%d", scheme, c.Request.Host, table.ID)
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	img, err := qr.PNG(size)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, slug.Make(table.Name)))
	c.Data(http.StatusOK, "image/png", img)
}

func (tc *TableController) broadcast(event string, data interface{}) {
	kds.BroadcastTableChange(event, data)
	if stats, err := floorStats(tc.DB); err == nil {
		kds.BroadcastDashboardUpdate(stats)
	}
}
