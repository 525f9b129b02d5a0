package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/kds"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type ZoneController struct {
	DB *gorm.DB
}

func NewZoneController(db *gorm.DB) *ZoneController {
	return &ZoneController{DB: db}
}

// ListZones -> every stored zone, Unassigned included
func (zc *ZoneController) ListZones(c *gin.Context) {
	zones, err := loadZones(zc.DB)
	if err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of zones", zones)
}

// CreateZone -> new active zone
func (zc *ZoneController) CreateZone(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required,zone_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var zone models.Zone
	err := zc.DB.Transaction(func(tx *gorm.DB) error {
		zones, err := loadZones(tx)
		if err != nil {
			return err
		}
		if err := floor.ValidateZoneName(body.Name, zones, 0); err != nil {
			return err
		}
		zone = models.Zone{Name: strings.TrimSpace(body.Name), Status: string(floor.ZoneActive)}
		return tx.Create(&zone).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	kds.BroadcastZoneChange(kds.EventZoneCreate, zoneDTO(zone))
	utils.InfoLogger.WithField("zone_id", zone.ID).Infof("zone created: %s", zone.Name)
	utils.RespondJSON(c, http.StatusCreated, "Zone created", zoneDTO(zone))
}

// UpdateZone -> rename and/or open/close a zone
func (zc *ZoneController) UpdateZone(c *gin.Context) {
	id, ok := paramID(c, "zone_id")
	if !ok {
		return
	}
	var body struct {
		Name   *string `json:"name" binding:"omitempty,zone_name"`
		Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var zone models.Zone
	err := zc.DB.Transaction(func(tx *gorm.DB) error {
		if err := zc.editableZone(tx, id, &zone); err != nil {
			return err
		}
		if body.Name != nil {
			zones, err := loadZones(tx)
			if err != nil {
				return err
			}
			if err := floor.ValidateZoneName(*body.Name, zones, int64(id)); err != nil {
				return err
			}
			zone.Name = strings.TrimSpace(*body.Name)
		}
		if body.Status != nil {
			zone.Status = *body.Status
		}
		return tx.Save(&zone).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	kds.BroadcastZoneChange(kds.EventZoneUpdate, zoneDTO(zone))
	utils.RespondJSON(c, http.StatusOK, "Zone updated", zoneDTO(zone))
}

// DeleteZone removes a zone. It is refused while any of its tables is not
// free; free tables still pointing at it are detached.
func (zc *ZoneController) DeleteZone(c *gin.Context) {
	id, ok := paramID(c, "zone_id")
	if !ok {
		return
	}

	var detached int64
	err := zc.DB.Transaction(func(tx *gorm.DB) error {
		var zone models.Zone
		if err := zc.editableZone(tx, id, &zone); err != nil {
			return err
		}
		if _, err := zc.plan(tx, zone); err != nil {
			return err
		}
		res := tx.Model(&models.Table{}).Where("zone_id = ?", id).Update("zone_id", nil)
		if res.Error != nil {
			return res.Error
		}
		detached = res.RowsAffected
		return tx.Delete(&models.Zone{}, id).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	if detached > 0 {
		utils.InfoLogger.WithFields(logrus.Fields{"zone_id": id, "tables": detached}).
			Warn("zone deleted with tables still assigned, tables left without zone")
	}
	kds.BroadcastZoneChange(kds.EventZoneDelete, gin.H{"zone_id": id, "detached_tables": detached})
	utils.RespondJSON(c, http.StatusOK, "Zone deleted", gin.H{"zone_id": id, "detached_tables": detached})
}

// DeleteZoneCascade removes a zone together with all of its tables.
func (zc *ZoneController) DeleteZoneCascade(c *gin.Context) {
	id, ok := paramID(c, "zone_id")
	if !ok {
		return
	}

	var removed []int64
	err := zc.DB.Transaction(func(tx *gorm.DB) error {
		var zone models.Zone
		if err := zc.editableZone(tx, id, &zone); err != nil {
			return err
		}
		plan, err := zc.plan(tx, zone)
		if err != nil {
			return err
		}
		removed = plan.TableIDs()
		if err := tx.Where("zone_id = ?", id).Delete(&models.Table{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Zone{}, id).Error
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	utils.InfoLogger.WithFields(logrus.Fields{"zone_id": id, "tables": len(removed)}).Info("zone deleted with its tables")
	kds.BroadcastZoneChange(kds.EventZoneDelete, gin.H{"zone_id": id, "deleted_tables": removed})
	utils.RespondJSON(c, http.StatusOK, "Zone and tables deleted", gin.H{"zone_id": id, "deleted_tables": removed})
}

// MoveTables -> repoint every table of a zone to another existing zone
func (zc *ZoneController) MoveTables(c *gin.Context) {
	id, ok := paramID(c, "zone_id")
	if !ok {
		return
	}
	var body struct {
		ToZoneID uint `json:"to_zone_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var moved int64
	err := zc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		moved, err = zc.moveAll(tx, id, func(zones []floor.Zone) (uint, error) {
			dest, ok := floor.FindZone(zones, int64(body.ToZoneID))
			if !ok || dest.ID == int64(id) || !dest.Active() {
				return 0, &floor.Error{Kind: floor.KindValidation, Err: floor.ErrInvalidDestination}
			}
			return body.ToZoneID, nil
		})
		return err
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	kds.BroadcastZoneChange(kds.EventZoneUpdate, gin.H{"zone_id": id, "moved_to": body.ToZoneID})
	utils.RespondJSON(c, http.StatusOK, "Tables moved", gin.H{"from_zone_id": id, "to_zone_id": body.ToZoneID, "moved": moved})
}

// MigrateTables -> create a zone and move every table of this one into it
func (zc *ZoneController) MigrateTables(c *gin.Context) {
	id, ok := paramID(c, "zone_id")
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name" binding:"required,zone_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var created models.Zone
	var moved int64
	err := zc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		moved, err = zc.moveAll(tx, id, func(zones []floor.Zone) (uint, error) {
			if err := floor.ValidateZoneName(body.Name, zones, 0); err != nil {
				return 0, err
			}
			created = models.Zone{Name: strings.TrimSpace(body.Name), Status: string(floor.ZoneActive)}
			if err := tx.Create(&created).Error; err != nil {
				return 0, err
			}
			return created.ID, nil
		})
		return err
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	kds.BroadcastZoneChange(kds.EventZoneCreate, zoneDTO(created))
	utils.RespondJSON(c, http.StatusCreated, "Tables migrated", gin.H{"zone": zoneDTO(created), "moved": moved})
}

// moveAll checks that every table of zone id is editable, asks pick for the
// destination and repoints the tables.
func (zc *ZoneController) moveAll(tx *gorm.DB, id uint, pick func([]floor.Zone) (uint, error)) (int64, error) {
	var zone models.Zone
	if err := tx.First(&zone, id).Error; err != nil {
		return 0, err
	}
	var tables []models.Table
	if err := tx.Where("zone_id = ?", zone.ID).Find(&tables).Error; err != nil {
		return 0, err
	}
	zones, err := loadZones(tx)
	if err != nil {
		return 0, err
	}
	if err := floor.CheckZoneMovable(zoneDTO(zone), floorTables(tables, zones)); err != nil {
		return 0, err
	}
	dest, err := pick(zones)
	if err != nil {
		return 0, err
	}
	res := tx.Model(&models.Table{}).Where("zone_id = ?", id).Update("zone_id", dest)
	return res.RowsAffected, res.Error
}

// editableZone loads zone id into z and refuses the reserved zones.
func (zc *ZoneController) editableZone(tx *gorm.DB, id uint, z *models.Zone) error {
	if err := tx.First(z, id).Error; err != nil {
		return err
	}
	if floor.IsReservedZoneName(z.Name) {
		return &floor.Error{Kind: floor.KindPrecondition, Err: floor.ErrReservedZone}
	}
	return nil
}

// plan classifies the tables of zone, failing when one of them is not free.
func (zc *ZoneController) plan(tx *gorm.DB, zone models.Zone) (floor.DeletionPlan, error) {
	var tables []models.Table
	if err := tx.Where("zone_id = ?", zone.ID).Find(&tables).Error; err != nil {
		return floor.DeletionPlan{}, err
	}
	zones := []floor.Zone{zoneDTO(zone)}
	plan := floor.PlanZoneDeletion(zones[0], floorTables(tables, zones))
	if plan.Outcome == floor.OutcomeBlocked {
		return plan, &floor.Error{Kind: floor.KindPrecondition, Err: floor.ErrZoneOccupied}
	}
	return plan, nil
}
