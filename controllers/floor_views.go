package controllers

import (
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
)

func zoneDTO(z models.Zone) floor.Zone {
	return floor.NormalizeZone(floor.Zone{ID: int64(z.ID), Name: z.Name, Status: floor.ZoneStatus(z.Status)})
}

func zoneDTOs(zones []models.Zone) []floor.Zone {
	out := make([]floor.Zone, len(zones))
	for i, z := range zones {
		out[i] = zoneDTO(z)
	}
	return out
}

func loadZones(db *gorm.DB) ([]floor.Zone, error) {
	var zones []models.Zone
	if err := db.Order("id").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zoneDTOs(zones), nil
}

func orderDTO(o models.Order) *floor.Order {
	out := &floor.Order{
		ID:         int64(o.ID),
		Total:      o.Total,
		AlertCount: o.AlertCount(),
		StartedAt:  o.StartedAt,
		Items:      make([]floor.OrderItem, len(o.Items)),
	}
	for i, it := range o.Items {
		out.Items[i] = floor.OrderItem{
			ID:        int64(it.ID),
			Dish:      it.Product.Name,
			State:     it.Status,
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
		}
	}
	return out
}

// toRawTable renders t in the shape floor.RawTable decodes. When the table
// points at an order that was not loaded, only the order id is filled in.
func toRawTable(t models.Table, order *models.Order) floor.RawTable {
	raw := floor.RawTable{
		ID:        int64(t.ID),
		Name:      t.Name,
		Capacity:  t.Capacity,
		State:     t.State,
		Group:     t.GroupCode,
		IsPrimary: t.IsPrimary,
	}
	if t.ZoneID != nil {
		z := int64(*t.ZoneID)
		raw.ZoneID = &z
	}
	switch {
	case order != nil:
		raw.Order = orderDTO(*order)
	case t.OrderID != nil:
		raw.Order = &floor.Order{ID: int64(*t.OrderID)}
	}
	return raw
}

// gate returns the floor view of t used to apply the editability rules.
func gate(t models.Table) floor.Table {
	ft, _ := floor.NormalizeTable(toRawTable(t, nil), nil)
	return ft
}

// floorTables is the floor view of tables, zone references resolved against zones.
func floorTables(tables []models.Table, zones []floor.Zone) []floor.Table {
	out := make([]floor.Table, len(tables))
	for i, t := range tables {
		out[i], _ = floor.NormalizeTable(toRawTable(t, nil), zones)
	}
	return out
}

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).Preload("Items.Product")
}

// tableDTOs renders tables with their open orders loaded.
func tableDTOs(db *gorm.DB, tables []models.Table) ([]floor.RawTable, error) {
	var ids []uint
	for _, t := range tables {
		if t.OrderID != nil {
			ids = append(ids, *t.OrderID)
		}
	}
	orders := make(map[uint]*models.Order, len(ids))
	if len(ids) > 0 {
		var loaded []models.Order
		if err := preloadOrder(db).Where("id IN ?", ids).Find(&loaded).Error; err != nil {
			return nil, err
		}
		for i := range loaded {
			orders[loaded[i].ID] = &loaded[i]
		}
	}

	out := make([]floor.RawTable, len(tables))
	for i, t := range tables {
		var o *models.Order
		if t.OrderID != nil {
			o = orders[*t.OrderID]
		}
		out[i] = toRawTable(t, o)
	}
	return out, nil
}

func tableDTO(db *gorm.DB, t models.Table) (floor.RawTable, error) {
	out, err := tableDTOs(db, []models.Table{t})
	if err != nil {
		return floor.RawTable{}, err
	}
	return out[0], nil
}

// floorStats counts tables by normalized state.
func floorStats(db *gorm.DB) (floor.Stats, error) {
	var tables []models.Table
	if err := db.Select("id", "state", "order_id", "group_code", "is_primary").Find(&tables).Error; err != nil {
		return floor.Stats{}, err
	}
	views := make([]floor.Table, len(tables))
	for i, t := range tables {
		views[i] = gate(t)
	}
	return floor.CountStates(views), nil
}
