package database

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

// EnsureUnassignedZone creates the Unassigned zone when missing and returns it.
func EnsureUnassignedZone(db *gorm.DB) (models.Zone, error) {
	zone := models.Zone{Name: floor.UnassignedZoneName, Status: string(floor.ZoneActive)}
	err := db.Where(models.Zone{Name: floor.UnassignedZoneName}).FirstOrCreate(&zone).Error
	return zone, err
}

// AdoptOrphanTables points tables without a zone at Unassigned.
func AdoptOrphanTables(db *gorm.DB, unassigned models.Zone) (int64, error) {
	res := db.Model(&models.Table{}).Where("zone_id IS NULL").Update("zone_id", unassigned.ID)
	if res.RowsAffected > 0 {
		utils.InfoLogger.WithField("tables", res.RowsAffected).Info("tables without zone moved to Unassigned")
	}
	return res.RowsAffected, res.Error
}

// SeedAdmin creates the first admin when no employee exists yet. It does
// nothing when password is empty.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.Employee{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.Employee{
		Name:     "Administrator",
		Email:    strings.ToLower(email),
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.WithField("email", admin.Email).Info("admin account seeded")
	return nil
}

// Setup migrates the schema and seeds the reserved rows.
func Setup(db *gorm.DB, adminEmail, adminPassword string) error {
	if err := Migrate(db); err != nil {
		return err
	}
	zone, err := EnsureUnassignedZone(db)
	if err != nil {
		return err
	}
	if _, err := AdoptOrphanTables(db, zone); err != nil {
		return err
	}
	if err := SeedAdmin(db, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
