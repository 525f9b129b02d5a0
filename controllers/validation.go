package controllers

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by the request
// structs of this package: zone_name, table_state and item_status.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("zone_name", validateZoneName)
		_ = v.RegisterValidation("table_state", validateTableState)
		_ = v.RegisterValidation("item_status", validateItemStatus)
	})
}

func validateZoneName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return name != "" && len(name) <= 100
}

// validateTableState accepts the states a client may set directly.
func validateTableState(fl validator.FieldLevel) bool {
	s, ok := floor.ParseTableState(fl.Field().String())
	return ok && (s == floor.StateFree || s == floor.StateInactive)
}

func validateItemStatus(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	for _, s := range models.ItemStatuses {
		if s == v {
			return true
		}
	}
	return false
}
