package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrNoPermission       = &CustomError{"You do not have permission"}
	ErrInvalidID          = &CustomError{"invalid id"}
	ErrInvalidCredentials = &CustomError{"invalid credentials"}
	ErrTableNotFree       = &CustomError{"table is not free"}
	ErrTableInGroup       = &CustomError{"table already belongs to a group"}
	ErrGroupTooSmall      = &CustomError{"a group needs at least two tables"}
	ErrPrimaryNotMember   = &CustomError{"primary table must be one of the grouped tables"}
	ErrOrderNotOpen       = &CustomError{"order is not open"}
	ErrOrderClosed        = &CustomError{"order is already closed"}
	ErrProductUnavailable = &CustomError{"product is not available"}
	ErrCategoryInUse      = &CustomError{"category still has products"}
)

// statusError pins the HTTP status an error is answered with.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string { return e.err.Error() }

func (e *statusError) Unwrap() error { return e.err }

func withStatus(code int, err error) error {
	return &statusError{code: code, err: err}
}

// floorStatus maps a floor rule violation onto an HTTP status.
func floorStatus(err error) int {
	if errors.Is(err, floor.ErrZoneNotFound) || errors.Is(err, floor.ErrTableNotFound) {
		return http.StatusNotFound
	}
	switch floor.KindOf(err) {
	case floor.KindValidation:
		return http.StatusBadRequest
	case floor.KindPrecondition:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondFloorError(c *gin.Context, err error) {
	utils.RespondError(c, floorStatus(err), err)
}

func respondDBError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		utils.RespondError(c, http.StatusConflict, err)
		return
	}
	utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("database error")
	utils.RespondError(c, http.StatusInternalServerError, err)
}

// respondErr answers pinned errors with their status, floor rule violations by
// kind and anything else as a database error.
func respondErr(c *gin.Context, err error) {
	var se *statusError
	if errors.As(err, &se) {
		utils.RespondError(c, se.code, se.err)
		return
	}
	var fe *floor.Error
	if errors.As(err, &fe) {
		respondFloorError(c, err)
		return
	}
	respondDBError(c, err)
}

// paramID reads a positive numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}
