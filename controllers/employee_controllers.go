package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

type employeeResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toEmployeeResponse(e models.Employee) (employeeResponse, error) {
	var out employeeResponse
	if err := copier.Copy(&out, &e); err != nil {
		return out, fmt.Errorf("map employee %d: %w", e.ID, err)
	}
	return out, nil
}

// respondEmployee writes e without its password hash.
func respondEmployee(c *gin.Context, code int, message string, e models.Employee) {
	out, err := toEmployeeResponse(e)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("employee response")
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, code, message, out)
}

// Login -> JWT for an active employee
func (ec *EmployeeController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var employee models.Employee
	if err := ec.DB.Where("email = ?", strings.ToLower(input.Email)).First(&employee).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondDBError(c, err)
			return
		}
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if !employee.Active {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(input.Password)); err != nil {
		utils.InfoLogger.WithField("email", employee.Email).Warn("failed login")
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(employee.ID, employee.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.WithField("employee_id", employee.ID).Infof("login: %s (role=%s)", employee.Email, employee.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": employee.Role,
	})
}

// Logout revokes the token the request was made with.
func (ec *EmployeeController) Logout(c *gin.Context) {
	token := c.GetString("token")
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	utils.BlacklistToken(token, claims.ExpiresAt.Time)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> the employee behind the token
func (ec *EmployeeController) GetProfile(c *gin.Context) {
	id := c.GetUint("employee_id")
	var employee models.Employee
	if err := ec.DB.First(&employee, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	respondEmployee(c, http.StatusOK, "Profile data retrieved successfully", employee)
}

func (ec *EmployeeController) GetAllEmployees(c *gin.Context) {
	var employees []models.Employee
	if err := ec.DB.Order("id").Find(&employees).Error; err != nil {
		respondDBError(c, err)
		return
	}
	out := make([]employeeResponse, len(employees))
	for i, e := range employees {
		resp, err := toEmployeeResponse(e)
		if err != nil {
			utils.ErrorLogger.WithError(err).Error("employee response")
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		out[i] = resp
	}
	utils.RespondJSON(c, http.StatusOK, "All employees", out)
}

func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=255"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required,oneof=admin manager waiter chef"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	// only admins hand out the admin role
	if req.Role == models.RoleAdmin && c.GetString("role") != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	employee := models.Employee{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     req.Role,
		Active:   true,
	}
	if err := ec.DB.Create(&employee).Error; err != nil {
		respondDBError(c, err)
		return
	}

	utils.InfoLogger.Infof("New employee registered: %s (role=%s)", employee.Email, employee.Role)
	respondEmployee(c, http.StatusCreated, "Employee created", employee)
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, ok := paramID(c, "employee_id")
	if !ok {
		return
	}
	var req struct {
		Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
		Password *string `json:"password" binding:"omitempty,min=8"`
		Role     *string `json:"role" binding:"omitempty,oneof=admin manager waiter chef"`
		Active   *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var employee models.Employee
	if err := ec.DB.First(&employee, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if (employee.Role == models.RoleAdmin || (req.Role != nil && *req.Role == models.RoleAdmin)) &&
		c.GetString("role") != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if req.Name != nil {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		employee.Password = string(hashed)
	}
	if err := ec.DB.Save(&employee).Error; err != nil {
		respondDBError(c, err)
		return
	}
	respondEmployee(c, http.StatusOK, "Employee updated", employee)
}

func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	id, ok := paramID(c, "employee_id")
	if !ok {
		return
	}
	if id == c.GetUint("employee_id") {
		utils.RespondError(c, http.StatusConflict, errors.New("cannot delete your own account"))
		return
	}
	var employee models.Employee
	if err := ec.DB.First(&employee, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if employee.Role == models.RoleAdmin && c.GetString("role") != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	if err := ec.DB.Delete(&employee).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee deleted", gin.H{"employee_id": id})
}
