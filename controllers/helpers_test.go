package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/database"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/router"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Silence()
	utils.SetJWTSecret("controllers-test", time.Hour)
}

// setupTestDB opens a private in-memory database with the Unassigned zone
// and an admin (admin@floor.local / password1) seeded.
func setupTestDB(t *testing.T) *gorm.DB {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Setup(db, "admin@floor.local", "password1"))
	return db
}

type env struct {
	t  *testing.T
	db *gorm.DB
	r  *gin.Engine
}

func newEnv(t *testing.T) *env {
	db := setupTestDB(t)
	return &env{t: t, db: db, r: router.SetupRouter(db, router.Options{})}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// token returns a bearer token for a fresh employee with role.
func (e *env) token(role string) string {
	emp := models.Employee{Name: role, Email: role + "@" + strings.ReplaceAll(e.t.Name(), "/", "-") + ".test", Password: "x", Role: role, Active: true}
	require.NoError(e.t, e.db.Create(&emp).Error)
	tok, err := utils.GenerateToken(emp.ID, role)
	require.NoError(e.t, err)
	return tok
}

func (e *env) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// decode unmarshals the envelope data into out.
func decode(t *testing.T, env envelope, out interface{}) {
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
}

func (e *env) zone(name, status string) models.Zone {
	z := models.Zone{Name: name, Status: status}
	require.NoError(e.t, e.db.Create(&z).Error)
	return z
}

func (e *env) table(name string, zone *models.Zone, state string) models.Table {
	t := models.Table{Name: name, Capacity: 4, State: state}
	if zone != nil {
		t.ZoneID = &zone.ID
	}
	require.NoError(e.t, e.db.Create(&t).Error)
	return t
}

func (e *env) product(name string, price float64, available bool) models.Product {
	cat := models.MenuCategory{Name: "Kitchen"}
	require.NoError(e.t, e.db.Where(cat).FirstOrCreate(&cat).Error)
	p := models.Product{CategoryID: cat.ID, Name: name, Price: price, Available: true}
	require.NoError(e.t, e.db.Create(&p).Error)
	if !available {
		require.NoError(e.t, e.db.Model(&p).Update("available", false).Error)
		p.Available = false
	}
	return p
}

func (e *env) reload(t *models.Table) {
	require.NoError(e.t, e.db.First(t, t.ID).Error)
}
