package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"thrive/database"
	"thrive/middleware"
	"thrive/models"
	"thrive/repository"
	"thrive/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, admin bool) *models.User {
	t.Helper()
	hashed, err := service.HashPassword("pass123")
	require.NoError(t, err)
	u := &models.User{Name: "User " + email, Email: email, PasswordHash: hashed, IsAdmin: admin}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}

// actingAs attaches a principal the way Authenticate would.
func actingAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetPrincipal(c, &middleware.Principal{ID: userID})
		c.Next()
	}
}

// newUserRouter mounts the owner-scoped routes for userID with a fixed clock.
func newUserRouter(db *gorm.DB, userID uint) *gin.Engine {
	clock := service.Clock(func() time.Time { return testNow })
	expenses := repository.NewExpenseRepository(db)
	incomes := repository.NewIncomeRepository(db)
	goals := repository.NewGoalRepository(db)
	users := repository.NewUserRepository(db)

	eh := NewExpenseHandler(service.NewExpenseService(expenses, clock))
	ih := NewIncomeHandler(service.NewIncomeService(incomes, clock))
	gh := NewGoalHandler(service.NewGoalService(goals, users, nil))
	ph := NewPredictHandler(service.NewAnalyticsService(expenses, incomes, goals, repository.NewPredictionRepository(db), clock))

	r := gin.New()
	r.Use(actingAs(userID))
	r.GET("/expenses", eh.List)
	r.POST("/expenses", eh.Create)
	r.GET("/expenses/:id", eh.Get)
	r.PUT("/expenses/:id", eh.Update)
	r.DELETE("/expenses/:id", eh.Delete)
	r.GET("/incomes", ih.List)
	r.POST("/incomes", ih.Create)
	r.GET("/incomes/:id", ih.Get)
	r.PUT("/incomes/:id", ih.Update)
	r.DELETE("/incomes/:id", ih.Delete)
	r.GET("/goals", gh.List)
	r.POST("/goals", gh.Create)
	r.GET("/goals/:id", gh.Get)
	r.PUT("/goals/:id", gh.Update)
	r.PATCH("/goals/:id/add", gh.AddFunds)
	r.DELETE("/goals/:id", gh.Delete)
	r.GET("/predict", ph.Predict)
	r.GET("/predict/dashboard", ph.Dashboard)
	r.GET("/predict/analytics/categories", ph.CategoryAnalytics)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSONWithToken(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func msgOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[MessageResponse](t, w).Msg
}
