package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/controllers"
	"github.com/abbossetdarov/restaurant-ops/models"
)

func setupTestDBForStatistics(name string) *gorm.DB {
	db := openTestDB(name)

	db.Create(&models.Business{Name: "Test Restaurant", IsPaid: true})

	// Revenue comes from COMPLETED orders only; counts cover everything.
	db.Create(&models.Order{BusinessID: 1, UserID: 1, MenuID: 1, TableID: 1, Quantity: 1, Price: 100, Status: models.OrderStatusCompleted})
	db.Create(&models.Order{BusinessID: 1, UserID: 1, MenuID: 1, TableID: 2, Quantity: 2, Price: 200, Status: models.OrderStatusCompleted})
	db.Create(&models.Order{BusinessID: 1, UserID: 1, MenuID: 1, TableID: 1, Quantity: 1, Price: 50, Status: models.OrderStatusPending})
	db.Create(&models.Order{BusinessID: 1, UserID: 1, MenuID: 1, TableID: 1, Quantity: 1, Price: 75, Status: models.OrderStatusCancelled})
	db.Create(&models.Order{BusinessID: 2, UserID: 1, MenuID: 1, TableID: 1, Quantity: 1, Price: 999, Status: models.OrderStatusCompleted})

	return db
}

func setupStatisticsRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	ctrl := controllers.NewStatisticsController(db)
	grp := r.Group("/statistics/:business_id")
	grp.Use(authAs(1, models.RoleSupervisor))
	{
		grp.GET("/total_revenue", ctrl.GetTotalRevenue)
		grp.GET("/table_revenue/:table_id", ctrl.GetTableRevenue)
		grp.GET("/daily_revenue", ctrl.GetDailyRevenue)
		grp.GET("/orders_count", ctrl.GetOrdersCount)
		grp.GET("/detailed", ctrl.GetDetailedStatistics)
	}

	return r
}

func TestRevenueCountsCompletedOnly(t *testing.T) {
	db := setupTestDBForStatistics("statistics_revenue")
	r := setupStatisticsRouter(db)

	w := doJSON(r, "GET", "/statistics/1/total_revenue", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseBody(w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(300), data["total_revenue"])

	w = doJSON(r, "GET", "/statistics/1/orders_count", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = parseBody(w)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["total_orders"])
}

func TestTableRevenueScopedToTable(t *testing.T) {
	db := setupTestDBForStatistics("statistics_table")
	r := setupStatisticsRouter(db)

	w := doJSON(r, "GET", "/statistics/1/table_revenue/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseBody(w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["table_revenue"])

	w = doJSON(r, "GET", "/statistics/1/table_revenue/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = parseBody(w)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, float64(200), data["table_revenue"])
}

func TestDailyRevenueIncludesFreshOrders(t *testing.T) {
	db := setupTestDBForStatistics("statistics_daily")
	r := setupStatisticsRouter(db)

	// Seeded just now, so the trailing 24h window covers everything.
	w := doJSON(r, "GET", "/statistics/1/daily_revenue", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseBody(w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(300), data["revenue"])
}

func TestDetailedStatistics(t *testing.T) {
	db := setupTestDBForStatistics("statistics_detailed")
	r := setupStatisticsRouter(db)

	w := doJSON(r, "GET", "/statistics/1/detailed", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseBody(w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(300), data["total_revenue"])
	assert.Equal(t, float64(4), data["total_orders"])
}
