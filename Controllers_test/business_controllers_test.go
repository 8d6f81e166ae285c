package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/controllers"
	"github.com/abbossetdarov/restaurant-ops/models"
)

func setupBusinessRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	ctrl := controllers.NewBusinessController(db)
	grp := r.Group("/dev")
	grp.Use(authAs(1, models.RoleDeveloper))
	{
		grp.POST("/business", ctrl.CreateBusiness)
		grp.GET("/business", ctrl.GetAllBusinesses)
		grp.POST("/:business_id/user", ctrl.CreateSupervisor)
		grp.PUT("/business/:business_id", ctrl.ExtendSubscription)
	}

	return r
}

func TestCreateBusinessAndSupervisor(t *testing.T) {
	db := openTestDB("business")
	r := setupBusinessRouter(db)

	w := doJSON(r, "POST", "/dev/business", map[string]interface{}{
		"name":         "Plov Center",
		"location":     "Tashkent",
		"is_paid":      true,
		"payment_days": 30,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := parseBody(w)
	data := resp["data"].(map[string]interface{})
	businessID := uint(data["id"].(float64))
	assert.Equal(t, true, data["is_paid"])
	assert.NotNil(t, data["payment_expiry_date"])

	w = doJSON(r, "POST", "/dev/"+itoa(businessID)+"/user", map[string]interface{}{
		"username":   "plov_boss",
		"first_name": "Bobur",
		"password":   "password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var supervisor models.User
	assert.NoError(t, db.Where("username = ?", "plov_boss").First(&supervisor).Error)
	assert.Equal(t, models.RoleSupervisor, supervisor.Role)

	var business models.Business
	assert.NoError(t, db.First(&business, businessID).Error)
	assert.NotNil(t, business.SupervisorID)
	assert.Equal(t, supervisor.ID, *business.SupervisorID)

	// A second supervisor with the same username gets a suffixed one.
	w = doJSON(r, "POST", "/dev/"+itoa(businessID)+"/user", map[string]interface{}{
		"username": "plov_boss",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var suffixed models.User
	assert.NoError(t, db.Where("username = ?", "plov_boss_1").First(&suffixed).Error)
}

func TestExtendSubscription(t *testing.T) {
	db := openTestDB("business")
	r := setupBusinessRouter(db)

	expired := time.Now().UTC().Add(-48 * time.Hour)
	db.Create(&models.Business{Name: "Lapsed Cafe", IsPaid: false, PaymentExpiryDate: &expired})

	var seeded models.Business
	assert.NoError(t, db.Where("name = ?", "Lapsed Cafe").First(&seeded).Error)

	w := doJSON(r, "PUT", "/dev/business/"+itoa(seeded.ID), map[string]interface{}{
		"additional_days": 30,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var business models.Business
	assert.NoError(t, db.First(&business, seeded.ID).Error)
	assert.True(t, business.IsPaid)
	// An expired subscription restarts from now, not from the old date.
	assert.True(t, business.PaymentExpiryDate.After(time.Now().UTC().Add(29*24*time.Hour)))

	w = doJSON(r, "PUT", "/dev/business/"+itoa(seeded.ID), map[string]interface{}{
		"additional_days": -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
