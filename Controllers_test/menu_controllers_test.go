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

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	ctrl := controllers.NewMenuController(db)
	grp := r.Group("/menu/:business_id")
	grp.Use(authAs(1, models.RoleSupervisor))
	{
		grp.POST("/create", ctrl.CreateMenu)
		grp.GET("", ctrl.GetAllMenus)
		grp.GET("/:menu_id", ctrl.GetMenuByID)
		grp.PUT("/:menu_id", ctrl.UpdateMenu)
		grp.DELETE("/:menu_id", ctrl.DeleteMenu)
	}

	return r
}

func TestMenuCRUD(t *testing.T) {
	db := openTestDB("menus")
	db.Create(&models.Business{Name: "Test Restaurant", IsPaid: true})
	r := setupMenuRouter(db)

	w := doJSON(r, "POST", "/menu/1/create", map[string]interface{}{
		"name":        "Lagman",
		"price":       25000,
		"description": "Hand-pulled noodles",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseBody(w)
	menuID := uint(resp["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(r, "POST", "/menu/1/create", map[string]interface{}{
		"name":  "Free bread",
		"price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "GET", "/menu/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = parseBody(w)
	assert.Len(t, resp["data"].([]interface{}), 1)

	w = doJSON(r, "GET", "/menu/1/"+itoa(menuID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Not visible from another business.
	w = doJSON(r, "GET", "/menu/2/"+itoa(menuID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "DELETE", "/menu/1/"+itoa(menuID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/menu/1/"+itoa(menuID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
