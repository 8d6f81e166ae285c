package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/controllers"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	userCtrl := controllers.NewUserController(db)
	r.POST("/auth/register", userCtrl.Register)
	r.POST("/auth/login", userCtrl.Login)
	r.POST("/auth/login/refresh", userCtrl.Refresh)

	return r
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB("users")
	r := setupUserRouter(db)

	w := doJSON(r, "POST", "/auth/register", map[string]string{
		"username":     "aziza",
		"first_name":   "Aziza",
		"phone_number": "+998901234567",
		"password":     "password123",
		"role":         "SUPERVISOR",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := parseBody(w)
	assert.Equal(t, true, resp["status"])
	data := resp["data"].(map[string]interface{})
	assert.NotNil(t, data["user_id"])
	assert.Equal(t, "SUPERVISOR", data["role"])

	// Same username again is rejected.
	w = doJSON(r, "POST", "/auth/register", map[string]string{
		"username": "aziza",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, "POST", "/auth/login", map[string]string{
		"username": "aziza",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	resp = parseBody(w)
	data = resp["data"].(map[string]interface{})
	accessToken, ok := data["access_token"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, accessToken)
	refreshToken, ok := data["refresh_token"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "SUPERVISOR", data["user_role"])

	w = doJSON(r, "POST", "/auth/login", map[string]string{
		"username": "aziza",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The refresh endpoint accepts only refresh tokens.
	w = doJSON(r, "POST", "/auth/login/refresh", map[string]string{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	resp = parseBody(w)
	data = resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])

	w = doJSON(r, "POST", "/auth/login/refresh", map[string]string{
		"refresh_token": accessToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	db := openTestDB("users")
	r := setupUserRouter(db)

	w := doJSON(r, "POST", "/auth/register", map[string]string{
		"username": "botir",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := parseBody(w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "CUSTOMER", data["role"])
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := openTestDB("users")
	r := setupUserRouter(db)

	w := doJSON(r, "POST", "/auth/register", map[string]string{
		"username": "gulnora",
		"password": "password123",
		"role":     "ADMIN",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
