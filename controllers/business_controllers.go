package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

// BusinessController covers the developer surface: creating tenants,
// provisioning their supervisor account and extending subscriptions.
type BusinessController struct {
	DB *gorm.DB
}

func NewBusinessController(db *gorm.DB) *BusinessController {
	return &BusinessController{DB: db}
}

func (bc *BusinessController) CreateBusiness(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Location    string `json:"location"`
		Image       string `json:"image"`
		IsPaid      bool   `json:"is_paid"`
		PaymentDays int    `json:"payment_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	developerID, _ := currentUserID(c)

	var expiry *time.Time
	if req.IsPaid && req.PaymentDays > 0 {
		t := time.Now().UTC().AddDate(0, 0, req.PaymentDays)
		expiry = &t
	}

	business := models.Business{
		Name:              req.Name,
		Location:          req.Location,
		Image:             req.Image,
		IsPaid:            req.IsPaid,
		PaymentExpiryDate: expiry,
		DeveloperID:       developerID,
	}

	if err := bc.DB.Create(&business).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Business %q created (id=%d)", business.Name, business.ID)
	utils.RespondJSON(c, http.StatusCreated, "Business created", business)
}

// CreateSupervisor provisions the supervisor account for a business and
// links it as the tenant's manager. A taken username gets a numeric
// suffix instead of failing.
func (bc *BusinessController) CreateSupervisor(c *gin.Context) {
	businessID := c.Param("business_id")

	var business models.Business
	if err := bc.DB.First(&business, businessID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("business not found"))
		return
	}

	var req struct {
		Username    string `json:"username" binding:"required"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		PhoneNumber string `json:"phone_number"`
		Password    string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Username:    UniqueUsername(bc.DB, req.Username),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Password:    string(hashed),
		Role:        models.RoleSupervisor,
	}
	if err := bc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	business.SupervisorID = &user.ID
	if err := bc.DB.Save(&business).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Supervisor created and linked to the business", gin.H{
		"user":     user,
		"business": business,
	})
}

// ExtendSubscription adds paid days to a tenant; an expired tenant
// restarts from now.
func (bc *BusinessController) ExtendSubscription(c *gin.Context) {
	businessID := c.Param("business_id")

	var req struct {
		AdditionalDays int `json:"additional_days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.AdditionalDays <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("additional days must be positive"))
		return
	}

	var business models.Business
	if err := bc.DB.First(&business, businessID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("business not found"))
		return
	}

	now := time.Now().UTC()
	if business.PaymentExpiryDate != nil && business.PaymentExpiryDate.After(now) {
		t := business.PaymentExpiryDate.AddDate(0, 0, req.AdditionalDays)
		business.PaymentExpiryDate = &t
	} else {
		t := now.AddDate(0, 0, req.AdditionalDays)
		business.PaymentExpiryDate = &t
	}
	business.IsPaid = true

	if err := bc.DB.Save(&business).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Business subscription extended", business)
}

func (bc *BusinessController) GetAllBusinesses(c *gin.Context) {
	var businesses []models.Business
	if err := bc.DB.Find(&businesses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All businesses", businesses)
}
