package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

type FloorController struct {
	DB *gorm.DB
}

func NewFloorController(db *gorm.DB) *FloorController {
	return &FloorController{DB: db}
}

func (fc *FloorController) CreateFloor(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	floor := models.Floor{
		BusinessID: businessID,
		Name:       req.Name,
	}
	if err := fc.DB.Create(&floor).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Floor created", floor)
}

func (fc *FloorController) GetAllFloors(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var floors []models.Floor
	if err := fc.DB.Where("business_id = ?", businessID).Find(&floors).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of floors", floors)
}

// GetFloorByID returns the floor with its modules and each module's
// tables, all scoped to the business.
func (fc *FloorController) GetFloorByID(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	floorID := c.Param("floor_id")

	var floor models.Floor
	if err := fc.DB.Where("business_id = ?", businessID).First(&floor, floorID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("floor not found"))
		return
	}

	if err := fc.DB.Preload("Tables").
		Where("floor_id = ? AND business_id = ?", floor.ID, businessID).
		Find(&floor.Modules).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Floor detail", floor)
}

func (fc *FloorController) UpdateFloor(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	floorID := c.Param("floor_id")

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var floor models.Floor
	if err := fc.DB.Where("business_id = ?", businessID).First(&floor, floorID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("floor not found"))
		return
	}

	floor.Name = req.Name
	if err := fc.DB.Save(&floor).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Floor updated", floor)
}

func (fc *FloorController) DeleteFloor(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	floorID := c.Param("floor_id")

	var floor models.Floor
	if err := fc.DB.Where("business_id = ?", businessID).First(&floor, floorID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("floor not found"))
		return
	}

	if err := fc.DB.Delete(&floor).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Floor deleted", gin.H{"id": floor.ID})
}

// businessIDParam parses the :business_id path segment shared by all
// tenant-scoped routes.
func businessIDParam(c *gin.Context) (uint, bool) {
	id, err := parseUintParam(c, "business_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid business id"))
		return 0, false
	}
	return id, true
}
