package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

type ModuleController struct {
	DB *gorm.DB
}

func NewModuleController(db *gorm.DB) *ModuleController {
	return &ModuleController{DB: db}
}

func (mc *ModuleController) CreateModule(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		FloorID  uint   `json:"floor_id" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var floor models.Floor
	if err := mc.DB.Where("business_id = ?", businessID).First(&floor, req.FloorID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("floor not found"))
		return
	}

	module := models.Module{
		BusinessID: businessID,
		FloorID:    req.FloorID,
		ParentID:   req.ParentID,
		Name:       req.Name,
	}
	if err := mc.DB.Create(&module).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Module created", module)
}

func (mc *ModuleController) GetAllModules(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var modules []models.Module
	if err := mc.DB.Where("business_id = ?", businessID).Find(&modules).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of modules", modules)
}

// GetModuleByID returns the module together with its tables.
func (mc *ModuleController) GetModuleByID(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	moduleID := c.Param("module_id")

	var module models.Module
	if err := mc.DB.Preload("Tables").
		Where("business_id = ?", businessID).First(&module, moduleID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("module not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Module detail", module)
}

func (mc *ModuleController) UpdateModule(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	moduleID := c.Param("module_id")

	var req struct {
		Name    string `json:"name" binding:"required"`
		FloorID uint   `json:"floor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var module models.Module
	if err := mc.DB.Where("business_id = ?", businessID).First(&module, moduleID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("module not found"))
		return
	}

	module.Name = req.Name
	module.FloorID = req.FloorID
	if err := mc.DB.Save(&module).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Module updated", module)
}

// PatchModule updates only the supplied fields.
func (mc *ModuleController) PatchModule(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	moduleID := c.Param("module_id")

	var req struct {
		Name     *string `json:"name"`
		FloorID  *uint   `json:"floor_id"`
		ParentID *uint   `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var module models.Module
	if err := mc.DB.Where("business_id = ?", businessID).First(&module, moduleID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("module not found"))
		return
	}

	if req.Name != nil {
		module.Name = *req.Name
	}
	if req.FloorID != nil {
		module.FloorID = *req.FloorID
	}
	if req.ParentID != nil {
		module.ParentID = req.ParentID
	}

	if err := mc.DB.Save(&module).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Module updated", module)
}

func (mc *ModuleController) DeleteModule(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	moduleID := c.Param("module_id")

	var module models.Module
	if err := mc.DB.Where("business_id = ?", businessID).First(&module, moduleID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("module not found"))
		return
	}

	if err := mc.DB.Delete(&module).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Module deleted", gin.H{"id": module.ID})
}
