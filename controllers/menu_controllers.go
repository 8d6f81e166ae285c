package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Price       int64  `json:"price"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must be a positive number"))
		return
	}

	menu := models.Menu{
		BusinessID:  businessID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", menu)
}

func (mc *MenuController) GetAllMenus(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var menus []models.Menu
	if err := mc.DB.Where("business_id = ?", businessID).Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", menus)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	menuID := c.Param("menu_id")

	var menu models.Menu
	if err := mc.DB.Where("business_id = ?", businessID).First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", menu)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	menuID := c.Param("menu_id")

	var req struct {
		Name        *string `json:"name"`
		Price       *int64  `json:"price"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.Where("business_id = ?", businessID).First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be a positive number"))
			return
		}
		menu.Price = *req.Price
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", menu)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	menuID := c.Param("menu_id")

	var menu models.Menu
	if err := mc.DB.Where("business_id = ?", businessID).First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	if err := mc.DB.Delete(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": menu.ID})
}
