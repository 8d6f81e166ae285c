package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable adds a table to a module. Table numbers are unique per
// business, not globally.
func (tc *TableController) CreateTable(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var req struct {
		TableNumber int    `json:"table_number" binding:"required"`
		ModuleID    uint   `json:"module_id" binding:"required"`
		Description string `json:"description"`
		Capacity    int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var module models.Module
	if err := tc.DB.Where("business_id = ?", businessID).First(&module, req.ModuleID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("module not found"))
		return
	}

	var existing models.Table
	if err := tc.DB.Where("business_id = ? AND table_number = ?", businessID, req.TableNumber).
		First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("table number already in use"))
		return
	}

	table := models.Table{
		BusinessID:  businessID,
		TableNumber: req.TableNumber,
		ModuleID:    req.ModuleID,
		Description: req.Description,
		Capacity:    req.Capacity,
		Status:      models.TableStatusAvailable,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table %d created for business %d", table.TableNumber, businessID)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

func (tc *TableController) GetAllTables(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var tables []models.Table
	if err := tc.DB.Where("business_id = ?", businessID).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Where("business_id = ?", businessID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable applies patch semantics. Status edits here are direct
// staff overrides; the reservation worker may recompute them later.
func (tc *TableController) UpdateTable(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	tableID := c.Param("table_id")

	var req struct {
		Description *string `json:"description"`
		Capacity    *int    `json:"capacity"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.Where("business_id = ?", businessID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	if req.Description != nil {
		table.Description = *req.Description
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Status != nil {
		if *req.Status != models.TableStatusAvailable && *req.Status != models.TableStatusReserved {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown table status"))
			return
		}
		table.Status = *req.Status
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d updated (status=%s)", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Where("business_id = ?", businessID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// GenerateQR renders the QR code that links customers to the table's
// ordering page and serves it as a PNG download.
func (tc *TableController) GenerateQR(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Where("business_id = ?", businessID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	filePath, err := utils.GenerateTableQR(table.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if _, err := os.Stat(filePath); err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("QR code not found"))
		return
	}

	c.FileAttachment(filePath, fmt.Sprintf("table_%d.png", table.ID))
}
