package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// MakeOrder creates an order with the price captured from the menu at
// this moment. Later menu edits never touch it.
func (oc *OrderController) MakeOrder(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	role := currentRole(c)
	if role != models.RoleCustomer && role != models.RoleWaiter {
		utils.RespondError(c, http.StatusForbidden, errors.New("only customers and waiters can create orders"))
		return
	}

	userID, _ := currentUserID(c)

	var req struct {
		MenuID   uint `json:"menu_id" binding:"required"`
		TableID  uint `json:"table_id" binding:"required"`
		Quantity int  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quantity must be greater than 0"))
		return
	}

	var menu models.Menu
	if err := oc.DB.Where("business_id = ?", businessID).First(&menu, req.MenuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var table models.Table
	if err := oc.DB.Where("business_id = ?", businessID).First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	order := models.Order{
		BusinessID: businessID,
		UserID:     userID,
		MenuID:     menu.ID,
		TableID:    table.ID,
		Quantity:   req.Quantity,
		Price:      float64(menu.Price * int64(req.Quantity)),
		Status:     models.OrderStatusPending,
	}
	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %d created (business=%d, price=%.2f)", order.ID, businessID, order.Price)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Where("business_id = ?", businessID).First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetMyOrders lists the caller's orders within the business.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	var orders []models.Order
	if err := oc.DB.Where("business_id = ? AND user_id = ?", businessID, userID).
		Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", orders)
}

func (oc *OrderController) GetPendingOrders(c *gin.Context) {
	oc.listByStatus(c, models.OrderStatusPending)
}

func (oc *OrderController) GetCompletedOrders(c *gin.Context) {
	oc.listByStatus(c, models.OrderStatusCompleted)
}

func (oc *OrderController) listByStatus(c *gin.Context, status string) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	var orders []models.Order
	if err := oc.DB.Where("business_id = ? AND status = ?", businessID, status).
		Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Orders with status %s", status), orders)
}

// StartOrder moves PENDING -> IN_PROGRESS.
func (oc *OrderController) StartOrder(c *gin.Context) {
	oc.transition(c, models.OrderStatusInProgress, "Order started")
}

// CompleteOrder moves IN_PROGRESS -> COMPLETED.
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	oc.transition(c, models.OrderStatusCompleted, "Order completed")
}

// CancelOrder is only allowed while the order is still PENDING.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	oc.transition(c, models.OrderStatusCancelled, "Order cancelled")
}

func (oc *OrderController) transition(c *gin.Context, next, message string) {
	businessID, ok := businessIDParam(c)
	if !ok {
		return
	}

	role := currentRole(c)
	if role != models.RoleWorker && role != models.RoleSupervisor {
		utils.RespondError(c, http.StatusForbidden, errors.New("only workers and supervisors can change order status"))
		return
	}

	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Where("business_id = ?", businessID).First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if !order.CanTransitionTo(next) {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("cannot move order from %s to %s", order.Status, next))
		return
	}

	order.Status = next
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %d -> %s", order.ID, next)
	utils.RespondJSON(c, http.StatusOK, message, order)
}
