package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/services"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

// PaymeController receives the gateway's JSON-RPC callbacks. The
// webhook always answers HTTP 200: failures are reported through the
// gateway's own numeric error codes in the response body.
type PaymeController struct {
	Service *services.PaymeService
	Client  *services.PaymeClient
}

func NewPaymeController(service *services.PaymeService) *PaymeController {
	return &PaymeController{
		Service: service,
		Client:  services.NewPaymeClient(service.Config),
	}
}

type paymeRequest struct {
	Method string               `json:"method"`
	Params services.PaymeParams `json:"params"`
	ID     interface{}          `json:"id"`
}

func paymeError(c *gin.Context, requestID interface{}, perr *services.PaymeError) {
	c.JSON(http.StatusOK, gin.H{
		"jsonrpc": "2.0",
		"id":      requestID,
		"error":   perr,
	})
}

func paymeResult(c *gin.Context, requestID interface{}, result interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"jsonrpc": "2.0",
		"id":      requestID,
		"result":  result,
	})
}

// Webhook authenticates the shared-secret Basic header, then
// dispatches on the JSON-RPC method name.
func (pc *PaymeController) Webhook(c *gin.Context) {
	// Authenticate before touching the body: unauthenticated callers get
	// no parse feedback.
	if !pc.Service.VerifyBasicAuth(c.GetHeader("Authorization")) {
		utils.ErrorLogger.Print("payme webhook: authentication failed")
		paymeError(c, nil, &services.PaymeError{
			Code:    services.PaymeCodeAuthFailed,
			Message: "authentication failed",
		})
		return
	}

	var req paymeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		paymeError(c, nil, &services.PaymeError{
			Code:    services.PaymeCodeInvalidAmount,
			Message: "invalid request body",
		})
		return
	}

	var (
		result interface{}
		perr   *services.PaymeError
	)
	switch req.Method {
	case "CheckPerformTransaction":
		result, perr = pc.Service.CheckPerformTransaction(req.Params)
	case "CreateTransaction":
		result, perr = pc.Service.CreateTransaction(req.Params)
	case "PerformTransaction":
		result, perr = pc.Service.PerformTransaction(req.Params)
	case "CancelTransaction":
		result, perr = pc.Service.CancelTransaction(req.Params)
	case "CheckTransaction":
		result, perr = pc.Service.CheckTransaction(req.Params)
	default:
		perr = &services.PaymeError{
			Code:    services.PaymeCodeUnknownMethod,
			Message: "method not found",
		}
	}

	if perr != nil {
		paymeError(c, req.ID, perr)
		return
	}
	paymeResult(c, req.ID, result)
}

// CreateInvoice opens a gateway transaction for a pending order on the
// caller's behalf.
func (pc *PaymeController) CreateInvoice(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := pc.Service.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	if order.Status != models.OrderStatusPending {
		utils.RespondError(c, http.StatusConflict, errors.New("order is not payable"))
		return
	}

	resp, err := pc.Client.CreateInvoice(order.Price, order.ID)
	if err != nil {
		utils.ErrorLogger.Printf("payme invoice for order %d: %v", order.ID, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("payment gateway unavailable"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Invoice created", resp)
}

// PaymentStatus asks the gateway for the current transaction state
// rather than trusting the locally persisted row.
func (pc *PaymeController) PaymentStatus(c *gin.Context) {
	transactionID := c.Param("transaction_id")

	resp, err := pc.Client.CheckPaymentStatus(transactionID)
	if err != nil {
		utils.ErrorLogger.Printf("payme status for transaction %s: %v", transactionID, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("payment gateway unavailable"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Transaction status", resp)
}
