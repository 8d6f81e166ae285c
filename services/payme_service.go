package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/abbossetdarov/restaurant-ops/config"
	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/utils"
)

// Payme error codes, mirrored from the gateway's own taxonomy. The
// webhook answers with these instead of HTTP status codes.
const (
	PaymeCodeOrderNotFound        = -31050
	PaymeCodeWrongOrderState      = -31008
	PaymeCodeInvalidAmount        = -31001
	PaymeCodeTransactionNotFound  = -31003
	PaymeCodeDuplicateTransaction = -31004
	PaymeCodeAuthFailed           = -32504
	PaymeCodeUnknownMethod        = -32601
)

type PaymeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *PaymeError) Error() string {
	return fmt.Sprintf("payme error %d: %s", e.Code, e.Message)
}

// PaymeParams is the params object of the JSON-RPC envelope. Account
// identifies the order being paid for.
type PaymeParams struct {
	ID      string                 `json:"id"`
	Amount  float64                `json:"amount"`
	Account map[string]interface{} `json:"account"`
	Reason  *int                   `json:"reason,omitempty"`
}

// OrderID pulls account.order_id, tolerating both string and numeric
// encodings (the gateway has sent both).
func (p PaymeParams) OrderID() (uint, bool) {
	raw, ok := p.Account["order_id"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case string:
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint(id), true
	case float64:
		if v <= 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}

// PaymeService persists gateway transactions and answers the webhook
// methods. This is the authoritative, database-backed variant of the
// adapter.
type PaymeService struct {
	DB     *gorm.DB
	Config config.PaymeConfig
}

func NewPaymeService(db *gorm.DB, cfg config.PaymeConfig) *PaymeService {
	return &PaymeService{DB: db, Config: cfg}
}

// VerifyBasicAuth checks the shared secret header, expected to be
// "Basic " + base64(merchant_id:secret_key).
func (s *PaymeService) VerifyBasicAuth(header string) bool {
	const prefix = "Basic "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return false
	}
	expected := fmt.Sprintf("%s:%s", s.Config.MerchantID, s.Config.SecretKey)
	return string(decoded) == expected
}

// lookupOrder validates the account reference shared by CheckPerform
// and CreateTransaction: the order must exist, still be PENDING, and
// the amount must match the captured price exactly.
func (s *PaymeService) lookupOrder(params PaymeParams) (*models.Order, *PaymeError) {
	orderID, ok := params.OrderID()
	if !ok {
		return nil, &PaymeError{Code: PaymeCodeInvalidAmount, Message: "invalid account parameters"}
	}

	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		return nil, &PaymeError{Code: PaymeCodeOrderNotFound, Message: "order not found"}
	}

	if order.Status != models.OrderStatusPending {
		return nil, &PaymeError{Code: PaymeCodeWrongOrderState, Message: "transaction not allowed for this order status"}
	}

	if params.Amount != order.Price {
		return nil, &PaymeError{Code: PaymeCodeInvalidAmount, Message: "invalid amount"}
	}

	return &order, nil
}

func (s *PaymeService) CheckPerformTransaction(params PaymeParams) (interface{}, *PaymeError) {
	if _, perr := s.lookupOrder(params); perr != nil {
		return nil, perr
	}
	return map[string]interface{}{"allow": true}, nil
}

func (s *PaymeService) CreateTransaction(params PaymeParams) (interface{}, *PaymeError) {
	var existing models.PaymentTransaction
	if err := s.DB.Where("transaction_id = ?", params.ID).First(&existing).Error; err == nil {
		return nil, &PaymeError{Code: PaymeCodeDuplicateTransaction, Message: "transaction already exists"}
	}

	order, perr := s.lookupOrder(params)
	if perr != nil {
		return nil, perr
	}

	txn := models.PaymentTransaction{
		BusinessID:    order.BusinessID,
		OrderID:       order.ID,
		TransactionID: params.ID,
		Amount:        params.Amount,
		State:         models.TransactionStateCreated,
	}
	if err := s.DB.Create(&txn).Error; err != nil {
		return nil, &PaymeError{Code: PaymeCodeDuplicateTransaction, Message: "transaction already exists"}
	}

	utils.InfoLogger.Printf("payme transaction %s created for order %d", txn.TransactionID, txn.OrderID)

	return map[string]interface{}{
		"create_time": txn.CreatedAt.UnixMilli(),
		"transaction": txn.TransactionID,
		"state":       txn.State,
	}, nil
}

func (s *PaymeService) PerformTransaction(params PaymeParams) (interface{}, *PaymeError) {
	var txn models.PaymentTransaction
	if err := s.DB.Where("transaction_id = ?", params.ID).First(&txn).Error; err != nil {
		return nil, &PaymeError{Code: PaymeCodeTransactionNotFound, Message: "transaction not found"}
	}

	if txn.State != models.TransactionStateSuccessful {
		now := time.Now().UTC()
		txn.State = models.TransactionStateSuccessful
		txn.PerformTime = &now
		if err := s.DB.Save(&txn).Error; err != nil {
			return nil, &PaymeError{Code: PaymeCodeTransactionNotFound, Message: "transaction not found"}
		}
		utils.InfoLogger.Printf("payme transaction %s performed", txn.TransactionID)
	}

	return map[string]interface{}{
		"transaction":  txn.TransactionID,
		"perform_time": txn.PerformTime.UnixMilli(),
		"state":        txn.State,
	}, nil
}

func (s *PaymeService) CancelTransaction(params PaymeParams) (interface{}, *PaymeError) {
	var txn models.PaymentTransaction
	if err := s.DB.Where("transaction_id = ?", params.ID).First(&txn).Error; err != nil {
		return nil, &PaymeError{Code: PaymeCodeTransactionNotFound, Message: "transaction not found"}
	}

	if txn.State != models.TransactionStateCancelled {
		now := time.Now().UTC()
		txn.State = models.TransactionStateCancelled
		txn.CancelTime = &now
		if err := s.DB.Save(&txn).Error; err != nil {
			return nil, &PaymeError{Code: PaymeCodeTransactionNotFound, Message: "transaction not found"}
		}
		utils.InfoLogger.Printf("payme transaction %s cancelled", txn.TransactionID)
	}

	return map[string]interface{}{
		"transaction": txn.TransactionID,
		"cancel_time": txn.CancelTime.UnixMilli(),
		"state":       txn.State,
	}, nil
}

func (s *PaymeService) CheckTransaction(params PaymeParams) (interface{}, *PaymeError) {
	var txn models.PaymentTransaction
	if err := s.DB.Where("transaction_id = ?", params.ID).First(&txn).Error; err != nil {
		return nil, &PaymeError{Code: PaymeCodeTransactionNotFound, Message: "transaction not found"}
	}

	result := map[string]interface{}{
		"create_time":  txn.CreatedAt.UnixMilli(),
		"perform_time": int64(0),
		"cancel_time":  int64(0),
		"transaction":  txn.TransactionID,
		"state":        txn.State,
	}
	if txn.PerformTime != nil {
		result["perform_time"] = txn.PerformTime.UnixMilli()
	}
	if txn.CancelTime != nil {
		result["cancel_time"] = txn.CancelTime.UnixMilli()
	}
	return result, nil
}

// PaymeClient is the outbound side: invoice creation and status checks
// against the gateway's JSON-RPC API.
type PaymeClient struct {
	Config     config.PaymeConfig
	HTTPClient *http.Client
}

func NewPaymeClient(cfg config.PaymeConfig) *PaymeClient {
	return &PaymeClient{
		Config:     cfg,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *PaymeClient) endpoint() string {
	if c.Config.TestMode {
		return "https://checkout.test.paycom.uz/api"
	}
	return "https://checkout.paycom.uz/api"
}

func (c *PaymeClient) authHeader() string {
	auth := fmt.Sprintf("%s:%s", c.Config.MerchantID, c.Config.SecretKey)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(auth))
}

// SendRequest posts a JSON-RPC envelope and decodes the response body.
func (c *PaymeClient) SendRequest(method string, params interface{}) (map[string]interface{}, error) {
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      time.Now().Unix(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authHeader())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payme: unexpected status %d", resp.StatusCode)
	}

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// CreateInvoice asks the gateway to open a transaction for an order.
// Amounts are sent in tiyin.
func (c *PaymeClient) CreateInvoice(amount float64, orderID uint) (map[string]interface{}, error) {
	return c.SendRequest("CreateTransaction", map[string]interface{}{
		"amount": int64(amount * 100),
		"account": map[string]interface{}{
			"order_id": strconv.FormatUint(uint64(orderID), 10),
		},
	})
}

func (c *PaymeClient) CheckPaymentStatus(transactionID string) (map[string]interface{}, error) {
	return c.SendRequest("CheckTransaction", map[string]interface{}{
		"id": transactionID,
	})
}
