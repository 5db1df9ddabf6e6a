package handler

import (
	"strconv"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/adapter/http/dto"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"
	"github.com/yoga-nditya/ALO-MONTIR-API/pkg/apperror"
	"github.com/yoga-nditya/ALO-MONTIR-API/pkg/response"

	"github.com/gin-gonic/gin"
)

// TopUpHandler handles wallet top-up endpoints.
type TopUpHandler struct {
	topUpSvc ports.TopUpService
}

// NewTopUpHandler creates a new TopUpHandler.
func NewTopUpHandler(topUpSvc ports.TopUpService) *TopUpHandler {
	return &TopUpHandler{topUpSvc: topUpSvc}
}

// CreateTopUp handles POST /api/v1/topups.
func (h *TopUpHandler) CreateTopUp(c *gin.Context) {
	var req dto.CreateTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	topUp, err := h.topUpSvc.Create(c.Request.Context(), ports.CreateTopUpRequest{
		UserID:        req.UserID,
		Amount:        req.Amount,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToTopUpResponse(topUp))
}

// HandleNotification handles POST /api/v1/topups/notification, the inbound
// gateway callback. Any non-2xx answer makes the gateway retry, so every
// successfully authenticated notification is acknowledged with 200 even
// when it was a no-op.
func (h *TopUpHandler) HandleNotification(c *gin.Context) {
	var req dto.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.topUpSvc.HandleNotification(c.Request.Context(), ports.GatewayNotification{
		OrderID:           req.OrderID,
		TransactionStatus: req.TransactionStatus,
		FraudStatus:       req.FraudStatus,
		PaymentType:       req.PaymentType,
		GrossAmount:       req.GrossAmount,
		SignatureKey:      req.SignatureKey,
		ClientIP:          c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Notification processed"
	if result.AlreadyProcessed {
		message = "Already processed"
	}
	response.OKMessage(c, message, dto.ToTopUpResponse(result.TopUp))
}

// CheckStatus handles GET /api/v1/topups/status. A best-effort gateway
// refresh runs for non-terminal intents before the stored row is returned.
func (h *TopUpHandler) CheckStatus(c *gin.Context) {
	orderID := c.Query("order_id")
	if orderID == "" {
		response.Error(c, apperror.Validation("order_id is required"))
		return
	}

	topUp, err := h.topUpSvc.CheckStatus(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToTopUpResponse(topUp))
}

// GetBalance handles GET /api/v1/users/balance.
func (h *TopUpHandler) GetBalance(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		response.Error(c, apperror.Validation("user_id must be a positive integer"))
		return
	}

	saldo, err := h.topUpSvc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		UserID:         userID,
		Saldo:          saldo,
		FormattedSaldo: dto.FormatRupiah(saldo),
	})
}
