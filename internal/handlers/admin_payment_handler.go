package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/services"
	"github.com/shopspring/decimal"
)

type AdminPaymentHandler struct {
	paymentService *services.PaymentService
	auditService   *services.AuditService
}

func NewAdminPaymentHandler(paymentService *services.PaymentService, auditService *services.AuditService) *AdminPaymentHandler {
	return &AdminPaymentHandler{paymentService: paymentService, auditService: auditService}
}

type UpdateSettingsRequest struct {
	MonthlyFee string `json:"monthly_fee"`
	PerKgRate  string `json:"per_kg_rate"`
}

type CreateInvoiceRequest struct {
	SpecialRequestID string `json:"special_request_id" binding:"required"`
	WeightKg         string `json:"weight_kg" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	Type      string `json:"type" binding:"required"` // "monthly" or "invoice"
	PaymentID string `json:"payment_id" binding:"required"`
	Status    string `json:"status" binding:"required"` // e.g. "completed", "paid", "failed"
}

// GetSettings returns the fee schedule
func (h *AdminPaymentHandler) GetSettings(c *gin.Context) {
	settings, err := h.paymentService.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings changes the fee schedule. Existing payments and
// invoices keep their snapshotted amounts.
func (h *AdminPaymentHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.paymentService.UpdateSettings(req.MonthlyFee, req.PerKgRate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.MustGet("userID").(uuid.UUID)
	h.auditService.LogAction(adminID, "update_payment_settings", "payment_settings", settings.ID,
		map[string]interface{}{
			"monthly_fee": settings.MonthlyFee.StringFixed(2),
			"per_kg_rate": settings.PerKgRate.StringFixed(2),
		}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetAllPayments lists every monthly payment and invoice
func (h *AdminPaymentHandler) GetAllPayments(c *gin.Context) {
	payments, invoices, err := h.paymentService.GetAllPayments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"monthly_payments": payments,
		"invoices":         invoices,
	})
}

// UpdatePaymentStatus sets the status of a payment or invoice after
// manual verification against the gateway
func (h *AdminPaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	if err := h.paymentService.UpdatePaymentStatus(req.Type, paymentID, req.Status); err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.MustGet("userID").(uuid.UUID)
	h.auditService.LogAction(adminID, "update_payment_status", req.Type, paymentID,
		map[string]interface{}{"status": req.Status}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}

// GetPaymentStats returns revenue aggregates for the admin dashboard
func (h *AdminPaymentHandler) GetPaymentStats(c *gin.Context) {
	stats, err := h.paymentService.GetPaymentStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreateInvoice assigns a collected weight to a special request,
// creating or overwriting its invoice at the current per-kg rate
func (h *AdminPaymentHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	specialRequestID, err := uuid.Parse(req.SpecialRequestID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid special request ID"})
		return
	}

	weightKg, err := decimal.NewFromString(req.WeightKg)
	if err != nil || weightKg.IsNegative() || weightKg.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weight must be a positive number"})
		return
	}

	invoice, err := h.paymentService.CreateOrUpdateInvoice(specialRequestID, weightKg)
	if err != nil {
		if errors.Is(err, services.ErrSpecialRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Special request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	adminID := c.MustGet("userID").(uuid.UUID)
	h.auditService.LogAction(adminID, "create_invoice", "invoice", invoice.ID,
		map[string]interface{}{
			"special_request_id": specialRequestID,
			"weight_kg":          weightKg.StringFixed(2),
			"amount":             invoice.Amount.StringFixed(2),
		}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// CancelInvoice deletes a pending invoice
func (h *AdminPaymentHandler) CancelInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	if err := h.paymentService.CancelInvoice(invoiceID); err != nil {
		if errors.Is(err, services.ErrInvoiceNotCancelable) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel invoice"})
		return
	}

	adminID := c.MustGet("userID").(uuid.UUID)
	h.auditService.LogAction(adminID, "cancel_invoice", "invoice", invoiceID, nil,
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Invoice canceled"})
}
