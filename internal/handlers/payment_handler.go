package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	receiptService *services.ReceiptService
}

func NewPaymentHandler(paymentService *services.PaymentService, receiptService *services.ReceiptService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, receiptService: receiptService}
}

type MonthlyPaymentRequest struct {
	Month string `json:"month" binding:"required"` // "2006-01"
}

type InvoicePayRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
}

type InvoiceStatusRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// GetSettings returns the public fee schedule
func (h *PaymentHandler) GetSettings(c *gin.Context) {
	settings, err := h.paymentService.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// CreateMonthlyPayment opens a pending monthly payment at the current
// fee and returns the signed gateway checkout
func (h *PaymentHandler) CreateMonthlyPayment(c *gin.Context) {
	var req MonthlyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month; expected YYYY-MM"})
		return
	}

	userID := c.MustGet("userID").(uuid.UUID)

	payment, checkout, err := h.paymentService.CreateMonthlyPayment(userID, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment":  payment,
		"checkout": checkout,
	})
}

// PayInvoice initiates a gateway payment for one of the caller's invoices
func (h *PaymentHandler) PayInvoice(c *gin.Context) {
	var req InvoicePayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	userEmail := c.MustGet("userEmail").(string)

	invoice, checkout, err := h.paymentService.CreateInvoicePayment(userEmail, invoiceID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvoiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrInvoiceAlreadyPaid), errors.Is(err, services.ErrInvoiceProcessing):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":  invoice,
		"checkout": checkout,
	})
}

// UpdateInvoiceStatus lets a payer mark their pending invoice as
// processing after completing the gateway redirect. No other transition
// is accepted here.
func (h *PaymentHandler) UpdateInvoiceStatus(c *gin.Context) {
	var req InvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	if req.Status != "processing" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only the 'processing' status may be set by the payer"})
		return
	}

	userEmail := c.MustGet("userEmail").(string)

	if err := h.paymentService.MarkInvoiceProcessing(userEmail, invoiceID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvoiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrInvalidStatusTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice is not pending"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice marked as processing"})
}

// GetHistory returns the caller's payments and invoices
func (h *PaymentHandler) GetHistory(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	userEmail := c.MustGet("userEmail").(string)

	payments, invoices, err := h.paymentService.GetPaymentHistory(userID, userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"monthly_payments": payments,
		"invoices":         invoices,
	})
}

// GetUserStats returns spending aggregates for the caller's dashboard
func (h *PaymentHandler) GetUserStats(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	userEmail := c.MustGet("userEmail").(string)

	stats, err := h.paymentService.GetUserPaymentStats(userID, userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetInvoiceReceipt streams a PDF receipt for one of the caller's invoices
func (h *PaymentHandler) GetInvoiceReceipt(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	userEmail := c.MustGet("userEmail").(string)

	invoice, err := h.paymentService.GetUserInvoice(userEmail, invoiceID)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoice"})
		return
	}

	pdf, err := h.receiptService.GenerateInvoiceReceiptPDF(invoice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate receipt"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", invoice.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
