package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/config"
	"github.com/safasahar/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound         = errors.New("invoice not found")
	ErrInvoiceAlreadyPaid      = errors.New("invoice is already paid")
	ErrInvoiceProcessing       = errors.New("payment is done, manual verification in progress")
	ErrInvoiceNotCancelable    = errors.New("invoice not found or already paid")
	ErrSpecialRequestNotFound  = errors.New("special request not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrInvalidStatusTransition = errors.New("invalid invoice status transition")
)

// Fee schedule defaults applied when the settings row is first created
var (
	defaultMonthlyFee = decimal.NewFromInt(500)
	defaultPerKgRate  = decimal.NewFromInt(50)
)

// GatewayCheckout carries everything the client needs to redirect the
// user to the payment gateway.
type GatewayCheckout struct {
	Amount          string `json:"amount"`
	TransactionUUID string `json:"transaction_uuid"`
	Signature       string `json:"signature"`
	ProductCode     string `json:"product_code"`
	PaymentURL      string `json:"payment_url"`
}

type PaymentService struct {
	db      *gorm.DB
	cfg     *config.Config
	gateway PaymentGateway
}

func NewPaymentService(db *gorm.DB, cfg *config.Config, gateway PaymentGateway) *PaymentService {
	return &PaymentService{db: db, cfg: cfg, gateway: gateway}
}

// GetSettings returns the current fee schedule, creating the singleton
// row with defaults if it does not exist yet.
func (s *PaymentService) GetSettings() (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	err := s.db.First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.PaymentSettings{
				MonthlyFee: defaultMonthlyFee,
				PerKgRate:  defaultPerKgRate,
			}
			if err := s.db.Create(&settings).Error; err != nil {
				return nil, err
			}
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings overwrites the fee schedule. Empty fields leave the
// current value untouched.
func (s *PaymentService) UpdateSettings(monthlyFee, perKgRate string) (*models.PaymentSettings, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}

	if monthlyFee != "" {
		fee, err := decimal.NewFromString(monthlyFee)
		if err != nil {
			return nil, fmt.Errorf("invalid monthly fee: %w", err)
		}
		settings.MonthlyFee = fee
	}
	if perKgRate != "" {
		rate, err := decimal.NewFromString(perKgRate)
		if err != nil {
			return nil, fmt.Errorf("invalid per kg rate: %w", err)
		}
		settings.PerKgRate = rate
	}

	if err := s.db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// CreateMonthlyPayment snapshots the current monthly fee into a pending
// payment row and returns the signed gateway checkout for it. Every call
// is a fresh payment attempt with a fresh transaction uuid.
func (s *PaymentService) CreateMonthlyPayment(userID uuid.UUID, month time.Time) (*models.MonthlyPayment, *GatewayCheckout, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, nil, err
	}

	payment := &models.MonthlyPayment{
		UserID:          userID,
		Amount:          settings.MonthlyFee,
		Month:           month,
		Status:          models.PaymentStatusPending,
		TransactionUUID: uuid.NewString(),
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, nil, err
	}

	return payment, s.checkout(payment.Amount, payment.TransactionUUID), nil
}

// CreateInvoicePayment initiates a gateway payment for an invoice owned
// by the caller (matched through the special request's email). Paid and
// processing invoices are rejected with distinct errors so the client
// can tell "done" apart from "a human must verify first".
func (s *PaymentService) CreateInvoicePayment(userEmail string, invoiceID uuid.UUID) (*models.Invoice, *GatewayCheckout, error) {
	invoice, err := s.getUserInvoice(userEmail, invoiceID)
	if err != nil {
		return nil, nil, err
	}

	switch invoice.Status {
	case models.InvoiceStatusPaid:
		return nil, nil, ErrInvoiceAlreadyPaid
	case models.InvoiceStatusProcessing:
		return nil, nil, ErrInvoiceProcessing
	}

	// Issue a transaction uuid only if none is set; retries of the same
	// amount reuse the in-flight one
	if invoice.TransactionUUID == "" {
		invoice.TransactionUUID = uuid.NewString()
		if err := s.db.Model(invoice).Update("transaction_uuid", invoice.TransactionUUID).Error; err != nil {
			return nil, nil, err
		}
	}

	return invoice, s.checkout(invoice.Amount, invoice.TransactionUUID), nil
}

// MarkInvoiceProcessing records that the caller completed the gateway
// redirect for a pending invoice. This is the only transition a payer
// may perform; paid/processing rows are left to staff.
func (s *PaymentService) MarkInvoiceProcessing(userEmail string, invoiceID uuid.UUID) error {
	invoice, err := s.getUserInvoice(userEmail, invoiceID)
	if err != nil {
		return err
	}

	result := s.db.Model(&models.Invoice{}).
		Where("id = ? AND status = ?", invoice.ID, models.InvoiceStatusPending).
		Update("status", models.InvoiceStatusProcessing)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidStatusTransition
	}
	return nil
}

// GetUserInvoice resolves an invoice owned by the caller
func (s *PaymentService) GetUserInvoice(userEmail string, invoiceID uuid.UUID) (*models.Invoice, error) {
	return s.getUserInvoice(userEmail, invoiceID)
}

func (s *PaymentService) getUserInvoice(userEmail string, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("SpecialRequest").
		Joins("JOIN special_requests ON special_requests.id = invoices.special_request_id").
		Where("invoices.id = ? AND special_requests.email = ?", invoiceID, userEmail).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (s *PaymentService) checkout(amount decimal.Decimal, transactionUUID string) *GatewayCheckout {
	total := amount.StringFixed(2)
	return &GatewayCheckout{
		Amount:          total,
		TransactionUUID: transactionUUID,
		Signature:       s.gateway.SignPayment(total, transactionUUID, s.gateway.ProductCode()),
		ProductCode:     s.gateway.ProductCode(),
		PaymentURL:      s.gateway.PaymentURL(),
	}
}

// CreateOrUpdateInvoice assigns a collected weight to a special request.
// The first call creates the invoice; later calls overwrite weight,
// amount and rate snapshot and reissue the transaction uuid, which
// invalidates any in-flight gateway attempt against the old amount.
func (s *PaymentService) CreateOrUpdateInvoice(specialRequestID uuid.UUID, weightKg decimal.Decimal) (*models.Invoice, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}

	var specialRequest models.SpecialRequest
	if err := s.db.First(&specialRequest, specialRequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpecialRequestNotFound
		}
		return nil, err
	}

	amount := weightKg.Mul(settings.PerKgRate)

	var invoice models.Invoice
	err = s.db.Where("special_request_id = ?", specialRequestID).First(&invoice).Error
	if err == nil {
		updates := map[string]interface{}{
			"weight_kg":        weightKg,
			"amount":           amount,
			"per_kg_rate":      settings.PerKgRate,
			"transaction_uuid": uuid.NewString(),
		}
		if err := s.db.Model(&invoice).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &invoice, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	invoice = models.Invoice{
		SpecialRequestID: specialRequestID,
		Amount:           amount,
		WeightKg:         weightKg,
		PerKgRate:        settings.PerKgRate,
		Status:           models.InvoiceStatusPending,
	}

	// The unique index on special_request_id rejects a concurrent
	// duplicate create
	if err := s.db.Create(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CancelInvoice deletes an invoice that has not left the pending state
func (s *PaymentService) CancelInvoice(invoiceID uuid.UUID) error {
	result := s.db.Where("id = ? AND status = ?", invoiceID, models.InvoiceStatusPending).
		Delete(&models.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotCancelable
	}
	return nil
}

// UpdatePaymentStatus sets the status of a monthly payment or invoice
// directly (admin/gateway verification path, no transition table)
func (s *PaymentService) UpdatePaymentStatus(paymentType string, paymentID uuid.UUID, status string) error {
	switch paymentType {
	case "monthly":
		result := s.db.Model(&models.MonthlyPayment{}).Where("id = ?", paymentID).Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPaymentNotFound
		}
	case "invoice":
		result := s.db.Model(&models.Invoice{}).Where("id = ?", paymentID).Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPaymentNotFound
		}
	default:
		return errors.New("invalid payment type; must be 'monthly' or 'invoice'")
	}
	return nil
}

// GetPaymentHistory returns the caller's monthly payments and invoices,
// newest first
func (s *PaymentService) GetPaymentHistory(userID uuid.UUID, userEmail string) ([]*models.MonthlyPayment, []*models.Invoice, error) {
	var payments []*models.MonthlyPayment
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, nil, err
	}

	var invoices []*models.Invoice
	err := s.db.Preload("SpecialRequest").
		Joins("JOIN special_requests ON special_requests.id = invoices.special_request_id").
		Where("special_requests.email = ?", userEmail).
		Order("invoices.created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, nil, err
	}

	return payments, invoices, nil
}

// GetAllPayments returns every monthly payment and invoice, newest first
func (s *PaymentService) GetAllPayments() ([]*models.MonthlyPayment, []*models.Invoice, error) {
	var payments []*models.MonthlyPayment
	if err := s.db.Preload("User").Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, nil, err
	}

	var invoices []*models.Invoice
	if err := s.db.Preload("SpecialRequest").Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, nil, err
	}

	return payments, invoices, nil
}

// MonthlyAmount is one month's total in a trailing window, oldest first
type MonthlyAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// GetUserPaymentStats aggregates the caller's spending
func (s *PaymentService) GetUserPaymentStats(userID uuid.UUID, userEmail string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	monthlyTotal, err := s.sumMonthly("user_id = ? AND status = ?", userID, models.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}
	invoiceTotal, err := s.sumInvoices(userEmail, models.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}
	pendingMonthly, err := s.sumMonthly("user_id = ? AND status = ?", userID, models.PaymentStatusPending)
	if err != nil {
		return nil, err
	}
	pendingInvoices, err := s.sumInvoices(userEmail, models.InvoiceStatusPending)
	if err != nil {
		return nil, err
	}

	var monthlyCount, invoiceCount int64
	if err := s.db.Model(&models.MonthlyPayment{}).
		Where("user_id = ? AND status = ?", userID, models.PaymentStatusCompleted).
		Count(&monthlyCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Invoice{}).
		Joins("JOIN special_requests ON special_requests.id = invoices.special_request_id").
		Where("special_requests.email = ? AND invoices.status = ?", userEmail, models.InvoiceStatusPaid).
		Count(&invoiceCount).Error; err != nil {
		return nil, err
	}

	pendingAmount := pendingMonthly + pendingInvoices

	monthlyData, err := s.monthlyTotals(&userID)
	if err != nil {
		return nil, err
	}

	stats["totalSpent"] = monthlyTotal + invoiceTotal
	stats["monthlyPayments"] = monthlyCount
	stats["invoicePayments"] = invoiceCount
	stats["pendingAmount"] = pendingAmount
	stats["monthlyData"] = monthlyData
	stats["paymentTypes"] = []map[string]interface{}{
		{"name": "Monthly", "value": monthlyTotal},
		{"name": "Invoices", "value": invoiceTotal},
		{"name": "Pending", "value": pendingAmount},
	}

	return stats, nil
}

// GetPaymentStats aggregates revenue across all users for the admin
// dashboard
func (s *PaymentService) GetPaymentStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	monthlyTotal, err := s.sumMonthly("status = ?", models.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}

	var invoiceTotal float64
	if err := s.db.Model(&models.Invoice{}).
		Where("status = ?", models.InvoiceStatusPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&invoiceTotal).Error; err != nil {
		return nil, err
	}

	var monthlyCount, invoiceCount, pendingMonthly, pendingInvoices, failedCount int64
	if err := s.db.Model(&models.MonthlyPayment{}).Where("status = ?", models.PaymentStatusCompleted).Count(&monthlyCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Invoice{}).Where("status = ?", models.InvoiceStatusPaid).Count(&invoiceCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.MonthlyPayment{}).Where("status = ?", models.PaymentStatusPending).Count(&pendingMonthly).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Invoice{}).Where("status = ?", models.InvoiceStatusPending).Count(&pendingInvoices).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.MonthlyPayment{}).Where("status = ?", models.PaymentStatusFailed).Count(&failedCount).Error; err != nil {
		return nil, err
	}

	monthlyData, err := s.monthlyTotals(nil)
	if err != nil {
		return nil, err
	}
	// monthlyTotals labels the field "amount"; the dashboard calls it revenue
	revenueData := make([]map[string]interface{}, len(monthlyData))
	for i, m := range monthlyData {
		revenueData[i] = map[string]interface{}{"month": m.Month, "revenue": m.Amount}
	}

	stats["totalRevenue"] = monthlyTotal + invoiceTotal
	stats["monthlyPayments"] = monthlyCount
	stats["invoicePayments"] = invoiceCount
	stats["pendingPayments"] = pendingMonthly + pendingInvoices
	stats["monthlyData"] = revenueData
	stats["statusData"] = []map[string]interface{}{
		{"name": "Completed", "value": monthlyCount + invoiceCount},
		{"name": "Pending", "value": pendingMonthly + pendingInvoices},
		{"name": "Failed", "value": failedCount},
	}

	return stats, nil
}

func (s *PaymentService) sumMonthly(query string, args ...interface{}) (float64, error) {
	var total float64
	err := s.db.Model(&models.MonthlyPayment{}).
		Where(query, args...).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

func (s *PaymentService) sumInvoices(userEmail, status string) (float64, error) {
	var total float64
	err := s.db.Model(&models.Invoice{}).
		Joins("JOIN special_requests ON special_requests.id = invoices.special_request_id").
		Where("special_requests.email = ? AND invoices.status = ?", userEmail, status).
		Select("COALESCE(SUM(invoices.amount), 0)").Scan(&total).Error
	return total, err
}

// monthlyTotals sums completed monthly payments per calendar month over a
// trailing 6-month window anchored at now, oldest first
func (s *PaymentService) monthlyTotals(userID *uuid.UUID) ([]MonthlyAmount, error) {
	now := time.Now()
	data := make([]MonthlyAmount, 0, 6)

	for i := 5; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		query := s.db.Model(&models.MonthlyPayment{}).
			Where("status = ? AND month >= ? AND month < ?", models.PaymentStatusCompleted, start, end)
		if userID != nil {
			query = query.Where("user_id = ?", *userID)
		}

		var total float64
		if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
			return nil, err
		}

		data = append(data, MonthlyAmount{Month: start.Format("Jan 2006"), Amount: total})
	}

	return data, nil
}
