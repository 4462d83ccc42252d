package services

import (
	"github.com/safasahar/backend/internal/config"
	"github.com/safasahar/backend/internal/models"
	"github.com/safasahar/backend/pkg/crypto"
	"gorm.io/gorm"
)

type AdminService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{db: db, cfg: cfg}
}

// CreateDefaultAdmin creates the default admin user if it doesn't exist
func (s *AdminService) CreateDefaultAdmin() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", s.cfg.AdminUsername).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	// Hash password
	hashedPassword, err := crypto.HashPassword(s.cfg.AdminPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	// Create admin user
	admin := &models.User{
		Username: s.cfg.AdminUsername,
		Email:    s.cfg.AdminEmail,
		Password: hashedPassword,
		IsAdmin:  true,
		IsActive: true,
	}

	return s.db.Create(admin).Error
}

// GetDashboardStats returns statistics for the admin dashboard
func (s *AdminService) GetDashboardStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	// Total residents
	var userCount int64
	if err := s.db.Model(&models.User{}).Where("is_admin = ?", false).Count(&userCount).Error; err != nil {
		return nil, err
	}
	stats["total_users"] = userCount

	// Pending password resets
	var pendingResets int64
	if err := s.db.Model(&models.PasswordResetRequest{}).Where("status = ?", models.ResetStatusPending).Count(&pendingResets).Error; err != nil {
		return nil, err
	}
	stats["pending_password_resets"] = pendingResets

	// Open special requests
	var openRequests int64
	if err := s.db.Model(&models.SpecialRequest{}).Where("status = ?", "Pending").Count(&openRequests).Error; err != nil {
		return nil, err
	}
	stats["open_special_requests"] = openRequests

	// Compost requests
	var compostCount int64
	if err := s.db.Model(&models.CompostRequest{}).Count(&compostCount).Error; err != nil {
		return nil, err
	}
	stats["compost_requests"] = compostCount

	// Unpaid invoices
	var unpaidInvoices int64
	if err := s.db.Model(&models.Invoice{}).Where("status != ?", models.InvoiceStatusPaid).Count(&unpaidInvoices).Error; err != nil {
		return nil, err
	}
	stats["unpaid_invoices"] = unpaidInvoices

	// Total revenue (paid invoices + completed monthly payments)
	var invoiceRevenue, monthlyRevenue float64
	if err := s.db.Model(&models.Invoice{}).Where("status = ?", models.InvoiceStatusPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&invoiceRevenue).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.MonthlyPayment{}).Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&monthlyRevenue).Error; err != nil {
		return nil, err
	}
	stats["total_revenue"] = invoiceRevenue + monthlyRevenue

	return stats, nil
}
