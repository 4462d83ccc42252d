package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/safasahar/backend/internal/config"
)

// PaymentGateway defines the interface for signature-verified payment
// gateways. The client is redirected to the gateway with the signed
// fields; the gateway recomputes the signature to verify the request.
type PaymentGateway interface {
	// SignPayment computes the verification signature for a payment request
	SignPayment(totalAmount, transactionUUID, productCode string) string

	// ProductCode returns the merchant product code registered with the gateway
	ProductCode() string

	// PaymentURL returns the gateway form endpoint the client redirects to
	PaymentURL() string

	// GetProviderName returns the name of the provider ("esewa")
	GetProviderName() string
}

// EsewaProvider implements PaymentGateway for eSewa ePay v2
type EsewaProvider struct {
	cfg *config.Config
}

// NewEsewaProvider creates a new eSewa payment gateway provider
func NewEsewaProvider(cfg *config.Config) *EsewaProvider {
	return &EsewaProvider{cfg: cfg}
}

// GetProviderName returns "esewa"
func (p *EsewaProvider) GetProviderName() string {
	return "esewa"
}

// ProductCode returns the configured merchant product code
func (p *EsewaProvider) ProductCode() string {
	return p.cfg.EsewaProductCode
}

// PaymentURL returns the gateway form endpoint
func (p *EsewaProvider) PaymentURL() string {
	return p.cfg.EsewaPaymentURL
}

// SignPayment builds the exact message the gateway verifies, HMAC-SHA256
// signs it with the shared secret and base64-encodes the raw digest.
// Field order and formatting are fixed by the gateway: comma-separated,
// no spaces.
func (p *EsewaProvider) SignPayment(totalAmount, transactionUUID, productCode string) string {
	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, productCode)

	mac := hmac.New(sha256.New, []byte(p.cfg.EsewaSecretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
