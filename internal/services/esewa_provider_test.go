package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignPaymentKnownVectors(t *testing.T) {
	// Computed against the published UAT secret key
	gateway := NewEsewaProvider(testConfig())

	assert.Equal(t, "5DZywcrTKD0gia/rsSMcrRHmJl+4Tbol6S+lWgdJ94E=",
		gateway.SignPayment("100", "11-201-13", "EPAYTEST"))
	assert.Equal(t, "/cq/5+dcyyfnhTcIo9UwkckQ6wHdWYedGL6+QBv3h3w=",
		gateway.SignPayment("500.00", "abc-123", "EPAYTEST"))
}

func TestSignPaymentDeterministic(t *testing.T) {
	gateway := NewEsewaProvider(testConfig())

	first := gateway.SignPayment("500.00", "txn-1", "EPAYTEST")
	second := gateway.SignPayment("500.00", "txn-1", "EPAYTEST")
	assert.Equal(t, first, second)

	// Raw SHA-256 digest, base64-encoded
	raw, err := base64.StdEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestSignPaymentSensitiveToInputs(t *testing.T) {
	gateway := NewEsewaProvider(testConfig())

	base := gateway.SignPayment("500.00", "txn-1", "EPAYTEST")
	assert.NotEqual(t, base, gateway.SignPayment("500.01", "txn-1", "EPAYTEST"))
	assert.NotEqual(t, base, gateway.SignPayment("500.00", "txn-2", "EPAYTEST"))
	assert.NotEqual(t, base, gateway.SignPayment("500.00", "txn-1", "OTHER"))

	// "500" and "500.00" are different messages; amounts must be rendered
	// with two decimal places before signing
	assert.NotEqual(t, base, gateway.SignPayment("500", "txn-1", "EPAYTEST"))
}

func TestSignPaymentSecretDependent(t *testing.T) {
	cfg := testConfig()
	gateway := NewEsewaProvider(cfg)
	base := gateway.SignPayment("500.00", "txn-1", "EPAYTEST")

	other := testConfig()
	other.EsewaSecretKey = "different-secret"
	assert.NotEqual(t, base, NewEsewaProvider(other).SignPayment("500.00", "txn-1", "EPAYTEST"))
}

func TestProviderMetadata(t *testing.T) {
	gateway := NewEsewaProvider(testConfig())
	assert.Equal(t, "esewa", gateway.GetProviderName())
	assert.Equal(t, "EPAYTEST", gateway.ProductCode())
	assert.NotEmpty(t, gateway.PaymentURL())
}
