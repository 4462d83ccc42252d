package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecialRequestLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db)

	request := createTestSpecialRequest(t, db, "resident@example.com")
	assert.Equal(t, "Pending", request.Status)

	require.NoError(t, svc.UpdateSpecialRequestStatus(request.ID, "Approved"))

	stored, err := svc.GetSpecialRequestByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Approved", stored.Status)

	assert.ErrorIs(t, svc.UpdateSpecialRequestStatus(uuid.New(), "Approved"), ErrSpecialRequestNotFound)
}

func TestGetSpecialRequestsByEmailIncludesInvoice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db)
	cfg := testConfig()
	paymentSvc := NewPaymentService(db, cfg, NewEsewaProvider(cfg))

	mine := createTestSpecialRequest(t, db, "mine@example.com")
	createTestSpecialRequest(t, db, "other@example.com")

	_, err := paymentSvc.CreateOrUpdateInvoice(mine.ID, decimal.NewFromInt(3))
	require.NoError(t, err)

	requests, err := svc.GetSpecialRequestsByEmail("mine@example.com")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NotNil(t, requests[0].Invoice)
	assert.Equal(t, "150.00", requests[0].Invoice.Amount.StringFixed(2))
}

func TestCompostRequestLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db)

	request := &models.CompostRequest{
		Name:      "Test Resident",
		Contact:   "9800000000",
		Location:  "Ward 3",
		WasteType: "Kitchen waste",
		Quantity:  "5 kg",
	}
	require.NoError(t, svc.CreateCompostRequest(request))

	requests, total, err := svc.GetAllCompostRequests(0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, requests, 1)

	require.NoError(t, svc.DeleteCompostRequest(request.ID))
	assert.Error(t, svc.DeleteCompostRequest(request.ID))
}
