package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safasahar/backend/internal/models"
	"github.com/safasahar/backend/internal/services"
	"github.com/safasahar/backend/pkg/validation"
)

type WasteHandler struct {
	scheduleService *services.ScheduleService
	requestService  *services.RequestService
}

func NewWasteHandler(scheduleService *services.ScheduleService, requestService *services.RequestService) *WasteHandler {
	return &WasteHandler{scheduleService: scheduleService, requestService: requestService}
}

type SpecialRequestBody struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Address       string `json:"address" binding:"required"`
	Reason        string `json:"reason"`
	PreferredDate string `json:"preferred_date" binding:"required"` // "2006-01-02"
	PreferredTime string `json:"preferred_time" binding:"required"` // "HH:MM"
}

type CompostRequestBody struct {
	Name      string `json:"name" binding:"required"`
	Contact   string `json:"contact" binding:"required"`
	Location  string `json:"location" binding:"required"`
	WasteType string `json:"waste_type" binding:"required"`
	Quantity  string `json:"quantity" binding:"required"`
	Message   string `json:"message"`
}

// GetSchedules returns collection schedules, optionally filtered by ward
func (h *WasteHandler) GetSchedules(c *gin.Context) {
	if wardParam := c.Query("ward"); wardParam != "" {
		ward, err := strconv.Atoi(wardParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ward number"})
			return
		}
		schedules, err := h.scheduleService.GetSchedulesByWard(ward)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedules"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"schedules": schedules})
		return
	}

	schedules, err := h.scheduleService.GetAllSchedules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GetWasteTypes returns the waste type catalog
func (h *WasteHandler) GetWasteTypes(c *gin.Context) {
	types, err := h.scheduleService.GetWasteTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve waste types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"waste_types": types})
}

// GetCollectionDays returns the collection day catalog
func (h *WasteHandler) GetCollectionDays(c *gin.Context) {
	days, err := h.scheduleService.GetCollectionDays()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve collection days"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection_days": days})
}

// GetWards returns the ward catalog
func (h *WasteHandler) GetWards(c *gin.Context) {
	wards, err := h.scheduleService.GetWards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wards": wards})
}

// CreateSpecialRequest accepts a one-off pickup request. Submission is
// open; ownership is tracked by email.
func (h *WasteHandler) CreateSpecialRequest(c *gin.Context) {
	var req SpecialRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preferredDate, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferred date; expected YYYY-MM-DD"})
		return
	}

	request := &models.SpecialRequest{
		Name:          validation.SanitizeString(req.Name),
		Email:         req.Email,
		Address:       validation.SanitizeString(req.Address),
		Reason:        validation.SanitizeString(req.Reason),
		PreferredDate: preferredDate,
		PreferredTime: req.PreferredTime,
		Status:        "Pending",
	}

	if err := h.requestService.CreateSpecialRequest(request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": request})
}

// GetMySpecialRequests returns the caller's pickup requests with any
// attached invoices
func (h *WasteHandler) GetMySpecialRequests(c *gin.Context) {
	userEmail := c.MustGet("userEmail").(string)

	requests, err := h.requestService.GetSpecialRequestsByEmail(userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// CreateCompostRequest accepts a compost collection request
func (h *WasteHandler) CreateCompostRequest(c *gin.Context) {
	var req CompostRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request := &models.CompostRequest{
		Name:      validation.SanitizeString(req.Name),
		Contact:   validation.SanitizeString(req.Contact),
		Location:  validation.SanitizeString(req.Location),
		WasteType: validation.SanitizeString(req.WasteType),
		Quantity:  validation.SanitizeString(req.Quantity),
		Message:   validation.SanitizeString(req.Message),
	}

	if err := h.requestService.CreateCompostRequest(request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": request})
}
