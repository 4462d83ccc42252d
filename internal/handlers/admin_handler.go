package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/models"
	"github.com/safasahar/backend/internal/services"
)

type AdminHandler struct {
	adminService    *services.AdminService
	userService     *services.UserService
	scheduleService *services.ScheduleService
	requestService  *services.RequestService
	auditService    *services.AuditService
}

func NewAdminHandler(
	adminService *services.AdminService,
	userService *services.UserService,
	scheduleService *services.ScheduleService,
	requestService *services.RequestService,
	auditService *services.AuditService,
) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		userService:     userService,
		scheduleService: scheduleService,
		requestService:  requestService,
		auditService:    auditService,
	}
}

type ScheduleBody struct {
	Ward          int    `json:"ward" binding:"required"`
	CollectionDay string `json:"collection_day" binding:"required"`
	WasteType     string `json:"waste_type" binding:"required"`
	Time          string `json:"time" binding:"required"`
}

type WasteTypeBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ColorCode   string `json:"color_code"`
}

type CollectionDayBody struct {
	Name string `json:"name" binding:"required"`
}

type WardBody struct {
	WardNumber  int    `json:"ward_number" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type RequestStatusBody struct {
	Status string `json:"status" binding:"required"`
}

type UserActiveBody struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func (h *AdminHandler) audit(c *gin.Context, action, targetType string, targetID uuid.UUID, details map[string]interface{}) {
	adminID := c.MustGet("userID").(uuid.UUID)
	h.auditService.LogAction(adminID, action, targetType, targetID, details, c.ClientIP(), c.Request.UserAgent())
}

// GetDashboardStats returns headline counts for the admin dashboard
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetUsers lists registered users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, limit := parsePagination(c)

	users, total, err := h.userService.GetAllUsers((page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateUserActive activates or deactivates a user account
func (h *AdminHandler) UpdateUserActive(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UserActiveBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateUserActive(userID, *req.IsActive); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	h.audit(c, "update_user_active", "user", userID, map[string]interface{}{"is_active": *req.IsActive})

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// CreateSchedule adds a collection schedule entry
func (h *AdminHandler) CreateSchedule(c *gin.Context) {
	var req ScheduleBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule := &models.Schedule{
		Ward:          req.Ward,
		CollectionDay: req.CollectionDay,
		WasteType:     req.WasteType,
		Time:          req.Time,
	}

	if err := h.scheduleService.CreateSchedule(schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	h.audit(c, "create_schedule", "schedule", schedule.ID, map[string]interface{}{"ward": schedule.Ward})

	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// UpdateSchedule modifies a collection schedule entry
func (h *AdminHandler) UpdateSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	var req ScheduleBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"ward":           req.Ward,
		"collection_day": req.CollectionDay,
		"waste_type":     req.WasteType,
		"time":           req.Time,
	}

	if err := h.scheduleService.UpdateSchedule(scheduleID, updates); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "update_schedule", "schedule", scheduleID, updates)

	c.JSON(http.StatusOK, gin.H{"message": "Schedule updated"})
}

// DeleteSchedule removes a collection schedule entry
func (h *AdminHandler) DeleteSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	if err := h.scheduleService.DeleteSchedule(scheduleID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "delete_schedule", "schedule", scheduleID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

// CreateWasteType adds a waste type to the catalog
func (h *AdminHandler) CreateWasteType(c *gin.Context) {
	var req WasteTypeBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wasteType := &models.WasteType{
		Name:        req.Name,
		Description: req.Description,
		ColorCode:   req.ColorCode,
		IsActive:    true,
	}

	if err := h.scheduleService.CreateWasteType(wasteType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create waste type"})
		return
	}

	h.audit(c, "create_waste_type", "waste_type", wasteType.ID, map[string]interface{}{"name": wasteType.Name})

	c.JSON(http.StatusCreated, gin.H{"waste_type": wasteType})
}

// UpdateWasteType modifies a waste type
func (h *AdminHandler) UpdateWasteType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid waste type ID"})
		return
	}

	var req WasteTypeBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"color_code":  req.ColorCode,
	}

	if err := h.scheduleService.UpdateWasteType(id, updates); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "update_waste_type", "waste_type", id, updates)

	c.JSON(http.StatusOK, gin.H{"message": "Waste type updated"})
}

// DeleteWasteType removes a waste type
func (h *AdminHandler) DeleteWasteType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid waste type ID"})
		return
	}

	if err := h.scheduleService.DeleteWasteType(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "delete_waste_type", "waste_type", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Waste type deleted"})
}

// CreateCollectionDay adds a collection day
func (h *AdminHandler) CreateCollectionDay(c *gin.Context) {
	var req CollectionDayBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day := &models.CollectionDay{Name: req.Name, IsActive: true}

	if err := h.scheduleService.CreateCollectionDay(day); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create collection day"})
		return
	}

	h.audit(c, "create_collection_day", "collection_day", day.ID, map[string]interface{}{"name": day.Name})

	c.JSON(http.StatusCreated, gin.H{"collection_day": day})
}

// UpdateCollectionDay modifies a collection day
func (h *AdminHandler) UpdateCollectionDay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection day ID"})
		return
	}

	var req CollectionDayBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"name": req.Name}

	if err := h.scheduleService.UpdateCollectionDay(id, updates); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "update_collection_day", "collection_day", id, updates)

	c.JSON(http.StatusOK, gin.H{"message": "Collection day updated"})
}

// DeleteCollectionDay removes a collection day
func (h *AdminHandler) DeleteCollectionDay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection day ID"})
		return
	}

	if err := h.scheduleService.DeleteCollectionDay(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "delete_collection_day", "collection_day", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Collection day deleted"})
}

// CreateWard adds a ward
func (h *AdminHandler) CreateWard(c *gin.Context) {
	var req WardBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ward := &models.Ward{
		WardNumber:  req.WardNumber,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if err := h.scheduleService.CreateWard(ward); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ward"})
		return
	}

	h.audit(c, "create_ward", "ward", ward.ID, map[string]interface{}{"ward_number": ward.WardNumber})

	c.JSON(http.StatusCreated, gin.H{"ward": ward})
}

// UpdateWard modifies a ward
func (h *AdminHandler) UpdateWard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ward ID"})
		return
	}

	var req WardBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"ward_number": req.WardNumber,
		"name":        req.Name,
		"description": req.Description,
	}

	if err := h.scheduleService.UpdateWard(id, updates); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "update_ward", "ward", id, updates)

	c.JSON(http.StatusOK, gin.H{"message": "Ward updated"})
}

// DeleteWard removes a ward
func (h *AdminHandler) DeleteWard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ward ID"})
		return
	}

	if err := h.scheduleService.DeleteWard(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "delete_ward", "ward", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Ward deleted"})
}

// GetSpecialRequests lists pickup requests for staff
func (h *AdminHandler) GetSpecialRequests(c *gin.Context) {
	page, limit := parsePagination(c)

	requests, total, err := h.requestService.GetAllSpecialRequests((page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// UpdateSpecialRequestStatus sets the status of a pickup request
func (h *AdminHandler) UpdateSpecialRequestStatus(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var req RequestStatusBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.requestService.UpdateSpecialRequestStatus(requestID, req.Status); err != nil {
		if errors.Is(err, services.ErrSpecialRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Special request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}

	h.audit(c, "update_special_request_status", "special_request", requestID,
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"message": "Request updated"})
}

// GetCompostRequests lists compost requests for staff
func (h *AdminHandler) GetCompostRequests(c *gin.Context) {
	page, limit := parsePagination(c)

	requests, total, err := h.requestService.GetAllCompostRequests((page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// DeleteCompostRequest removes a handled compost request
func (h *AdminHandler) DeleteCompostRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	if err := h.requestService.DeleteCompostRequest(requestID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.audit(c, "delete_compost_request", "compost_request", requestID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Compost request deleted"})
}

// GetAuditLogs lists recent admin actions
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	page, limit := parsePagination(c)

	var adminID *uuid.UUID
	if adminParam := c.Query("admin_id"); adminParam != "" {
		id, err := uuid.Parse(adminParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin ID"})
			return
		}
		adminID = &id
	}

	logs, total, err := h.auditService.GetRecentActions(page, limit, adminID, c.Query("action"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetAuditStats returns audit log aggregates
func (h *AdminHandler) GetAuditStats(c *gin.Context) {
	stats, err := h.auditService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
