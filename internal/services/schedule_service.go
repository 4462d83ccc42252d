package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/models"
	"gorm.io/gorm"
)

type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// GetAllSchedules retrieves all collection schedules ordered by ward and day
func (s *ScheduleService) GetAllSchedules() ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := s.db.Order("ward ASC, collection_day ASC").Find(&schedules).Error
	return schedules, err
}

// GetSchedulesByWard retrieves schedules for a single ward
func (s *ScheduleService) GetSchedulesByWard(ward int) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := s.db.Where("ward = ?", ward).Order("collection_day ASC").Find(&schedules).Error
	return schedules, err
}

// CreateSchedule creates a collection schedule entry
func (s *ScheduleService) CreateSchedule(schedule *models.Schedule) error {
	return s.db.Create(schedule).Error
}

// UpdateSchedule updates a collection schedule entry
func (s *ScheduleService) UpdateSchedule(scheduleID uuid.UUID, updates map[string]interface{}) error {
	result := s.db.Model(&models.Schedule{}).Where("id = ?", scheduleID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("schedule not found")
	}
	return nil
}

// DeleteSchedule deletes a collection schedule entry
func (s *ScheduleService) DeleteSchedule(scheduleID uuid.UUID) error {
	result := s.db.Delete(&models.Schedule{}, scheduleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("schedule not found")
	}
	return nil
}

// GetWasteTypes retrieves all waste types
func (s *ScheduleService) GetWasteTypes() ([]*models.WasteType, error) {
	var types []*models.WasteType
	err := s.db.Order("name ASC").Find(&types).Error
	return types, err
}

// CreateWasteType creates a waste type
func (s *ScheduleService) CreateWasteType(wasteType *models.WasteType) error {
	return s.db.Create(wasteType).Error
}

// UpdateWasteType updates a waste type
func (s *ScheduleService) UpdateWasteType(id uuid.UUID, updates map[string]interface{}) error {
	result := s.db.Model(&models.WasteType{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("waste type not found")
	}
	return nil
}

// DeleteWasteType deletes a waste type
func (s *ScheduleService) DeleteWasteType(id uuid.UUID) error {
	result := s.db.Delete(&models.WasteType{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("waste type not found")
	}
	return nil
}

// GetCollectionDays retrieves all collection days
func (s *ScheduleService) GetCollectionDays() ([]*models.CollectionDay, error) {
	var days []*models.CollectionDay
	err := s.db.Find(&days).Error
	return days, err
}

// CreateCollectionDay creates a collection day
func (s *ScheduleService) CreateCollectionDay(day *models.CollectionDay) error {
	return s.db.Create(day).Error
}

// UpdateCollectionDay updates a collection day
func (s *ScheduleService) UpdateCollectionDay(id uuid.UUID, updates map[string]interface{}) error {
	result := s.db.Model(&models.CollectionDay{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("collection day not found")
	}
	return nil
}

// DeleteCollectionDay deletes a collection day
func (s *ScheduleService) DeleteCollectionDay(id uuid.UUID) error {
	result := s.db.Delete(&models.CollectionDay{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("collection day not found")
	}
	return nil
}

// GetWards retrieves all wards ordered by number
func (s *ScheduleService) GetWards() ([]*models.Ward, error) {
	var wards []*models.Ward
	err := s.db.Order("ward_number ASC").Find(&wards).Error
	return wards, err
}

// CreateWard creates a ward
func (s *ScheduleService) CreateWard(ward *models.Ward) error {
	return s.db.Create(ward).Error
}

// UpdateWard updates a ward
func (s *ScheduleService) UpdateWard(id uuid.UUID, updates map[string]interface{}) error {
	result := s.db.Model(&models.Ward{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("ward not found")
	}
	return nil
}

// DeleteWard deletes a ward
func (s *ScheduleService) DeleteWard(id uuid.UUID) error {
	result := s.db.Delete(&models.Ward{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("ward not found")
	}
	return nil
}
