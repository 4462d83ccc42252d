package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db)

	schedule := &models.Schedule{Ward: 5, CollectionDay: "Monday", WasteType: "General Waste", Time: "07:30"}
	require.NoError(t, svc.CreateSchedule(schedule))

	byWard, err := svc.GetSchedulesByWard(5)
	require.NoError(t, err)
	require.Len(t, byWard, 1)

	byWard, err = svc.GetSchedulesByWard(6)
	require.NoError(t, err)
	assert.Len(t, byWard, 0)

	require.NoError(t, svc.UpdateSchedule(schedule.ID, map[string]interface{}{"time": "08:00"}))

	all, err := svc.GetAllSchedules()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "08:00", all[0].Time)

	require.NoError(t, svc.DeleteSchedule(schedule.ID))
	assert.Error(t, svc.DeleteSchedule(schedule.ID))
	assert.Error(t, svc.UpdateSchedule(uuid.New(), map[string]interface{}{"time": "09:00"}))
}

func TestWasteTypeAndWardCatalogs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db)

	wasteType := &models.WasteType{Name: "Organic", ColorCode: "#00ff00", IsActive: true}
	require.NoError(t, svc.CreateWasteType(wasteType))

	// Names are unique
	assert.Error(t, svc.CreateWasteType(&models.WasteType{Name: "Organic"}))

	ward := &models.Ward{WardNumber: 7, Name: "Ward 7", IsActive: true}
	require.NoError(t, svc.CreateWard(ward))
	assert.Error(t, svc.CreateWard(&models.Ward{WardNumber: 7, Name: "Duplicate"}))

	wards, err := svc.GetWards()
	require.NoError(t, err)
	require.Len(t, wards, 1)
	assert.Equal(t, 7, wards[0].WardNumber)

	day := &models.CollectionDay{Name: "Monday", IsActive: true}
	require.NoError(t, svc.CreateCollectionDay(day))
	require.NoError(t, svc.UpdateCollectionDay(day.ID, map[string]interface{}{"name": "Tuesday"}))

	days, err := svc.GetCollectionDays()
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "Tuesday", days[0].Name)
}
