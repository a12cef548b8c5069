package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printhub"
	"printhub/internal/api/handler/request"
	"printhub/internal/api/models"
)

func TestStatusTransition_ReadyToProcessing(t *testing.T) {
	apply, err := validateStatusTransition(models.JobStatusReady, models.JobStatusProcessing)
	require.NoError(t, err)
	assert.True(t, apply)
}

func TestStatusTransition_ProcessingToCompleted(t *testing.T) {
	apply, err := validateStatusTransition(models.JobStatusProcessing, models.JobStatusCompleted)
	require.NoError(t, err)
	assert.True(t, apply)
}

func TestStatusTransition_IdempotentRepeat(t *testing.T) {
	for _, status := range []string{
		models.JobStatusProcessing,
		models.JobStatusCompleted,
		models.JobStatusFailed,
	} {
		apply, err := validateStatusTransition(status, status)
		require.NoError(t, err, "re-applying %s must succeed", status)
		assert.False(t, apply, "re-applying %s must not change anything", status)
	}
}

func TestStatusTransition_TerminalIsFinal(t *testing.T) {
	_, err := validateStatusTransition(models.JobStatusCompleted, models.JobStatusProcessing)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = validateStatusTransition(models.JobStatusFailed, models.JobStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusTransition_UnknownStatusRejected(t *testing.T) {
	_, err := validateStatusTransition(models.JobStatusReady, "paused")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = validateStatusTransition(models.JobStatusReady, models.JobStatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func setupJobTestDB(t *testing.T) {
	printhub.InitConfig("../../../.env.test")

	err := printhub.DB.AutoMigrate(&models.User{}, &models.Printer{}, &models.PrintJob{})
	require.NoError(t, err, "Failed to migrate job tables")
}

func createPickupFixtures(t *testing.T) (models.User, models.Printer) {
	t.Helper()
	suffix := time.Now().UnixNano()

	user := models.User{
		Username: fmt.Sprintf("picker-%d", suffix),
		Password: "unused",
		Name:     "Pickup Tester",
		APIKey:   fmt.Sprintf("key-%d", suffix),
	}
	require.NoError(t, printhub.DB.Create(&user).Error)

	printer := models.Printer{
		Name:     "Pickup Printer",
		UniqueID: fmt.Sprintf("pickup-printer-%d", suffix),
		Status:   models.PrinterStatusOnline,
	}
	require.NoError(t, printhub.DB.Create(&printer).Error)

	return user, printer
}

func cleanupPickupFixtures(t *testing.T, user models.User, printer models.Printer) {
	printhub.DB.Unscoped().Where("user_id = ?", user.ID).Delete(&models.PrintJob{})
	printhub.DB.Unscoped().Delete(&models.Printer{}, printer.ID)
	printhub.DB.Unscoped().Delete(&models.User{}, user.ID)
}

// A job submitted while no connection is live stays visible to pickup until
// the agent reports a terminal status; reads never consume it.
func TestJob_PickupLifecycle(t *testing.T) {
	setupJobTestDB(t)
	user, printer := createPickupFixtures(t)
	defer cleanupPickupFixtures(t, user, printer)

	dispatch := NewDispatchService(nil)
	result, err := dispatch.SubmitByUniqueID(user, request.PrintDTO{
		PrinterID:   printer.UniqueID,
		DocumentURL: "https://docs.example.com/invoice.pdf",
	})
	require.NoError(t, err)
	require.Equal(t, models.JobStatusReady, result.Status)

	service := NewJobService()

	ready, err := service.GetReadyForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, result.JobID, ready[0].ID)
	assert.NotEmpty(t, ready[0].Payload, "pickup must include the render payload")

	// Reading is side-effect free; a second poll sees the same job.
	ready, err = service.GetReadyForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, ready, 1)

	job, err := service.UpdateStatus(result.JobID, models.JobStatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)

	ready, err = service.GetReadyForUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, ready, "completed jobs must not be redelivered via pickup")

	var stamped models.Printer
	require.NoError(t, printhub.DB.First(&stamped, printer.ID).Error)
	assert.NotNil(t, stamped.LastPrintTime)
}

func TestJob_UpdateStatus_FailureKeepsJobOutOfPickup(t *testing.T) {
	setupJobTestDB(t)
	user, printer := createPickupFixtures(t)
	defer cleanupPickupFixtures(t, user, printer)

	dispatch := NewDispatchService(nil)
	result, err := dispatch.SubmitByUniqueID(user, request.PrintDTO{
		PrinterID:   printer.UniqueID,
		DocumentURL: "https://docs.example.com/report.pdf",
	})
	require.NoError(t, err)

	service := NewJobService()
	job, err := service.UpdateStatus(result.JobID, models.JobStatusFailed, "paper jam")
	require.NoError(t, err)
	assert.Equal(t, "paper jam", job.Error)
	require.NotNil(t, job.CompletedAt)

	ready, err := service.GetReadyForUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, ready)
}

func TestJob_UpdateStatus_UnknownJob(t *testing.T) {
	setupJobTestDB(t)

	service := NewJobService()
	_, err := service.UpdateStatus(0, models.JobStatusCompleted, "")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
