package repo

import (
	"printhub"
	"printhub/internal/api/models"

	"gorm.io/gorm"
)

type PrintJobRepository struct {
	Db *gorm.DB
}

func NewPrintJobRepository() *PrintJobRepository {
	return &PrintJobRepository{Db: printhub.DB}
}

func (slf *PrintJobRepository) FindByID(id uint) (models.PrintJob, error) {
	var job models.PrintJob
	err := slf.Db.First(&job, id).Error
	return job, err
}

func (slf *PrintJobRepository) GetByUser(userID uint) ([]models.PrintJob, error) {
	var jobs []models.PrintJob
	err := slf.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&jobs).Error
	return jobs, err
}

// GetReadyByUser returns the jobs awaiting delivery to the given user,
// payloads included, oldest first so agents drain them in submission order.
func (slf *PrintJobRepository) GetReadyByUser(userID uint) ([]models.PrintJob, error) {
	var jobs []models.PrintJob
	err := slf.Db.Where("user_id = ? AND status = ?", userID, models.JobStatusReady).
		Order("created_at").
		Find(&jobs).Error
	return jobs, err
}

func (slf *PrintJobRepository) GetPendingByPrinter(printerID uint) ([]models.PrintJob, error) {
	var jobs []models.PrintJob
	err := slf.Db.Where("printer_id = ? AND status IN ?", printerID,
		[]string{models.JobStatusPending, models.JobStatusReady}).
		Order("created_at").
		Find(&jobs).Error
	return jobs, err
}

func (slf *PrintJobRepository) GetRecent(limit int) ([]models.PrintJob, error) {
	var jobs []models.PrintJob
	err := slf.Db.Preload("Printer").Preload("User").
		Order("created_at desc").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (slf *PrintJobRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := slf.Db.Model(&models.PrintJob{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (slf *PrintJobRepository) Create(job *models.PrintJob) error {
	return slf.Db.Create(job).Error
}

func (slf *PrintJobRepository) Update(job *models.PrintJob) error {
	return slf.Db.Save(job).Error
}

func (slf *PrintJobRepository) Delete(id uint) error {
	return slf.Db.Delete(&models.PrintJob{}, id).Error
}
