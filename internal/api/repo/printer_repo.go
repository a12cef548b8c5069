package repo

import (
	"printhub"
	"printhub/internal/api/models"

	"gorm.io/gorm"
)

type PrinterRepository struct {
	Db *gorm.DB
}

func NewPrinterRepository() *PrinterRepository {
	return &PrinterRepository{Db: printhub.DB}
}

func (slf *PrinterRepository) FindByID(id uint) (models.Printer, error) {
	var printer models.Printer
	err := slf.Db.First(&printer, id).Error
	return printer, err
}

func (slf *PrinterRepository) FindByUniqueID(uniqueID string) (models.Printer, error) {
	var printer models.Printer
	err := slf.Db.Where("unique_id = ?", uniqueID).First(&printer).Error
	return printer, err
}

func (slf *PrinterRepository) GetAll() ([]models.Printer, error) {
	var printers []models.Printer
	err := slf.Db.Order("name").Find(&printers).Error
	return printers, err
}

func (slf *PrinterRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := slf.Db.Model(&models.Printer{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (slf *PrinterRepository) Create(printer *models.Printer) error {
	return slf.Db.Create(printer).Error
}

func (slf *PrinterRepository) Update(printer *models.Printer) error {
	return slf.Db.Save(printer).Error
}

func (slf *PrinterRepository) UpdateStatus(id uint, status string) error {
	return slf.Db.Model(&models.Printer{}).Where("id = ?", id).Update("status", status).Error
}

func (slf *PrinterRepository) Delete(id uint) error {
	return slf.Db.Delete(&models.Printer{}, id).Error
}
