package repo

import (
	"printhub"
	"printhub/internal/api/models"

	"gorm.io/gorm"
)

type LocationRepository struct {
	Db *gorm.DB
}

func NewLocationRepository() *LocationRepository {
	return &LocationRepository{Db: printhub.DB}
}

func (slf *LocationRepository) FindByID(id uint) (models.Location, error) {
	var location models.Location
	err := slf.Db.First(&location, id).Error
	return location, err
}

func (slf *LocationRepository) GetAll() ([]models.Location, error) {
	var locations []models.Location
	err := slf.Db.Order("name").Find(&locations).Error
	return locations, err
}

func (slf *LocationRepository) GetByCompany(companyID uint) ([]models.Location, error) {
	var locations []models.Location
	err := slf.Db.Where("company_id = ?", companyID).Order("name").Find(&locations).Error
	return locations, err
}

func (slf *LocationRepository) Create(location *models.Location) error {
	return slf.Db.Create(location).Error
}

func (slf *LocationRepository) Update(location *models.Location) error {
	return slf.Db.Save(location).Error
}

func (slf *LocationRepository) Delete(id uint) error {
	return slf.Db.Delete(&models.Location{}, id).Error
}
