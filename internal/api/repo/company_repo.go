package repo

import (
	"printhub"
	"printhub/internal/api/models"

	"gorm.io/gorm"
)

type CompanyRepository struct {
	Db *gorm.DB
}

func NewCompanyRepository() *CompanyRepository {
	return &CompanyRepository{Db: printhub.DB}
}

func (slf *CompanyRepository) FindByID(id uint) (models.Company, error) {
	var company models.Company
	err := slf.Db.Preload("Locations").First(&company, id).Error
	return company, err
}

func (slf *CompanyRepository) GetAll() ([]models.Company, error) {
	var companies []models.Company
	err := slf.Db.Preload("Locations").Order("name").Find(&companies).Error
	return companies, err
}

func (slf *CompanyRepository) Create(company *models.Company) error {
	return slf.Db.Create(company).Error
}

func (slf *CompanyRepository) Update(company *models.Company) error {
	return slf.Db.Save(company).Error
}

func (slf *CompanyRepository) Delete(id uint) error {
	return slf.Db.Delete(&models.Company{}, id).Error
}

func (slf *CompanyRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := slf.Db.Model(&models.Company{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}
