package service

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"printhub"
	"printhub/internal/api/handler/mapper"
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
	"printhub/internal/api/repo"
)

type CompanyService struct {
	companyRepo   *repo.CompanyRepository
	locationRepo  *repo.LocationRepository
	logger        zerolog.Logger
	companyMapper mapper.CompanyMapper
}

func NewCompanyService() *CompanyService {
	return &CompanyService{
		companyRepo:  repo.NewCompanyRepository(),
		locationRepo: repo.NewLocationRepository(),
		logger:       printhub.Logger,
	}
}

func (slf *CompanyService) GetAll() ([]response.CompanyResponseDTO, error) {
	companies, err := slf.companyRepo.GetAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error listing companies")
		return nil, err
	}
	return slf.companyMapper.EntitiesToCompanyResponses(companies), nil
}

func (slf *CompanyService) GetByID(id uint) (response.CompanyResponseDTO, error) {
	company, err := slf.companyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.CompanyResponseDTO{}, errors.New("company not found")
		}
		return response.CompanyResponseDTO{}, err
	}
	return slf.companyMapper.EntityToCompanyResponse(company), nil
}

func (slf *CompanyService) Create(dto request.CreateCompanyDTO) (response.CompanyResponseDTO, error) {
	exists, err := slf.companyRepo.ExistsByName(dto.Name)
	if err != nil {
		return response.CompanyResponseDTO{}, err
	}
	if exists {
		return response.CompanyResponseDTO{}, errors.New("company with this name already exists")
	}

	company := models.Company{Name: dto.Name, IsActive: true}
	if err := slf.companyRepo.Create(&company); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating company")
		return response.CompanyResponseDTO{}, err
	}

	slf.logger.Info().Uint("companyId", company.ID).Str("name", company.Name).Msg("Company created")
	return slf.companyMapper.EntityToCompanyResponse(company), nil
}

func (slf *CompanyService) Update(id uint, dto request.UpdateCompany) (response.CompanyResponseDTO, error) {
	company, err := slf.companyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.CompanyResponseDTO{}, errors.New("company not found")
		}
		return response.CompanyResponseDTO{}, err
	}

	if dto.Name != nil {
		company.Name = *dto.Name
	}
	if dto.IsActive != nil {
		company.IsActive = *dto.IsActive
	}

	if err := slf.companyRepo.Update(&company); err != nil {
		slf.logger.Error().Err(err).Uint("companyId", id).Msg("Error updating company")
		return response.CompanyResponseDTO{}, err
	}
	return slf.companyMapper.EntityToCompanyResponse(company), nil
}

func (slf *CompanyService) Delete(id uint) error {
	if _, err := slf.companyRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("company not found")
		}
		return err
	}
	return slf.companyRepo.Delete(id)
}

func (slf *CompanyService) GetLocations(companyID uint) ([]response.LocationResponseDTO, error) {
	locations, err := slf.locationRepo.GetByCompany(companyID)
	if err != nil {
		return nil, err
	}
	return slf.companyMapper.EntitiesToLocationResponses(locations), nil
}

func (slf *CompanyService) CreateLocation(dto request.CreateLocationDTO) (response.LocationResponseDTO, error) {
	if _, err := slf.companyRepo.FindByID(dto.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.LocationResponseDTO{}, errors.New("company not found")
		}
		return response.LocationResponseDTO{}, err
	}

	location := models.Location{Name: dto.Name, CompanyID: dto.CompanyID, IsActive: true}
	if err := slf.locationRepo.Create(&location); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating location")
		return response.LocationResponseDTO{}, err
	}

	slf.logger.Info().Uint("locationId", location.ID).Uint("companyId", dto.CompanyID).Msg("Location created")
	return slf.companyMapper.EntityToLocationResponse(location), nil
}

func (slf *CompanyService) UpdateLocation(id uint, dto request.UpdateLocation) (response.LocationResponseDTO, error) {
	location, err := slf.locationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.LocationResponseDTO{}, errors.New("location not found")
		}
		return response.LocationResponseDTO{}, err
	}

	if dto.Name != nil {
		location.Name = *dto.Name
	}
	if dto.IsActive != nil {
		location.IsActive = *dto.IsActive
	}

	if err := slf.locationRepo.Update(&location); err != nil {
		return response.LocationResponseDTO{}, err
	}
	return slf.companyMapper.EntityToLocationResponse(location), nil
}

func (slf *CompanyService) DeleteLocation(id uint) error {
	if _, err := slf.locationRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("location not found")
		}
		return err
	}
	return slf.locationRepo.Delete(id)
}
