package mapper

import (
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
)

type CompanyMapper struct{}

func (CompanyMapper) EntityToLocationResponse(location models.Location) response.LocationResponseDTO {
	return response.LocationResponseDTO{
		ID:        location.ID,
		Name:      location.Name,
		CompanyID: location.CompanyID,
		IsActive:  location.IsActive,
	}
}

func (m CompanyMapper) EntityToCompanyResponse(company models.Company) response.CompanyResponseDTO {
	locations := make([]response.LocationResponseDTO, 0, len(company.Locations))
	for _, location := range company.Locations {
		locations = append(locations, m.EntityToLocationResponse(location))
	}
	return response.CompanyResponseDTO{
		ID:        company.ID,
		Name:      company.Name,
		IsActive:  company.IsActive,
		Locations: locations,
	}
}

func (m CompanyMapper) EntitiesToCompanyResponses(companies []models.Company) []response.CompanyResponseDTO {
	out := make([]response.CompanyResponseDTO, 0, len(companies))
	for _, company := range companies {
		out = append(out, m.EntityToCompanyResponse(company))
	}
	return out
}

func (m CompanyMapper) EntitiesToLocationResponses(locations []models.Location) []response.LocationResponseDTO {
	out := make([]response.LocationResponseDTO, 0, len(locations))
	for _, location := range locations {
		out = append(out, m.EntityToLocationResponse(location))
	}
	return out
}
