package request

type CreateCompanyDTO struct {
	Name string `json:"name" validate:"required"`
}

type UpdateCompany struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

type CreateLocationDTO struct {
	Name      string `json:"name" validate:"required"`
	CompanyID uint   `json:"companyId" validate:"required"`
}

type UpdateLocation struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}
