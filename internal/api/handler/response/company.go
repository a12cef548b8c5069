package response

type CompanyResponseDTO struct {
	ID        uint                  `json:"id"`
	Name      string                `json:"name"`
	IsActive  bool                  `json:"isActive"`
	Locations []LocationResponseDTO `json:"locations"`
}

type LocationResponseDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CompanyID uint   `json:"companyId"`
	IsActive  bool   `json:"isActive"`
}
