package response

import "time"

type PrinterResponseDTO struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Model         string     `json:"model"`
	Status        string     `json:"status"`
	UniqueID      string     `json:"uniqueId"`
	IsActive      bool       `json:"isActive"`
	LastPrintTime *time.Time `json:"lastPrintTime,omitempty"`
	CompanyID     *uint      `json:"companyId,omitempty"`
	LocationID    *uint      `json:"locationId,omitempty"`
}
