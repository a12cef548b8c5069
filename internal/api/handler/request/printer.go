package request

type CreatePrinterDTO struct {
	Name       string `json:"name" validate:"required"`
	Model      string `json:"model"`
	UniqueID   string `json:"uniqueId" validate:"required"`
	CompanyID  *uint  `json:"companyId"`
	LocationID *uint  `json:"locationId"`
}

type UpdatePrinter struct {
	Name       *string `json:"name"`
	Model      *string `json:"model"`
	IsActive   *bool   `json:"isActive"`
	CompanyID  *uint   `json:"companyId"`
	LocationID *uint   `json:"locationId"`
}

// SyncPrintersDTO reports the printers an agent sees locally so the server
// can create the ones it does not know yet.
type SyncPrintersDTO struct {
	Printers []SyncPrinterEntry `json:"printers" validate:"required,dive"`
}

type SyncPrinterEntry struct {
	Name     string `json:"name" validate:"required"`
	Model    string `json:"model"`
	UniqueID string `json:"uniqueId" validate:"required"`
}
