package mapper

import (
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
)

type PrinterMapper struct{}

func (PrinterMapper) EntityToPrinterResponse(printer models.Printer) response.PrinterResponseDTO {
	return response.PrinterResponseDTO{
		ID:            printer.ID,
		Name:          printer.Name,
		Model:         printer.Model,
		Status:        printer.Status,
		UniqueID:      printer.UniqueID,
		IsActive:      printer.IsActive,
		LastPrintTime: printer.LastPrintTime,
		CompanyID:     printer.CompanyID,
		LocationID:    printer.LocationID,
	}
}

func (m PrinterMapper) EntitiesToPrinterResponses(printers []models.Printer) []response.PrinterResponseDTO {
	out := make([]response.PrinterResponseDTO, 0, len(printers))
	for _, printer := range printers {
		out = append(out, m.EntityToPrinterResponse(printer))
	}
	return out
}

func (PrinterMapper) CreateDtoToEntity(req request.CreatePrinterDTO) models.Printer {
	return models.Printer{
		Name:       req.Name,
		Model:      req.Model,
		UniqueID:   req.UniqueID,
		Status:     models.PrinterStatusOffline,
		IsActive:   true,
		CompanyID:  req.CompanyID,
		LocationID: req.LocationID,
	}
}

func (PrinterMapper) DtoToUpdate(req request.UpdatePrinter, printer *models.Printer) {
	if req.Name != nil {
		printer.Name = *req.Name
	}
	if req.Model != nil {
		printer.Model = *req.Model
	}
	if req.IsActive != nil {
		printer.IsActive = *req.IsActive
	}
	if req.CompanyID != nil {
		printer.CompanyID = req.CompanyID
	}
	if req.LocationID != nil {
		printer.LocationID = req.LocationID
	}
}
