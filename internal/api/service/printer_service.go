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

type PrinterService struct {
	printerRepo   *repo.PrinterRepository
	logger        zerolog.Logger
	printerMapper mapper.PrinterMapper
}

func NewPrinterService() *PrinterService {
	return &PrinterService{
		printerRepo: repo.NewPrinterRepository(),
		logger:      printhub.Logger,
	}
}

func (slf *PrinterService) GetAll() ([]response.PrinterResponseDTO, error) {
	printers, err := slf.printerRepo.GetAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error listing printers")
		return nil, err
	}
	return slf.printerMapper.EntitiesToPrinterResponses(printers), nil
}

func (slf *PrinterService) GetByID(id uint) (response.PrinterResponseDTO, error) {
	printer, err := slf.printerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.PrinterResponseDTO{}, ErrPrinterNotFound
		}
		slf.logger.Error().Err(err).Uint("printerId", id).Msg("Error finding printer")
		return response.PrinterResponseDTO{}, err
	}
	return slf.printerMapper.EntityToPrinterResponse(printer), nil
}

func (slf *PrinterService) Create(dto request.CreatePrinterDTO) (response.PrinterResponseDTO, error) {
	if _, err := slf.printerRepo.FindByUniqueID(dto.UniqueID); err == nil {
		return response.PrinterResponseDTO{}, errors.New("printer with this unique ID already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.PrinterResponseDTO{}, err
	}

	printer := slf.printerMapper.CreateDtoToEntity(dto)
	if err := slf.printerRepo.Create(&printer); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating printer")
		return response.PrinterResponseDTO{}, err
	}

	slf.logger.Info().Uint("printerId", printer.ID).Str("uniqueId", printer.UniqueID).Msg("Printer created")
	return slf.printerMapper.EntityToPrinterResponse(printer), nil
}

func (slf *PrinterService) Update(id uint, dto request.UpdatePrinter) (response.PrinterResponseDTO, error) {
	printer, err := slf.printerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.PrinterResponseDTO{}, ErrPrinterNotFound
		}
		return response.PrinterResponseDTO{}, err
	}

	slf.printerMapper.DtoToUpdate(dto, &printer)
	if err := slf.printerRepo.Update(&printer); err != nil {
		slf.logger.Error().Err(err).Uint("printerId", id).Msg("Error updating printer")
		return response.PrinterResponseDTO{}, err
	}
	return slf.printerMapper.EntityToPrinterResponse(printer), nil
}

func (slf *PrinterService) Delete(id uint) error {
	if _, err := slf.printerRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPrinterNotFound
		}
		return err
	}
	return slf.printerRepo.Delete(id)
}

// SetStatusByUniqueID flips a printer between online and offline, driven by
// agent connect and disconnect notifications.
func (slf *PrinterService) SetStatusByUniqueID(uniqueID string, status string) (response.PrinterResponseDTO, error) {
	if status != models.PrinterStatusOnline && status != models.PrinterStatusOffline {
		return response.PrinterResponseDTO{}, errors.New("invalid printer status")
	}

	printer, err := slf.printerRepo.FindByUniqueID(uniqueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.PrinterResponseDTO{}, ErrPrinterNotFound
		}
		return response.PrinterResponseDTO{}, err
	}

	if printer.Status != status {
		printer.Status = status
		if err := slf.printerRepo.Update(&printer); err != nil {
			slf.logger.Error().Err(err).Str("uniqueId", uniqueID).Msg("Error updating printer status")
			return response.PrinterResponseDTO{}, err
		}
		slf.logger.Info().Str("uniqueId", uniqueID).Str("status", status).Msg("Printer status changed")
	}
	return slf.printerMapper.EntityToPrinterResponse(printer), nil
}

// Sync registers the printers an agent reports that the server does not
// know yet and marks the reported ones online. Returns the full mapped set.
func (slf *PrinterService) Sync(dto request.SyncPrintersDTO, companyID, locationID *uint) ([]response.PrinterResponseDTO, error) {
	out := make([]response.PrinterResponseDTO, 0, len(dto.Printers))
	for _, entry := range dto.Printers {
		printer, err := slf.printerRepo.FindByUniqueID(entry.UniqueID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			printer = models.Printer{
				Name:       entry.Name,
				Model:      entry.Model,
				UniqueID:   entry.UniqueID,
				Status:     models.PrinterStatusOnline,
				IsActive:   true,
				CompanyID:  companyID,
				LocationID: locationID,
			}
			if err := slf.printerRepo.Create(&printer); err != nil {
				slf.logger.Error().Err(err).Str("uniqueId", entry.UniqueID).Msg("Error creating synced printer")
				return nil, err
			}
			slf.logger.Info().Str("uniqueId", entry.UniqueID).Msg("Printer discovered via sync")
		} else if printer.Status != models.PrinterStatusOnline {
			printer.Status = models.PrinterStatusOnline
			if err := slf.printerRepo.Update(&printer); err != nil {
				return nil, err
			}
		}
		out = append(out, slf.printerMapper.EntityToPrinterResponse(printer))
	}
	return out, nil
}
