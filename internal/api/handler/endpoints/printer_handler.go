package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"printhub"
	"printhub/internal/api/handler/mapper"
	"printhub/internal/api/handler/middleware"
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
	"printhub/internal/api/service"
	"printhub/pkg"
)

type printerHandler struct {
	printerService *service.PrinterService
	jobService     *service.JobService
	userService    *service.UserService
	jobMapper      mapper.JobMapper
	config         printhub.AppConfig
	logger         zerolog.Logger
}

func newPrinterHandler() *printerHandler {
	return &printerHandler{
		printerService: service.NewPrinterService(),
		jobService:     service.NewJobService(),
		userService:    service.NewUserService(),
		config:         printhub.GetConfig(),
		logger:         printhub.Logger,
	}
}

func PrinterHandler(router *graceful.Graceful) {
	h := newPrinterHandler()

	dashboard := router.Group("/api/printers")
	dashboard.Use(middleware.AuthMiddleware(h.config))
	{
		dashboard.GET("", h.getAll)
		dashboard.POST("", h.create)
		dashboard.GET("/:id", h.getByID)
		dashboard.PUT("/:id", h.update)
		dashboard.DELETE("/:id", h.delete)
	}

	// Machine routes. The :id segment carries the printer unique ID here;
	// agents do not know server-side numeric IDs.
	machine := router.Group("/api/printers")
	machine.Use(middleware.APIKeyMiddleware(h.userService))
	{
		machine.POST("/sync", h.sync)
		machine.POST("/:id/connect", h.connect)
		machine.POST("/:id/disconnect", h.disconnect)
		machine.GET("/:id/jobs", h.getJobs)
	}
}

func (slf *printerHandler) getAll(c *gin.Context) {
	printers, err := slf.printerService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve printers"})
		return
	}
	c.JSON(http.StatusOK, printers)
}

func (slf *printerHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	printer, err := slf.printerService.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, printer)
}

func (slf *printerHandler) create(c *gin.Context) {
	var req request.CreatePrinterDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	printer, err := slf.printerService.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, printer)
}

func (slf *printerHandler) update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	var req request.UpdatePrinter
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	printer, err := slf.printerService.Update(uint(id), req)
	if err != nil {
		if errors.Is(err, service.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to update printer"})
		return
	}
	c.JSON(http.StatusOK, printer)
}

func (slf *printerHandler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	if err := slf.printerService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to delete printer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (slf *printerHandler) sync(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "User not authenticated"})
		return
	}

	var req request.SyncPrintersDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	printers, err := slf.printerService.Sync(req, user.CompanyID, user.LocationID)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Printer sync failed")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to sync printers"})
		return
	}
	c.JSON(http.StatusOK, printers)
}

func (slf *printerHandler) connect(c *gin.Context) {
	slf.setStatus(c, models.PrinterStatusOnline)
}

func (slf *printerHandler) disconnect(c *gin.Context) {
	slf.setStatus(c, models.PrinterStatusOffline)
}

func (slf *printerHandler) setStatus(c *gin.Context, status string) {
	uniqueID := c.Param("id")

	printer, err := slf.printerService.SetStatusByUniqueID(uniqueID, status)
	if err != nil {
		if errors.Is(err, service.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to update printer status"})
		return
	}
	c.JSON(http.StatusOK, printer)
}

// getJobs lists undelivered jobs for one printer, addressed by unique ID.
func (slf *printerHandler) getJobs(c *gin.Context) {
	uniqueID := c.Param("id")

	jobs, err := slf.jobService.GetForPrinter(uniqueID)
	if err != nil {
		if errors.Is(err, service.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve jobs"})
		return
	}
	c.JSON(http.StatusOK, slf.jobMapper.EntitiesToJobResponses(jobs))
}
