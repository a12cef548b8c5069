package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"printhub"
	"printhub/internal/api/handler/middleware"
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/service"
	"printhub/pkg"
)

type companyHandler struct {
	companyService *service.CompanyService
	config         printhub.AppConfig
	logger         zerolog.Logger
}

func newCompanyHandler() *companyHandler {
	return &companyHandler{
		companyService: service.NewCompanyService(),
		config:         printhub.GetConfig(),
		logger:         printhub.Logger,
	}
}

func CompanyHandler(router *graceful.Graceful) {
	h := newCompanyHandler()

	companies := router.Group("/api/companies")
	companies.Use(middleware.AuthMiddleware(h.config))
	{
		companies.GET("", h.getAll)
		companies.POST("", h.create)
		companies.GET("/:id", h.getByID)
		companies.PUT("/:id", h.update)
		companies.DELETE("/:id", h.delete)
		companies.GET("/:id/locations", h.getLocations)
	}

	locations := router.Group("/api/locations")
	locations.Use(middleware.AuthMiddleware(h.config))
	{
		locations.POST("", h.createLocation)
		locations.PUT("/:id", h.updateLocation)
		locations.DELETE("/:id", h.deleteLocation)
	}
}

func (slf *companyHandler) getAll(c *gin.Context) {
	companies, err := slf.companyService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve companies"})
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (slf *companyHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	company, err := slf.companyService.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (slf *companyHandler) create(c *gin.Context) {
	var req request.CreateCompanyDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	company, err := slf.companyService.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (slf *companyHandler) update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	var req request.UpdateCompany
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	company, err := slf.companyService.Update(uint(id), req)
	if err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (slf *companyHandler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	if err := slf.companyService.Delete(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (slf *companyHandler) getLocations(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	locations, err := slf.companyService.GetLocations(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (slf *companyHandler) createLocation(c *gin.Context) {
	var req request.CreateLocationDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	location, err := slf.companyService.CreateLocation(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (slf *companyHandler) updateLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	var req request.UpdateLocation
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	location, err := slf.companyService.UpdateLocation(uint(id), req)
	if err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, location)
}

func (slf *companyHandler) deleteLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	if err := slf.companyService.DeleteLocation(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
