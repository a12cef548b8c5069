package endpoints

import (
	"errors"
	"net/http"

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

type printHandler struct {
	dispatchService *service.DispatchService
	userService     *service.UserService
	logger          zerolog.Logger
}

func newPrintHandler(dispatchService *service.DispatchService) *printHandler {
	return &printHandler{
		dispatchService: dispatchService,
		userService:     service.NewUserService(),
		logger:          printhub.Logger,
	}
}

// PrintHandler exposes the submission endpoints. All three share the same
// dispatch pipeline and differ only in how the document is addressed.
func PrintHandler(router *graceful.Graceful, dispatchService *service.DispatchService) {
	h := newPrintHandler(dispatchService)

	routes := router.Group("/api")
	routes.Use(middleware.APIKeyMiddleware(h.userService))
	{
		routes.POST("/print", h.print)
		routes.POST("/print-id", h.printByID)
		routes.POST("/print-base64", h.printBase64)
	}
}

func (slf *printHandler) print(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "User not authenticated"})
		return
	}

	var req request.PrintDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	result, err := slf.dispatchService.SubmitByUniqueID(user, req)
	if err != nil {
		slf.writeDispatchError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (slf *printHandler) printByID(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "User not authenticated"})
		return
	}

	var req request.PrintByIDDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	result, err := slf.dispatchService.SubmitByID(user, req)
	if err != nil {
		slf.writeDispatchError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (slf *printHandler) printBase64(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "User not authenticated"})
		return
	}

	var req request.PrintBase64DTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	result, err := slf.dispatchService.SubmitBase64(user, req)
	if err != nil {
		slf.writeDispatchError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (slf *printHandler) writeDispatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPrinterNotFound):
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
	case errors.Is(err, service.ErrPrinterOffline):
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
	default:
		slf.logger.Error().Err(err).Msg("Print submission failed")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to submit print job"})
	}
}
