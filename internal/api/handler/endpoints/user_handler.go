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

type userHandler struct {
	userService *service.UserService
	config      printhub.AppConfig
	logger      zerolog.Logger
}

func newUserHandler() *userHandler {
	return &userHandler{
		userService: service.NewUserService(),
		config:      printhub.GetConfig(),
		logger:      printhub.Logger,
	}
}

func UserHandler(router *graceful.Graceful) {
	h := newUserHandler()

	routes := router.Group("/api/users")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("/me", h.me)
		routes.GET("/me/apikey", h.getAPIKey)
		routes.POST("/me/apikey/rotate", h.rotateAPIKey)

		admin := routes.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("", h.getAll)
			admin.POST("", h.create)
			admin.PUT("/:id", h.update)
			admin.DELETE("/:id", h.delete)
		}
	}
}

func (slf *userHandler) me(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}

	user, err := slf.userService.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (slf *userHandler) getAPIKey(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}

	key, err := slf.userService.GetAPIKey(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, key)
}

func (slf *userHandler) rotateAPIKey(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}

	key, err := slf.userService.RotateAPIKey(userID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Failed to rotate API key")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to rotate API key"})
		return
	}
	c.JSON(http.StatusOK, key)
}

func (slf *userHandler) getAll(c *gin.Context) {
	users, err := slf.userService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (slf *userHandler) create(c *gin.Context) {
	var req request.CreateUserDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	user, err := slf.userService.Create(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (slf *userHandler) update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	var req request.UpdateUser
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	user, err := slf.userService.Update(uint(id), req)
	if err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (slf *userHandler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	if err := slf.userService.Delete(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
