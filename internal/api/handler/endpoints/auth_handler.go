package endpoints

import (
	"net/http"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"printhub"
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/service"
	"printhub/pkg"
)

type authHandler struct {
	userService *service.UserService
	logger      zerolog.Logger
}

func newAuthHandler() *authHandler {
	return &authHandler{
		userService: service.NewUserService(),
		logger:      printhub.Logger,
	}
}

func AuthHandler(router *graceful.Graceful) {
	h := newAuthHandler()

	router.POST("/api/login", h.login)
	router.POST("/api/auth/refresh", h.refresh)
}

func (slf *authHandler) login(c *gin.Context) {
	var req request.LoginDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	result, err := slf.userService.Login(req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (slf *authHandler) refresh(c *gin.Context) {
	var req request.RefreshTokenDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	result, err := slf.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
