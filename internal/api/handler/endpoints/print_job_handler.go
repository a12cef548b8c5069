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
	"printhub/internal/api/service"
	"printhub/pkg"
)

type printJobHandler struct {
	jobService  *service.JobService
	userService *service.UserService
	jobMapper   mapper.JobMapper
	logger      zerolog.Logger
}

func newPrintJobHandler() *printJobHandler {
	return &printJobHandler{
		jobService:  service.NewJobService(),
		userService: service.NewUserService(),
		logger:      printhub.Logger,
	}
}

func PrintJobHandler(router *graceful.Graceful) {
	h := newPrintJobHandler()

	routes := router.Group("/api/print-jobs")
	routes.Use(middleware.APIKeyMiddleware(h.userService))
	{
		routes.GET("", h.getAll)
		routes.GET("/ready", h.getReady)
		routes.PUT("/:id/status", h.updateStatus)
		routes.DELETE("/:id", h.delete)
	}
}

func (slf *printJobHandler) getAll(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}

	jobs, err := slf.jobService.GetAllForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve jobs"})
		return
	}
	c.JSON(http.StatusOK, slf.jobMapper.EntitiesToJobResponses(jobs))
}

// getReady is the pull side of delivery: every ready job owned by the
// caller, payloads included. Reading never changes status, so agents poll
// it on a fixed interval as the fallback for missed pushes.
func (slf *printJobHandler) getReady(c *gin.Context) {
	userID, ok := pkg.GetUserID(c)
	if !ok {
		return
	}

	jobs, err := slf.jobService.GetReadyForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve ready jobs"})
		return
	}
	c.JSON(http.StatusOK, slf.jobMapper.EntitiesToJobResponses(jobs))
}

func (slf *printJobHandler) updateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	var req request.UpdateJobStatusDTO
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	job, err := slf.jobService.UpdateStatus(uint(id), req.Status, req.Error)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		default:
			slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to update job status")
			c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to update job status"})
		}
		return
	}
	c.JSON(http.StatusOK, slf.jobMapper.EntityToJobResponse(job))
}

func (slf *printJobHandler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	if err := slf.jobService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to delete job"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
