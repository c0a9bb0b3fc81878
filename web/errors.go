package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics-dashboard/apperrors"
)

// statusFor maps an error to the HTTP status of the failed render.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindConnectivity, apperrors.KindSchema:
		return http.StatusBadGateway
	case apperrors.KindModelLoad:
		return http.StatusServiceUnavailable
	case apperrors.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	s.logger.Error("[web] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.HTML(status, "error", errorData{
		page:    s.page("Something went wrong", "", nil),
		Message: err.Error(),
	})
}

func (s *Server) jsonError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[web] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	kind := string(apperrors.KindOf(err))
	if kind == "" {
		kind = "INTERNAL"
	}
	c.JSON(status, gin.H{"error": kind, "message": err.Error()})
}
