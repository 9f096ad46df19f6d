// internal/handler/errors.go
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"display-service/internal/driver"
	"display-service/internal/protocol"
	"display-service/internal/service"
	"display-service/internal/utils"
	"display-service/pkg/display"
)

// statusForError maps protocol and capability errors to HTTP status codes
func statusForError(err error) int {
	var transportErr *protocol.TransportError
	switch {
	case errors.Is(err, display.ErrCommandNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, display.ErrCommandArgumentsInvalid), errors.Is(err, driver.ErrUnknownVendor):
		return http.StatusBadRequest
	case errors.Is(err, protocol.ErrHandshakeFailed), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrScanInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and sends it with the mapped status
func respondError(c *gin.Context, logger *utils.ServiceLogger, message string, err error) {
	status := statusForError(err)
	requestLogger := utils.LoggerWithRequestID(logger.Logger, c.GetString("request_id"))
	if status >= http.StatusInternalServerError {
		utils.LogError(requestLogger, message, err, zap.String("path", c.Request.URL.Path))
	} else {
		requestLogger.Debug(message, zap.Error(err), zap.String("path", c.Request.URL.Path))
	}
	utils.ErrorResponse(c, status, message, err)
}
