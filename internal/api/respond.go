package api

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	payloads "goclean/adapters/api"
	"goclean/domain/cleaning"
	"goclean/internal/errors"
)

// statusFor maps an error to an HTTP status by its AppError code
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeValidationError:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case errors.CodeCanceled:
		if stderrors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

// decodeError classifies errors raised while reading a request body
func decodeError(err error) error {
	switch {
	case stderrors.Is(err, cleaning.ErrInvalidOptions):
		return errors.WithCode(errors.CodeValidationError, err)
	case stderrors.Is(err, payloads.ErrInvalidPayload), cleaning.IsInputShapeError(err):
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	return err
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
		"code":    errors.GetCode(err),
	})
}

// respondResult writes a cleaning result; failed runs keep the Result body
func respondResult(c *gin.Context, result *cleaning.Result, err error) {
	if err != nil {
		if result == nil {
			respondError(c, err)
			return
		}
		c.JSON(statusFor(err), result)
		return
	}
	c.JSON(http.StatusOK, result)
}
