package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errs interface{}) {
	if code >= http.StatusInternalServerError {
		_ = c.Error(serverError(message, errs))
	}
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errs,
	})
}

func serverError(message string, errs interface{}) error {
	switch v := errs.(type) {
	case error:
		return fmt.Errorf("%s: %w", message, v)
	case string:
		return fmt.Errorf("%s: %s", message, v)
	default:
		return errors.New(message)
	}
}
