package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/carelinkvn/clinic-app/apperr"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError classifies err through the apperr taxonomy so services
// never pick HTTP status codes themselves. Unclassified errors are logged
// and hidden behind a generic message.
func RespondAppError(c *gin.Context, err error) {
	kind := apperr.Kind(err)
	code := apperr.HTTPStatus(err)

	message := err.Error()
	if kind == "internal" {
		ErrorLogger.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	}

	c.JSON(code, JSONResponse{
		Status:  false,
		Message: message,
		Error:   kind,
	})
}
