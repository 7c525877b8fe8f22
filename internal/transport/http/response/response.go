package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Detail  string `json:"detail,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessEnvelope{Success: true, Data: data})
}

func List(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Count: &count, Data: data})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Message: message})
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorEnvelope{Success: false, Error: message})
}

// Internal answers 500 with a generic message; the underlying error is
// attached only outside production mode.
func Internal(c *gin.Context, message string, err error, production bool) {
	env := ErrorEnvelope{Success: false, Error: message}
	if !production && err != nil {
		env.Detail = err.Error()
	}
	c.JSON(http.StatusInternalServerError, env)
}
