package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CodeOK is the business code for successful responses. Error codes follow
// the HTTP status they ship with: 40001.. for bad requests, 401xx for auth,
// 404xx not found, 409xx conflicts (dedup guards), 500xx storage/internal.
const CodeOK = 0

// JSONResponse defines the uniform structure for API responses. Cached list
// payloads store this envelope verbatim, so its shape must stay stable.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, CodeOK, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}
