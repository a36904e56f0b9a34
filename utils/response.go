package utils

import "github.com/gin-gonic/gin"

// ErrorBody carries the error half of the response envelope.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope defines the uniform structure for API responses.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *ErrorBody  `json:"error"`
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, Envelope{Success: true, Data: data})
}

// Fail classifies err and renders it with the matching status code. The
// error payload code mirrors the HTTP status.
func Fail(ctx *gin.Context, err error) {
	appErr := Classify(err)
	status := appErr.HTTPStatus()
	ctx.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: status, Message: appErr.Message},
	})
}
