package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried in ErrorEnvelope.
const (
	CodeNotFound   = "not_found"
	CodeBadRequest = "bad_request"
	CodeParseError = "parse_error"
	CodeBadFilter  = "bad_filter"
	CodeInternal   = "internal"
	CodeTooLarge   = "too_large"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func warningText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
