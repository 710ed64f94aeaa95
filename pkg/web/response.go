// Package web defines common components for a web application.
package web

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ContentType is the media type of every response body.
const ContentType = "application/octet-stream"

// Marshaler is any wire message that can encode itself.
type Marshaler interface {
	Marshal() []byte
}

// Proto writes the encoded message with the given status.
func Proto(c *gin.Context, status int, m Marshaler) {
	c.Data(status, ContentType, m.Marshal())
}

// GetErrorMsg returns a readable message for a failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "gt":
		return " must be greater than " + fe.Param()
	default:
		return " is invalid"
	}
}
