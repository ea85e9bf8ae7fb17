// Package handlers translates the HTTP surface into service calls. Every
// response uses the {"success": bool, ...} envelope; internal error detail
// is logged server-side and never echoed to clients.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const internalErrorMessage = "Internal server error"

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// bindingMessage maps a binding failure to a message naming the offending
// field class, without echoing the raw validator output.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				return "Please fill all the fields"
			case "email":
				return "Please enter a valid email id"
			case "min":
				return "Password is too short"
			case "oneof":
				return "Invalid account role"
			}
		}
	}
	return "Invalid request body"
}
