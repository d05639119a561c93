package admin

import (
	handlershared "github.com/built-mlm/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.CurrentID(c, handlershared.AdminIDKey)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParseIDParam(c, name)
}
