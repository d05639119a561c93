package public

import (
	handlershared "github.com/built-mlm/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.CurrentID(c, handlershared.UserIDKey)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParseIDParam(c, name)
}
