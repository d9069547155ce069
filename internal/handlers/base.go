package handlers

import (
	"net/http"

	"lifora/internal/services"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[services.Kind]int{
	services.KindInvalidArgument: http.StatusBadRequest,
	services.KindUnauthorized:    http.StatusUnauthorized,
	services.KindNotFound:        http.StatusNotFound,
	services.KindConflict:        http.StatusConflict,
	services.KindInternal:        http.StatusInternalServerError,
}

// RenderError writes {message} with the status matching the error kind.
func RenderError(c *gin.Context, err error) {
	code, ok := statusByKind[services.KindOf(err)]
	if !ok {
		code = http.StatusInternalServerError
	}
	_ = c.Error(err)
	c.JSON(code, gin.H{"message": services.PublicMessage(err)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
