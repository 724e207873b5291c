package web

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var scannerPage []byte

func servePage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", scannerPage)
}
