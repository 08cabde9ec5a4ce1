package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
)

func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	h.Register(r)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		helpers.Logger.Debugln(fmt.Sprintf("%s %s %d %s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start)))
	}
}
