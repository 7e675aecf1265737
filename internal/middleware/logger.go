package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 访问日志，记录状态码、耗时和请求身份（匿名时省略）
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		entry := fmt.Sprintf("%d %s %s %v %s",
			c.Writer.Status(),
			c.Request.Method,
			path,
			time.Since(start).Round(time.Microsecond),
			c.ClientIP(),
		)
		if username := GetUsername(c); username != "" {
			entry += " user=" + username
		}
		log.Print(entry)
	}
}
