package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

// AbortWithError writes the JSON error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: message, Code: code})
}

// ErrorHandler turns panics and errors attached with c.Error into the JSON error envelope.
// Handlers that already wrote a response are left alone.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("[ErrorHandler] Panic recovered", "panic", rec, "path", c.Request.URL.Path)
				if !c.Writer.Written() {
					AbortWithError(c, http.StatusInternalServerError, "internal", "Internal Server Error")
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		log.Warn("[ErrorHandler] Request failed", "status", status, "error", last.Err, "path", c.Request.URL.Path)

		resp := types.ErrorResponse{Error: last.Error()}
		if code, ok := last.Meta.(string); ok {
			resp.Code = code
		}
		if status >= http.StatusInternalServerError {
			resp.Error = "Internal Server Error"
		}
		c.JSON(status, resp)
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("[HTTP] Request completed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("[HTTP] Request completed", fields...)
		default:
			log.Debug("[HTTP] Request completed", fields...)
		}
	}
}
