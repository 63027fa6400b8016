package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/fnplot/internal/logging"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestID bounds client-supplied request IDs. Longer ones are replaced.
const maxRequestID = 128

// recovery turns panics into 500 responses.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, v any) {
		logging.Entry(c.Request.Context(), s.log).WithField("panic", v).Error("recovered from panic")
		abort(c, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
	})
}

// requestID propagates the client's request ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestID {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Set(logging.RequestIDKey, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		e := logging.Entry(c.Request.Context(), s.log).WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   status,
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		})
		if status >= http.StatusInternalServerError {
			e.Warn("HTTP request")
			return
		}
		e.Info("HTTP request")
	}
}

func (s *Server) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(route, c.Writer.Status(), time.Since(start))
	}
}
