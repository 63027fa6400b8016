package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zephyrtronium/fnplot"
	"github.com/zephyrtronium/fnplot/internal/logging"
	"github.com/zephyrtronium/fnplot/internal/metrics"
)

// Error codes carried in failure bodies alongside the HTTP status.
const (
	CodeRequest  = 1000
	CodeLex      = 1001
	CodeParse    = 1002
	CodeNotFound = 1004
	CodeInternal = 1500
)

// Exception is the body of every failed response.
type Exception struct {
	Status  int    `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// RequestError indicates missing or malformed query parameters.
type RequestError struct {
	// Params maps each offending parameter to a description of the problem.
	Params map[string]string
}

func (err *RequestError) Error() string {
	names := make([]string, 0, len(err.Params))
	for name := range err.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("bad request parameters: ")
	for i, name := range names {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(err.Params[name])
	}
	return b.String()
}

// abort writes a failure body and stops the handler chain.
func abort(c *gin.Context, status, code int, msg string, details any) {
	c.AbortWithStatusJSON(status, Exception{
		Status:  status,
		Code:    code,
		Message: msg,
		Errors:  details,
	})
}

// fail maps err to a failure response. Input errors are the client's and
// become 400s; anything else is a 500 and is logged.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		reqErr *RequestError
		lexErr *fnplot.LexError
		inErr  fnplot.InputError
	)
	switch {
	case errors.As(err, &reqErr):
		s.metrics.Reject(metrics.ReasonRequest)
		abort(c, http.StatusBadRequest, CodeRequest, reqErr.Error(), reqErr.Params)
	case errors.As(err, &lexErr):
		s.metrics.Reject(metrics.ReasonLex)
		abort(c, http.StatusBadRequest, CodeLex, lexErr.Error(), gin.H{"pos": lexErr.Pos()})
	case errors.As(err, &inErr):
		s.metrics.Reject(metrics.ReasonParse)
		abort(c, http.StatusBadRequest, CodeParse, inErr.Error(), gin.H{"pos": inErr.Pos()})
	default:
		c.Error(err)
		logging.Entry(c.Request.Context(), s.log).WithError(err).Error("request failed")
		abort(c, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
	}
}
