package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zephyrtronium/fnplot"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// series binds the request, parses its expression, and samples it. On
// failure it writes the error response and returns ok == false.
func (s *Server) series(c *gin.Context) (req *plotRequest, pts []fnplot.SamplePoint, ok bool) {
	req, err := s.bind(c)
	if err != nil {
		s.fail(c, err)
		return nil, nil, false
	}
	e, err := fnplot.Parse(req.Expr, s.opts...)
	if err != nil {
		s.fail(c, err)
		return nil, nil, false
	}
	pts, err = s.sampler.SampleContext(c.Request.Context(), e, *req.XMin, *req.XMax, req.Samples)
	if err != nil {
		s.fail(c, err)
		return nil, nil, false
	}
	s.metrics.ObserveSeries(pts)
	return req, pts, true
}

func (s *Server) plot(c *gin.Context) {
	req, pts, ok := s.series(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, pts, req.style()); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Cache-Control", s.cfg.Render.CacheControl)
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// point is the JSON form of a sample point. Exactly one of Y and Error is
// present.
type point struct {
	X     float64  `json:"x"`
	Y     *float64 `json:"y,omitempty"`
	Error string   `json:"error,omitempty"`
}

func (s *Server) sample(c *gin.Context) {
	_, pts, ok := s.series(c)
	if !ok {
		return
	}
	r := make([]point, len(pts))
	for i, p := range pts {
		r[i].X = p.X
		if p.OK() {
			r[i].Y = &pts[i].Y
		} else {
			r[i].Error = p.Err.Error()
		}
	}
	c.Header("Cache-Control", s.cfg.Render.CacheControl)
	c.JSON(http.StatusOK, r)
}
