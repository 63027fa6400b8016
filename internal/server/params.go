package server

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/zephyrtronium/fnplot/internal/render"
)

// plotRequest holds the query parameters shared by the plot and sample
// endpoints.
type plotRequest struct {
	Expr      string   `query:"expr" validate:"required"`
	XMin      *float64 `query:"xmin" validate:"required,finite"`
	XMax      *float64 `query:"xmax" validate:"required,finite"`
	Samples   int      `query:"samples" validate:"gt=0"`
	Title     string   `query:"title" validate:"max=200"`
	Color     string   `query:"color" validate:"omitempty,hexcolor,len=4|len=7"`
	LineWidth float64  `query:"linewidth" validate:"gt=0,lte=20"`
	LineStyle string   `query:"linestyle" validate:"omitempty,oneof=solid dashed dotted"`
}

func (r *plotRequest) style() render.Style {
	return render.Style{
		Title:     r.Title,
		Color:     r.Color,
		LineWidth: r.LineWidth,
		LineStyle: r.LineStyle,
	}
}

// newValidator builds the validator for request parameters. Field names in
// its errors are query parameter names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})
	if err := v.RegisterValidation("finite", finite); err != nil {
		panic(err)
	}
	return v
}

func finite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// bind reads and validates the query. Empty parameters are treated as
// absent, and parameters the endpoint does not know are ignored.
func (s *Server) bind(c *gin.Context) (*plotRequest, error) {
	req := plotRequest{
		Expr:      c.Query("expr"),
		Samples:   s.cfg.Sampling.DefaultSamples,
		Title:     c.Query("title"),
		Color:     c.Query("color"),
		LineWidth: 2,
		LineStyle: c.Query("linestyle"),
	}
	bad := make(map[string]string)
	num := func(name string) (float64, bool) {
		v := c.Query(name)
		if v == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		switch {
		case errors.Is(err, strconv.ErrRange):
			bad[name] = "must be a finite number"
			return 0, false
		case err != nil:
			bad[name] = "must be a number"
			return 0, false
		}
		return f, true
	}
	if f, ok := num("xmin"); ok {
		req.XMin = &f
	}
	if f, ok := num("xmax"); ok {
		req.XMax = &f
	}
	if f, ok := num("linewidth"); ok {
		req.LineWidth = f
	}
	if v := c.Query("samples"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			bad["samples"] = "must be an integer"
		}
		req.Samples = n
	}

	var verrs validator.ValidationErrors
	if err := s.validate.Struct(&req); errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, ok := bad[fe.Field()]; !ok {
				bad[fe.Field()] = describe(fe)
			}
		}
	} else if err != nil {
		return nil, err
	}
	if _, ok := bad["expr"]; !ok {
		n := s.cfg.Limits.MaxExprLen
		if err := s.validate.Var(req.Expr, "max="+strconv.Itoa(n)); err != nil {
			bad["expr"] = fmt.Sprintf("must be at most %d characters", n)
		}
	}
	if len(bad) != 0 {
		return nil, &RequestError{Params: bad}
	}
	return &req, nil
}

// describe phrases a validation failure for clients.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "finite":
		return "must be a finite number"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "hexcolor", "len=4|len=7":
		return "must be a color like #rgb or #rrggbb"
	default:
		return "is invalid"
	}
}
