package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/fnplot"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func knownFormat(f string) bool {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return true
	}
	return false
}

// point is the encoded form of a sample point, the same shape the server's
// sample endpoint returns.
type point struct {
	X     float64  `json:"x" yaml:"x"`
	Y     *float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Error string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func points(pts []fnplot.SamplePoint) []point {
	r := make([]point, len(pts))
	for i, p := range pts {
		r[i].X = p.X
		if p.OK() {
			r[i].Y = &pts[i].Y
		} else {
			r[i].Error = p.Err.Error()
		}
	}
	return r
}

// writeSeries prints pts to w in the given format.
func writeSeries(w io.Writer, format string, pts []fnplot.SamplePoint) error {
	switch format {
	case formatTable:
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "x\ty")
		for _, p := range pts {
			y := "error: "
			if p.OK() {
				y = strconv.FormatFloat(p.Y, 'g', -1, 64)
			} else {
				y += p.Err.Error()
			}
			fmt.Fprintf(tw, "%s\t%s\n", strconv.FormatFloat(p.X, 'g', -1, 64), y)
		}
		return tw.Flush()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(points(pts))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(points(pts)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", format)
	}
}
