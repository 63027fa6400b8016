package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/fnplot"
)

var sampleFlags struct {
	xmin    float64
	xmax    float64
	samples int
	output  string
}

var sampleCmd = &cobra.Command{
	Use:   "sample EXPR",
	Short: "Print an expression's values over a domain",
	Long: `Sample EXPR at evenly spaced points from xmin to xmax inclusive and
print each point. Points where the expression is undefined show the
reason instead of a value.

Examples:
  fnplot sample 'x^2' --xmin -2 --xmax 2 --samples 5
  fnplot sample '1/x' -o json
  fnplot sample 'log(x)' --xmin 0 --xmax 10 -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: sample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().Float64Var(&sampleFlags.xmin, "xmin", -10, "start of the domain")
	sampleCmd.Flags().Float64Var(&sampleFlags.xmax, "xmax", 10, "end of the domain")
	sampleCmd.Flags().IntVarP(&sampleFlags.samples, "samples", "n", 0, "number of points (default from config)")
	sampleCmd.Flags().StringVarP(&sampleFlags.output, "output", "o", formatTable, "output format: table, json, yaml")
}

func sample(cmd *cobra.Command, args []string) error {
	if !knownFormat(sampleFlags.output) {
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", sampleFlags.output)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, err := fnplot.Parse(args[0], cfg.ParseOptions()...)
	if err != nil {
		return err
	}
	n := sampleFlags.samples
	if n == 0 {
		n = cfg.Sampling.DefaultSamples
	}
	pts, err := cfg.Sampler().SampleContext(cmd.Context(), e, sampleFlags.xmin, sampleFlags.xmax, n)
	if err != nil {
		return err
	}
	return writeSeries(cmd.OutOrStdout(), sampleFlags.output, pts)
}
