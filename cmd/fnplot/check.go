package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/fnplot"
)

var checkCmd = &cobra.Command{
	Use:   "check EXPR...",
	Short: "Show how expressions parse",
	Long: `Parse each EXPR and print it fully parenthesized, or mark where it
is invalid. The command fails if any expression is invalid.

Examples:
  fnplot check '-2^2' '2^3^2'
  fnplot check 'x ** 2 + sin(x)'`,
	Args: cobra.MinimumNArgs(1),
	RunE: check,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.ParseOptions()
	out := cmd.OutOrStdout()
	failed := 0
	for _, src := range args {
		fmt.Fprintln(out, src)
		e, err := fnplot.Parse(src, opts...)
		if err != nil {
			failed++
			var ierr fnplot.InputError
			if errors.As(err, &ierr) {
				fmt.Fprintf(out, "%s^\n", strings.Repeat(" ", ierr.Pos()-1))
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "= %v\n", e)
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d expressions are invalid", failed, len(args))
	}
	return nil
}
