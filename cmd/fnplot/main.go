// Command fnplot plots functions of one variable.
//
// Usage:
//
//	# Serve the plot API
//	fnplot serve --config fnplot.yaml
//
//	# Print a series
//	fnplot sample 'sin(x)/x' --xmin -10 --xmax 10 --samples 21 -o yaml
//
//	# Show how expressions parse
//	fnplot check '-2^2' '2^3^2'
package main

func main() {
	Execute()
}
