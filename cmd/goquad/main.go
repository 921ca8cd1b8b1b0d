// Command goquad approximates definite integrals written in LaTeX.
//
//	goquad run --integral '\int_{1}^{4} \frac{6}{\sqrt{x}} dx' -n 4
//	goquad serve --addr :8080
//	goquad mcp --transport stdio
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
