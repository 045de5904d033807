// calibtrack is the calibration tolerance and computed-field engine CLI:
// formula checking, record evaluation, and fixture replay over a template
// database.
package main

import (
	"os"

	"github.com/calibtrack/calibtrack/go-engine/cmd/calibtrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
