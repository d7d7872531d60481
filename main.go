// The main package for the reviewpipe executable.
package main

import (
	"github.com/filmgrain/reviewpipe/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
