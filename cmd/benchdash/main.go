// cmd/benchdash/main.go
package main

import (
	cmd "github.com/solverlab/benchdash/internal/commands"
)

// main starts the benchdash CLI application by delegating to the
// cobra root command defined in the benchdash package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
