// cmd/eqareport/main.go
package main

import (
	cmd "github.com/cardiacqa/eqareport/internal/cli"
)

// main starts the eqareport CLI by delegating to the cobra root command.
func main() {
	cmd.Execute()
}
