// Package main is the entry point for the nlq CLI application.
// It provides natural-language querying over connected databases and
// uploaded documents via the NLP query engine service.
package main

import (
	"nlq/cli/cmd"
)

// main is the entry point for the nlq CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
