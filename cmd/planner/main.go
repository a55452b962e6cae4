// Command planner is the terminal client for the funeral planner server.
package main

import (
	"fmt"
	"os"

	"github.com/barjames/funeral-planner/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
