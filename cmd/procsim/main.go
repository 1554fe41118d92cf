// Command procsim runs the concurrent process lifecycle simulator.
package main

import (
	"os"

	"github.com/tessro/procsim/internal/cli"
)

func main() {
	// cobra has already printed the error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
