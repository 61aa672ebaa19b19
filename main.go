package main

import (
	"fmt"
	"os"

	"storefront_e2e/presentation/terminal"
)

func main() {
	app := terminal.NewApp(os.Stdout, os.Stderr, os.Getenv)
	if err := app.Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n", msg)
		}
		os.Exit(terminal.ExitCode(err))
	}
}
