package main

import (
	"context"
	"fmt"
	"os"

	"spectres-crm/internal/app"
	"spectres-crm/internal/cli"
	"spectres-crm/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Help output must not require a database
	skipInit := len(os.Args) < 2
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" {
			skipInit = true
			break
		}
	}

	if !skipInit {
		a, err := app.New(context.Background(), config.Load())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			return 1
		}
		defer a.Close()
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
