package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"sih-scout/internal/analyze"
	"sih-scout/internal/collect"
)

func main() {
	app := &cli.App{
		Name:  "sih-scout",
		Usage: "scrape SIH team registrations and chart their state/city distribution",
		Commands: []*cli.Command{
			collect.Command(),
			analyze.Command(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
