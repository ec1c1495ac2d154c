// Package main is the robotbuilder command itself.
package main

import (
	"fmt"
	"os"

	rbcli "go.viam.com/robotbuilder/cli"
)

func main() {
	app := rbcli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
