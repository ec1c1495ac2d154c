// Package cli contains the robotbuilder command line actions.
package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"go.viam.com/robotbuilder/robots/fetch"
)

const (
	configFlag = "config"
	debugFlag  = "debug"
	outputFlag = "output"
)

// NewApp returns the robotbuilder CLI application writing to out and errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "robotbuilder",
		Usage:           "load robot descriptions with a planar virtual base",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "load a robot description, adding a virtual base if it has none, and list its joints",
				ArgsUsage: "[description]",
				Description: fmt.Sprintf("description is resolved against the configured model paths; "+
					"it defaults to %s", fetch.URDF),
				Action: LoadAction,
			},
			{
				Name:      "inject",
				Usage:     "print a URDF file with the virtual base injected",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    outputFlag,
						Aliases: []string{"o"},
						Usage:   "write the patched document to `FILE` instead of stdout",
					},
				},
				Action: InjectAction,
			},
			{
				Name:   "groups",
				Usage:  "list the Fetch joint groups and carry configuration",
				Action: GroupsAction,
			},
		},
	}
}

// printf prints a message with no decoration.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	printf(w, format, a...)
}
