package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/robotbuilder/config"
	"go.viam.com/robotbuilder/logging"
	"go.viam.com/robotbuilder/robots/fetch"
	"go.viam.com/robotbuilder/urdf"
	"go.viam.com/robotbuilder/virtualbase"
)

const fileOutputPerm = 0o644

func readConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String(configFlag); path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, errors.Wrapf(err, "reading config %q", path)
		}
	}
	if c.Bool(debugFlag) {
		cfg.Debug = true
	}
	return cfg, nil
}

// newLogger logs to the app's error writer so stdout only carries command output, and to the
// configured log file, if any. The returned func flushes the logger and closes the file.
func newLogger(c *cli.Context, cfg *config.Config) (logging.Logger, func() error) {
	logger := logging.NewBlankLogger("robotbuilder")
	logger.SetLevel(cfg.Level())
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))

	path := cfg.LogFilePath()
	if path == "" {
		return logger, logger.Sync
	}
	file := logging.NewFileAppender(path)
	logger.AddAppender(file)
	return logger, func() error {
		return multierr.Combine(logger.Sync(), file.Close())
	}
}

// LoadAction loads a description through the virtual base injector and prints its joints. The
// Fetch description, the default, must also carry every Fetch joint group.
func LoadAction(c *cli.Context) (err error) {
	cfg, err := readConfig(c)
	if err != nil {
		return err
	}
	logger, closeLogger := newLogger(c, cfg)
	defer multierr.AppendInvoke(&err, multierr.Invoke(closeLogger))

	id := c.Args().First()
	var model *urdf.Model
	if id == "" || id == fetch.URDF {
		model, err = fetch.Load(c.Context, cfg.Resolver(), logger.Sublogger("fetch"), cfg.InjectorOptions()...)
	} else {
		inj := virtualbase.NewInjector[*urdf.Model](cfg.Resolver(), fetch.Loader, logger.Sublogger("virtualbase"), cfg.InjectorOptions()...)
		model, err = inj.Load(c.Context, id)
	}
	if err != nil {
		return err
	}

	printf(c.App.Writer, "%s: %d links, %d degrees of freedom", model.Name(), len(model.Links()), len(model.DoF()))
	printJoints(c.App.Writer, model)
	return nil
}

func printJoints(w io.Writer, model *urdf.Model) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Joint", "Type", "Parent", "Child", "Axis", "Min", "Max"})
	rows := lo.Map(model.Joints(), func(j urdf.Joint, i int) table.Row {
		axis := ""
		if j.Type != urdf.FixedJoint {
			axis = fmt.Sprintf("%g %g %g", j.Axis.X, j.Axis.Y, j.Axis.Z)
		}
		lower, upper := "", ""
		if j.Type != urdf.FixedJoint {
			lower, upper = fmt.Sprintf("%g", j.Min), fmt.Sprintf("%g", j.Max)
		}
		return table.Row{i + 1, j.Name, j.Type, j.Parent, j.Child, axis, lower, upper}
	})
	t.AppendRows(rows)
	t.Render()
}

// InjectAction prints, or writes to --output, the given URDF file with a virtual base injected.
// A file that already has one is passed through unchanged.
func InjectAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("inject expects exactly one URDF file")
	}
	path := c.Args().First()
	//nolint:gosec
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc := string(source)
	if urdf.HasVirtualBase(doc) {
		warningf(c.App.ErrWriter, "%s already has a virtual base, leaving it unchanged", path)
	} else if doc, err = urdf.InjectVirtualBase(doc); err != nil {
		return errors.Wrapf(err, "patching %q", path)
	}

	if output := c.String(outputFlag); output != "" {
		if err := os.WriteFile(output, []byte(doc), fileOutputPerm); err != nil {
			return errors.Wrap(err, "failed to write output file")
		}
		printf(c.App.ErrWriter, "Wrote %s", output)
		return nil
	}
	_, err = io.WriteString(c.App.Writer, doc)
	return err
}

// GroupsAction prints the Fetch joint groups and the carry arm configuration.
func GroupsAction(c *cli.Context) error {
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Group", "Joints"})
	for _, group := range fetch.JointGroups() {
		joints, err := fetch.GroupJoints(group)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{group, strings.Join(joints, ", ")})
	}
	t.Render()

	conf := lo.Map(fetch.CarryArmConf(), func(v float64, _ int) string {
		return fmt.Sprintf("%g", v)
	})
	printf(c.App.Writer, "carry arm configuration: %s", strings.Join(conf, ", "))
	printf(c.App.Writer, "tool link: %s, gripper root: %s", fetch.ToolLink, fetch.GripperRoot)
	return nil
}
