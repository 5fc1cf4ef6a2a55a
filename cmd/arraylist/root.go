package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/katemewow/arraylist/internal/app"
	"github.com/katemewow/arraylist/internal/config"
)

// cli holds the state shared by all commands.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "arraylist",
		Short: "Growable list container with a Lua scripting front end",
		Long: `arraylist runs Lua scripts against a resizable array list and reports
how the list's capacity grows under a growth policy.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to a .toml or .yaml configuration file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	flags.StringVar(&c.logFormat, "log-format", "", "log format (console, json)")

	root.AddCommand(
		c.newRunCmd(),
		c.newWatchCmd(),
		c.newGrowthCmd(),
		c.newVersionCmd(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}

	log, err := app.NewLogger(cfg.Log, c.stderr)
	if err != nil {
		return &usageError{err: err}
	}
	c.cfg = cfg
	c.log = log.With().Str("cmd", cmd.Name()).Logger()
	if c.configPath != "" {
		c.log.Debug().Str("path", c.configPath).Msg("configuration loaded")
	}
	return nil
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
