package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/katemewow/arraylist/internal/app"
	"github.com/katemewow/arraylist/internal/engine/store"
	"github.com/katemewow/arraylist/internal/report"
	"github.com/katemewow/arraylist/internal/watcher"
)

func (c *cli) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script> [args...]",
		Short: "Run a Lua script with the list module loaded",
		Long: `Run executes a Lua script. The script sees the global "list" module and
an "args" table holding the extra command line arguments. If the script sets
the global "result", its value is printed.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := app.NewRunner(c.cfg, c.log, app.WithScriptOutput(c.stdout))
			res, err := runner.Run(cmd.Context(), args[0], args[1:]...)
			if err != nil {
				return err
			}
			c.printResult(res)
			return nil
		},
	}
}

func (c *cli) printResult(res *app.Result) {
	if res.Value != nil {
		fmt.Fprintln(c.stdout, formatValue(res.Value))
	}
}

// formatValue renders a script result in Lua-like notation.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", val)
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = formatValue(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(val)
	}
}

func (c *cli) newWatchCmd() *cobra.Command {
	var debounce string

	cmd := &cobra.Command{
		Use:   "watch <script> [args...]",
		Short: "Re-run a script every time it changes",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if debounce != "" {
				if err := c.cfg.Set("watch.debounce", debounce); err != nil {
					return &usageError{err: err}
				}
			}

			path, scriptArgs := args[0], args[1:]
			w, err := watcher.New(path,
				watcher.WithDebounce(c.cfg.Watch.Debounce.Duration),
				watcher.WithLogger(app.WithComponent(c.log, "watcher")),
			)
			if err != nil {
				return err
			}

			runner := app.NewRunner(c.cfg, c.log, app.WithScriptOutput(c.stdout))
			runOnce := func() {
				res, err := runner.Run(cmd.Context(), path, scriptArgs...)
				if err != nil {
					// keep watching; the next save may fix it
					fmt.Fprintf(c.stderr, "Error: %v\n", err)
					return
				}
				c.printResult(res)
			}

			runOnce()
			err = w.Run(cmd.Context(), func(watcher.Event) { runOnce() })

			s := runner.Metrics().Snapshot()
			c.log.Info().
				Uint64("runs", s.Runs).
				Uint64("failures", s.Failures).
				Dur("avg", s.Avg()).
				Msg("watch finished")
			return err
		},
	}
	cmd.Flags().StringVar(&debounce, "debounce", "", "quiet period before re-running, e.g. 300ms")
	return cmd
}

type growthFlags struct {
	initial int
	count   int
	factor  float64
	max     int
	format  string
	plot    bool
}

func (c *cli) newGrowthCmd() *cobra.Command {
	var f growthFlags

	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Show how capacity grows while appending elements",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy := c.cfg.Policy()
			initial := c.cfg.List.InitialCapacity
			if cmd.Flags().Changed("initial") {
				initial = f.initial
			}
			if cmd.Flags().Changed("factor") {
				if f.factor <= 1 {
					return &usageError{err: fmt.Errorf("factor %g: must be greater than 1", f.factor)}
				}
				policy.Factor = f.factor
			}
			if cmd.Flags().Changed("max") {
				policy.Max = f.max
			}
			return c.growth(initial, f, policy)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.initial, "initial", 0, "initial capacity (default from configuration)")
	flags.IntVarP(&f.count, "count", "n", 100, "number of elements to append")
	flags.Float64Var(&f.factor, "factor", store.DefaultGrowthFactor, "growth factor (default from configuration)")
	flags.IntVar(&f.max, "max", 0, "maximum capacity (default from configuration)")
	flags.StringVarP(&f.format, "format", "o", "table", "output format (table, json)")
	flags.BoolVar(&f.plot, "plot", false, "draw the capacity chart even when stdout is not a terminal")
	return cmd
}

func (c *cli) growth(initial int, f growthFlags, policy store.GrowthPolicy) error {
	if f.format != "table" && f.format != "json" {
		return &usageError{err: fmt.Errorf("format %q: must be table or json", f.format)}
	}

	g, err := report.Simulate(initial, f.count, policy)
	if err != nil {
		if errors.Is(err, report.ErrInvalidCount) {
			return &usageError{err: err}
		}
		return err
	}
	c.log.Debug().
		Int("initial", initial).
		Int("count", f.count).
		Float64("factor", g.Policy.Factor).
		Int("reallocations", g.Reallocations()).
		Msg("growth simulated")

	if f.format == "json" {
		data, err := report.JSON(g)
		if err != nil {
			return err
		}
		_, err = c.stdout.Write(data)
		return err
	}

	tty := app.IsTerminal(c.stdout)
	if tty || f.plot {
		width := app.TerminalWidth(c.stdout, 80) - 12
		fmt.Fprintln(c.stdout, report.Chart(g, report.ChartOptions{Width: width, Height: 10}))
		fmt.Fprintln(c.stdout)
	}
	fmt.Fprintln(c.stdout, report.Table(g, lipgloss.NewRenderer(c.stdout)))
	return nil
}

func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  usageArgs(cobra.NoArgs),
		// no configuration needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(c.stdout, "arraylist %s\n", version)
			fmt.Fprintf(c.stdout, "Commit: %s\n", commit)
			fmt.Fprintf(c.stdout, "Built: %s\n", date)
		},
	}
}
