package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/linvoke/internal/examples"
	"github.com/dshills/linvoke/internal/logging"
	"github.com/dshills/linvoke/internal/script"
	"github.com/dshills/linvoke/internal/watch"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Wire a script and perform its emits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}

			report, err := opts.runner(cmd.OutOrStdout()).Run(cmd.Context(), s)
			if err != nil {
				return err
			}
			return reportErrors(cmd.ErrOrStderr(), report)
		},
	}
}

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <script>",
		Short: "Wire a script without emitting and show its channels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}

			report, err := opts.runner(io.Discard).Inspect(s)
			if err != nil {
				return err
			}
			renderChannels(cmd.OutOrStdout(), report)
			return reportErrors(cmd.ErrOrStderr(), report)
		},
	}
}

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <script>",
		Short: "Run a script and run it again whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watch.New(args[0],
				watch.WithDelay(opts.cfg.Watch.Debounce),
				watch.WithLogger(logging.GetLogger("watch")),
			)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := opts.runner(cmd.OutOrStdout())
			return w.Run(ctx, func(ctx context.Context, c watch.Change) error {
				s, err := script.Load(c.Path)
				if err != nil {
					return err
				}
				report, err := runner.Run(ctx, s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "run %d (%s): %d emits, %d deliveries, %d errors\n",
					c.Seq, c.Op, report.Emits, report.Deliveries, len(report.Errors))
				return report.Err()
			})
		},
	}
}

func newExampleCmd(opts *options) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "example [name...]",
		Short: "Run bundled example programs",
		Long:  "Run the named examples, or all of them when no name is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, e := range examples.All() {
					fmt.Fprintf(out, "%-26s %s\n", e.Name, e.Description)
				}
				return nil
			}

			var selected []examples.Example
			if len(args) == 0 {
				selected = examples.All()
			}
			for _, name := range args {
				e, err := examples.Lookup(name)
				if err != nil {
					return err
				}
				selected = append(selected, e)
			}

			registryOpts := opts.cfg.RegistryOptions(logging.GetLogger("event"))
			for i, e := range selected {
				if len(selected) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "# %s\n", e.Name)
				}
				if err := e.Run(out, registryOpts...); err != nil {
					return fmt.Errorf("example %s: %w", e.Name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List examples instead of running them")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "linvoke %s (commit %s, built %s)\n", Version, Commit, Date)
		},
	}
}

// runner builds a script runner from the loaded configuration.
func (o *options) runner(out io.Writer) *script.Runner {
	logger := logging.GetLogger("script")
	return script.NewRunner(out,
		script.WithLogger(logger),
		script.WithRegistryOptions(o.cfg.RegistryOptions(logger)...),
	)
}

// reportErrors prints the errors collected by a non-strict run.
func reportErrors(w io.Writer, report *script.Report) error {
	if len(report.Errors) == 0 {
		return nil
	}
	for _, err := range report.Errors {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return fmt.Errorf("script %s: %d errors", report.Script, len(report.Errors))
}
