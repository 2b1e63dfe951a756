package askclient

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/okian/frcscout/pkg/logger"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	url     string
	timeout time.Duration
	verbose bool
}

// NewRoot builds the frc-ask command tree.
func NewRoot() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "frc-ask",
		Short:         "Chat with a running FRC scouting server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.url, "url", envOr("FRCSCOUT_URL", DefaultBaseURL), "Base URL of the scouting server")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", DefaultTimeout, "Per-request timeout")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Log progress to stderr")

	root.AddCommand(askCmd(flags), replCmd(flags), batchCmd(flags))
	return root
}

func (f *rootFlags) client(cmd *cobra.Command) (*Client, error) {
	opts := []Option{WithTimeout(f.timeout)}
	if f.verbose {
		if err := logger.InitWithOptions(logger.Options{Writer: cmd.ErrOrStderr()}); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		opts = append(opts, WithLogger(logger.Named("frc-ask")))
	}
	return New(f.url, opts...), nil
}

func askCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <text...>",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client(cmd)
			if err != nil {
				return err
			}
			reply, err := c.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}

func replCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive chat session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.client(cmd)
			if err != nil {
				return err
			}
			return c.REPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func batchCmd(flags *rootFlags) *cobra.Command {
	var (
		file    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Ask every question in a file concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.client(cmd)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open questions: %w", err)
				}
				defer f.Close()
				in = f
			}
			questions, err := ReadQuestions(in)
			if err != nil {
				return err
			}

			answers, stats, err := c.Batch(cmd.Context(), questions, workers)
			if werr := WriteAnswers(cmd.OutOrStdout(), answers); werr != nil {
				return werr
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d questions, %d ok, %d failed in %s\n",
				stats.Total, stats.Succeeded, stats.Failed, stats.Duration.Round(time.Millisecond))
			if err != nil {
				return err
			}
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d questions failed", stats.Failed, stats.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "File with one question per line (- for stdin)")
	cmd.Flags().IntVar(&workers, "workers", DefaultWorkers, "Concurrent requests")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
