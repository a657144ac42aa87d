package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/padcollate/internal/envconfig"
)

const version = "v0.1.0"

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "padcollate",
		Short:         "Zero-pad and batch variable-length samples",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level:     envconfig.LogLevel(),
				AddSource: envconfig.Debug(),
			})
			slog.SetDefault(slog.New(handler))
		},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.AddCommand(
		newCollateCmd(),
		newInspectCmd(),
		newEnvCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "padcollate version %s\n", version)
		},
	}
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show supported environment variables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			vars := envconfig.AsMap()
			values := envconfig.Values()
			var rows [][]string
			for _, name := range []string{"PADCOLLATE_DEBUG", "PADCOLLATE_WORKERS", "PADCOLLATE_PREFETCH"} {
				rows = append(rows, []string{name, values[name], vars[name].Description})
			}
			renderTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"}, rows)
		},
	}
}
