package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/odialipi/internal/cli"
	"codeberg.org/snonux/odialipi/internal/logging"
	"codeberg.org/snonux/odialipi/internal/models"
	"codeberg.org/snonux/odialipi/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cli.ApplyConfig(flags)
		logger := logging.New(os.Stderr, flags.LogLevel)
		return runCommand(cmd.Context(), args, flags, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, args []string, flags *cli.Flags, logger zerolog.Logger) error {
	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(flags.Provider, cli.GetAPIKey(flags.Provider))
		return lister.ListAvailableModels(ctx)
	}

	proc, err := processor.NewProcessor(ctx, flags, logger)
	if err != nil {
		return err
	}

	switch {
	case flags.BatchFile != "":
		return proc.ProcessBatch(ctx)
	case len(args) > 0:
		return proc.ProcessText(ctx, args[0])
	default:
		// No input provided - launch GUI mode by default
		return proc.RunGUIMode()
	}
}
