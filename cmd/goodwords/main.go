package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SimonScharf/GoodWordsDictionary/internal/cli"
	"github.com/SimonScharf/GoodWordsDictionary/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, func(cmd *cobra.Command, name string, args []string) error {
		return runCommand(cmd, name, args, flags)
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, name string, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	cfg, err := processor.ConfigFromViper(flags)
	if err != nil {
		return err
	}

	proc, err := processor.NewProcessor(ctx, cfg)
	if err != nil {
		return err
	}
	defer proc.Close()

	switch name {
	case "today":
		_, err = proc.Today(ctx)
	case "stats":
		_, err = proc.Stats(ctx)
	case "history":
		proc.History(ctx)
	case "clear-history":
		_, err = proc.ClearHistory(ctx, flags.Archive)
	case "list":
		_, err = proc.List(ctx)
	case "add":
		definition := ""
		if len(args) > 1 {
			definition = args[1]
		}
		_, _, err = proc.AddWord(ctx, args[0], definition, !flags.NoAutoFetch)
	case "import":
		_, err = proc.ImportBatch(ctx, args[0])
	case "export":
		_, err = proc.ExportAnki(ctx, args[0])
	case "define":
		_, err = proc.Define(ctx, args[0])
	case "serve":
		err = proc.Serve(ctx)
	default:
		err = fmt.Errorf("unknown command: %s", name)
	}
	return err
}
