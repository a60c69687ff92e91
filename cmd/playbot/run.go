package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zebp/discord-rust-playground/internal/bot"
	"github.com/zebp/discord-rust-playground/internal/playground"
)

var (
	channelFlag string
	libFlag     bool
	binFlag     bool
)

var runCmd = &cobra.Command{
	Use:   "run <file.rs>",
	Short: "Run a Rust file on the playground and print the reply",
	Long: `Run a Rust source file on the playground, bypassing chat parsing.
The crate type is detected from the code unless --lib or --bin is given.

Examples:
  playbot run hello.rs
  playbot run --channel nightly --lib tests.rs`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&channelFlag, "channel", "stable", "Toolchain channel (stable, beta, nightly)")
	runCmd.Flags().BoolVar(&libFlag, "lib", false, "Run as a test-harness library")
	runCmd.Flags().BoolVar(&binFlag, "bin", false, "Run as a program")
	runCmd.MarkFlagsMutuallyExclusive("lib", "bin")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	code, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	channel, err := playground.ParseChannel(channelFlag)
	if err != nil {
		return err
	}

	crateType := playground.DetectCrateType(string(code))
	switch {
	case libFlag:
		crateType = playground.Library
	case binFlag:
		crateType = playground.Binary
	}

	task, err := playground.NewTask(string(code), channel, crateType)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := &terminalReplier{w: os.Stdout}
	if err := a.bot.Evaluate(ctx, "cli", task, out); err != nil {
		return fmt.Errorf("running %s: %s", args[0], bot.UserMessage(err))
	}
	return nil
}
