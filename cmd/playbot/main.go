package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "playbot",
	Short: "playbot - Rust playground chat bot",
	Long: `playbot runs Rust snippets posted in chat on the Rust playground and
replies with the program's output and a share link.

Post a command in an allowed channel:
  !rust ` + "```rust" + `
  fn main() { println!("hi"); }
  ` + "```" + `

An optional channel (stable, beta, nightly) may follow !rust.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ./playbot.yaml or ~/.playbot/playbot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
