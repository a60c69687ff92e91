package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/zebp/discord-rust-playground/internal/bot"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

var conversationFlag string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Try commands locally as if typed into a chat channel",
	Long: `Start an interactive console that treats each entry as a chat message
posted in --conversation. Replies are printed to the terminal.

A code block may span several lines; input is collected until the
fences are closed.

Examples:
  playbot console
  playbot console --conversation 1234567890`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().StringVar(&conversationFlag, "conversation", "", "Conversation id to post as (default: first configured channel)")
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	conversation := conversationFlag
	if conversation == "" {
		conversation = a.cfg.Channels[0]
	}

	fmt.Printf("playbot console\n")
	fmt.Printf("Conversation: %s | Playground: %s\n", conversation, a.cfg.Playground.BaseURL)
	fmt.Printf("Type /help for commands, /quit to exit\n\n")

	// Set up readline for input with history
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36m#" + conversation + ">\033[0m ",
		HistoryFile:     "/tmp/playbot_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	// Ctrl+C cancels the command in flight, not the console.
	var reqCancel context.CancelFunc
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			if reqCancel != nil {
				reqCancel()
			}
		}
	}()

	out := &terminalReplier{w: os.Stdout}
	var pending []string

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		if len(pending) == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "/") {
				if quit := handleConsoleCommand(trimmed, a.cfg.Channels); quit {
					return nil
				}
				continue
			}
		}

		pending = append(pending, line)
		text := strings.Join(pending, "\n")
		if !fencesClosed(text) {
			rl.SetPrompt("\033[90m...>\033[0m ")
			continue
		}
		pending = nil
		rl.SetPrompt("\033[36m#" + conversation + ">\033[0m ")

		reqCtx, cancel := context.WithCancel(context.Background())
		reqCancel = cancel
		err = a.bot.Handle(reqCtx, bot.Message{ConversationID: conversation, AuthorID: "console", Text: text}, out)
		cancel()
		reqCancel = nil

		if err == nil && !out.sent {
			fmt.Println("\033[90m(no reply: not a command for this bot)\033[0m")
		}
		out.sent = false
		fmt.Println()
	}
}

// fencesClosed reports whether every ``` has a partner.
func fencesClosed(text string) bool {
	return strings.Count(text, "```")%2 == 0
}

func handleConsoleCommand(input string, channels []string) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit", "/q":
		fmt.Println("Goodbye!")
		return true
	case "/channels":
		fmt.Println("Allowed channels:")
		for _, c := range channels {
			fmt.Printf("  %s\n", c)
		}
		fmt.Println()
	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /help      - Show this help")
		fmt.Println("  /channels  - List allowed channel patterns")
		fmt.Println("  /quit      - Exit")
		fmt.Println()
		fmt.Println("Anything else is posted as a chat message, e.g.")
		fmt.Println("  !rust beta ```rust")
		fmt.Println("  fn main() { println!(\"hi\"); }")
		fmt.Println("  ```")
		fmt.Println()
	default:
		fmt.Printf("Unknown command: %s (try /help)\n\n", input)
	}
	return false
}

// terminalReplier prints replies the way a chat client would show them.
type terminalReplier struct {
	w    io.Writer
	sent bool
}

func (t *terminalReplier) SendPlain(_ context.Context, _ string, text string) error {
	t.sent = true
	_, err := fmt.Fprintf(t.w, "\033[90m%s\033[0m\n", text)
	return err
}

func (t *terminalReplier) SendEmbed(_ context.Context, _ string, e reply.Embed) error {
	t.sent = true
	color := "\033[33m"
	if e.Color == reply.FailureColor {
		color = "\033[31m"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s┃ %s\033[0m\n", color, e.Title)
	fmt.Fprintf(&b, "%s┃\033[0m %s\n", color, e.Description)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "%s┃\033[0m \033[1m%s\033[0m\n", color, f.Name)
		for _, line := range strings.Split(strings.TrimSpace(f.Value), "\n") {
			fmt.Fprintf(&b, "%s┃\033[0m   %s\n", color, line)
		}
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}
