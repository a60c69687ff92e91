package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zebp/discord-rust-playground/internal/playground"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

// runner executes rust_run calls against one playground.
type runner struct {
	client    playground.Runner
	formatter *reply.Formatter
	logger    *zap.Logger
}

func main() {
	// stdout carries the MCP protocol; zap's production config logs to stderr.
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	r := &runner{
		client:    playground.NewClient(os.Getenv("PLAYGROUND_URL"), playground.WithLogger(logger)),
		formatter: reply.NewFormatter(reply.DefaultOptions()),
		logger:    logger,
	}

	s := server.NewMCPServer("playbot-playground", "0.1.0")
	s.AddTool(rustRunTool(), r.handleRustRun)

	if err := server.ServeStdio(s); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}

func rustRunTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rust_run",
		Description: "Compile and run Rust code on the Rust playground. Code with `fn main` runs as a program, anything else runs its #[test] functions.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Rust source code to run",
				},
				"channel": map[string]any{
					"type":        "string",
					"description": "Toolchain channel: stable (default), beta or nightly",
				},
				"crate_type": map[string]any{
					"type":        "string",
					"description": "Override crate type detection: bin or lib (optional)",
				},
			},
			Required: []string{"code"},
		},
	}
}

func (r *runner) handleRustRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return errResult("error: invalid arguments"), nil
	}

	code, _ := args["code"].(string)
	channelName, _ := args["channel"].(string)
	crateName, _ := args["crate_type"].(string)

	if code == "" {
		return errResult("error: 'code' is required"), nil
	}

	channel := playground.Stable
	if channelName != "" {
		c, err := playground.ParseChannel(channelName)
		if err != nil {
			return errResult(fmt.Sprintf("error: %v", err)), nil
		}
		channel = c
	}

	crateType := playground.DetectCrateType(code)
	if crateName != "" {
		ct, err := playground.ParseCrateType(crateName)
		if err != nil {
			return errResult(fmt.Sprintf("error: %v", err)), nil
		}
		crateType = ct
	}

	task, err := playground.NewTask(code, channel, crateType)
	if err != nil {
		return errResult(fmt.Sprintf("error: %v", err)), nil
	}

	var (
		link   string
		result *playground.ExecutionResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := r.client.CreateShareLink(gctx, task)
		link = l
		return err
	})
	g.Go(func() error {
		res, err := r.client.Execute(gctx, task)
		result = res
		return err
	})
	if err := g.Wait(); err != nil {
		r.logger.Warn("rust_run failed", zap.Error(err))
		return errResult(fmt.Sprintf("error: %v", err)), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: r.render(link, *result, crateType)}},
		IsError: !result.Success,
	}, nil
}

// render lays out the same sections the chat reply shows.
func (r *runner) render(link string, result playground.ExecutionResult, crateType playground.CrateType) string {
	embed := r.formatter.Success(link, result, crateType)

	var out strings.Builder
	out.WriteString("share: " + link + "\n")
	for _, f := range embed.Fields {
		value := strings.TrimSuffix(strings.TrimPrefix(f.Value, "```\n"), "```")
		out.WriteString(strings.ToUpper(f.Name) + ":\n" + value)
		if !strings.HasSuffix(value, "\n") {
			out.WriteString("\n")
		}
	}
	if !result.Success {
		out.WriteString("build or run failed\n")
	}
	return out.String()
}

func errResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
		IsError: true,
	}
}
