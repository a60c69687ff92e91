package main

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zebp/discord-rust-playground/internal/playground"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

type stubClient struct {
	result  playground.ExecutionResult
	err     error
	gotTask playground.Task
}

func (s *stubClient) CreateShareLink(_ context.Context, task playground.Task) (string, error) {
	return "https://play.example/?gist=7", nil
}

func (s *stubClient) Execute(_ context.Context, task playground.Task) (*playground.ExecutionResult, error) {
	s.gotTask = task
	if s.err != nil {
		return nil, s.err
	}
	return &s.result, nil
}

func call(t *testing.T, r *runner, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = "rust_run"
	req.Params.Arguments = args
	res, err := r.handleRustRun(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func newRunner(c playground.Runner) *runner {
	return &runner{client: c, formatter: reply.NewFormatter(reply.DefaultOptions()), logger: zap.NewNop()}
}

func TestRustRun(t *testing.T) {
	stub := &stubClient{result: playground.ExecutionResult{Success: true, Stdout: "hi\n"}}
	res := call(t, newRunner(stub), map[string]any{"code": "fn main() {}", "channel": "Nightly"})

	assert.False(t, res.IsError)
	out := text(t, res)
	assert.Contains(t, out, "share: https://play.example/?gist=7")
	assert.Contains(t, out, "STDOUT:\nhi\n")
	assert.Equal(t, playground.Nightly, stub.gotTask.Channel())
	assert.Equal(t, playground.Binary, stub.gotTask.CrateType())
}

func TestRustRunCrateOverride(t *testing.T) {
	stub := &stubClient{result: playground.ExecutionResult{Success: false, Stderr: "x\nbad\nerror: aborting due to previous error"}}
	res := call(t, newRunner(stub), map[string]any{"code": "fn main() {}", "crate_type": "lib"})

	assert.True(t, res.IsError)
	assert.Equal(t, playground.Library, stub.gotTask.CrateType())
	assert.True(t, stub.gotTask.Tests())
	assert.Contains(t, text(t, res), "STDERR:\nbad\n")
}

func TestRustRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		err  error
		want string
	}{
		{"missing code", map[string]any{}, nil, "'code' is required"},
		{"bad channel", map[string]any{"code": "x", "channel": "alpha"}, nil, "unknown channel"},
		{"bad crate type", map[string]any{"code": "x", "crate_type": "dylib"}, nil, "unknown crate type"},
		{"playground down", map[string]any{"code": "x"}, &playground.RequestError{Op: "execute", Err: errors.New("refused")}, "refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, newRunner(&stubClient{err: tt.err}), tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(t, res), tt.want)
		})
	}
}
