package reply

import (
	"fmt"
	"strings"

	"github.com/zebp/discord-rust-playground/internal/playground"
)

// Options tune output shaping to the playground's compiler output.
type Options struct {
	// MaxOutput is the most characters kept from stdout and stderr each.
	MaxOutput int `mapstructure:"max_output" yaml:"max_output"`
	// FailureMarker is the line rustc prints when a build fails.
	FailureMarker string `mapstructure:"failure_marker" yaml:"failure_marker"`
	// FailureSkipLines are dropped from the start of a failed build's stderr.
	FailureSkipLines int `mapstructure:"failure_skip_lines" yaml:"failure_skip_lines"`
	// BannerSkipLines are dropped from a successful binary build's stderr.
	BannerSkipLines int `mapstructure:"banner_skip_lines" yaml:"banner_skip_lines"`
}

// DefaultOptions match play.rust-lang.org.
func DefaultOptions() Options {
	return Options{
		MaxOutput:        900,
		FailureMarker:    "error: aborting due to previous error",
		FailureSkipLines: 1,
		BannerSkipLines:  3,
	}
}

// Formatter turns execution results into replies.
type Formatter struct {
	opts Options
}

// NewFormatter creates a Formatter. Zero-valued fields fall back to the
// defaults, except the skip counts, which may legitimately be zero.
func NewFormatter(opts Options) *Formatter {
	def := DefaultOptions()
	if opts.MaxOutput <= 0 {
		opts.MaxOutput = def.MaxOutput
	}
	if opts.FailureMarker == "" {
		opts.FailureMarker = def.FailureMarker
	}
	return &Formatter{opts: opts}
}

// Truncate cuts s to at most MaxOutput characters.
func (f *Formatter) Truncate(s string) string {
	if len(s) <= f.opts.MaxOutput {
		return s
	}
	n := 0
	for i := range s {
		if n == f.opts.MaxOutput {
			return s[:i]
		}
		n++
	}
	return s
}

// CleanStderr strips the compiler boilerplate around the diagnostics.
func (f *Formatter) CleanStderr(stderr string, crateType playground.CrateType) string {
	if before, _, failed := strings.Cut(stderr, f.opts.FailureMarker); failed {
		return skipLines(before, f.opts.FailureSkipLines)
	}

	switch crateType {
	case playground.Library:
		return stderr
	case playground.Binary:
		return skipLines(stderr, f.opts.BannerSkipLines)
	}
	return stderr
}

// Success builds the reply for a completed run.
func (f *Formatter) Success(shareLink string, result playground.ExecutionResult, crateType playground.CrateType) Embed {
	stdout := f.Truncate(result.Stdout)
	stderr := f.CleanStderr(f.Truncate(result.Stderr), crateType)

	e := Embed{
		Title:       Title,
		Description: fmt.Sprintf("Here is the code on the [Rust playground](%s).", shareLink),
		Color:       SuccessColor,
	}
	if stdout != "" {
		e.Fields = append(e.Fields, Field{Name: "Stdout", Value: codeBlock(stdout)})
	}
	if stderr != "" {
		e.Fields = append(e.Fields, Field{Name: "Stderr", Value: codeBlock(stderr)})
	}
	return e
}

func codeBlock(s string) string {
	return "```\n" + s + "```"
}

// skipLines drops the first n lines of s. A trailing newline does not start
// a new line, and "\r\n" endings are normalised to "\n".
func skipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if n >= len(lines) {
		return ""
	}
	lines = lines[n:]
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return strings.Join(lines, "\n")
}
