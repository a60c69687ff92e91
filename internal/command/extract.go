// Package command turns chat messages into playground tasks.
package command

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/zebp/discord-rust-playground/internal/playground"
)

var (
	ErrNoCode            = errors.New("No code provided")
	ErrInvalidCodeFormat = errors.New("Code must be in a ```rust code block")
	ErrInvalidChannel    = errors.New("Provided rust channel does not exist, please use Stable, Beta, or Nightly")
)

// fence is the start of a Markdown code block.
const fence = "```"

// codeBlock captures everything between the first ```rust line and the last
// closing fence.
var codeBlock = regexp.MustCompile("(?s)```rust\r?\n(.*)```")

// Extractor recognises "!rust [channel] ```rust ...```" commands.
type Extractor struct {
	allow   *AllowList
	prefix  string
	command string
}

// NewExtractor creates an extractor for prefix+command, e.g. "!" and "rust".
func NewExtractor(allow *AllowList, prefix, command string) *Extractor {
	return &Extractor{allow: allow, prefix: prefix, command: command}
}

// Extract parses text sent in conversationID. ok is false when the message
// is not a command for this bot; err is set when it is a malformed one.
func (e *Extractor) Extract(conversationID, text string) (task playground.Task, ok bool, err error) {
	if !e.allow.Allows(conversationID) {
		return playground.Task{}, false, nil
	}
	args, ok := e.arguments(text)
	if !ok {
		return playground.Task{}, false, nil
	}
	task, err = parseArguments(args)
	return task, true, err
}

// arguments strips the prefix and command word, returning what follows.
func (e *Extractor) arguments(text string) (string, bool) {
	rest, found := strings.CutPrefix(strings.TrimLeftFunc(text, unicode.IsSpace), e.prefix)
	if !found {
		return "", false
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	rest, found = strings.CutPrefix(rest, e.command)
	if !found {
		return "", false
	}
	if rest != "" && !startsWithSpace(rest) {
		// "!rustacean" is somebody else's command.
		return "", false
	}
	return strings.TrimLeftFunc(rest, unicode.IsSpace), true
}

func parseArguments(args string) (playground.Task, error) {
	if args == "" {
		return playground.Task{}, ErrNoCode
	}

	channel := playground.Stable
	first, rest := splitToken(args)
	if !strings.HasPrefix(first, fence) {
		parsed, err := playground.ParseChannel(first)
		if err != nil {
			if !strings.Contains(args, fence) {
				return playground.Task{}, ErrInvalidCodeFormat
			}
			return playground.Task{}, ErrInvalidChannel
		}
		channel = parsed
		args = rest
	}

	if args == "" {
		return playground.Task{}, ErrNoCode
	}
	m := codeBlock.FindStringSubmatch(args)
	if m == nil {
		return playground.Task{}, ErrInvalidCodeFormat
	}
	code := m[1]
	if strings.TrimSpace(code) == "" {
		return playground.Task{}, ErrNoCode
	}

	return playground.NewTask(code, channel, playground.DetectCrateType(code))
}

// splitToken returns the text up to the first whitespace and the remainder
// with its leading whitespace removed.
func splitToken(s string) (string, string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}
