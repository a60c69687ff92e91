package playground

import (
	"encoding/json"
	"errors"
)

const (
	// Mode is the build profile every task is compiled with.
	Mode = "debug"
	// Edition is the Rust edition every task is compiled with.
	Edition = "2018"
)

// ErrEmptyCode is returned by NewTask when there is nothing to run.
var ErrEmptyCode = errors.New("empty code")

// Task is a single snippet to compile and run. It is immutable once built.
type Task struct {
	channel   Channel
	crateType CrateType
	code      string
}

// NewTask builds a task for code. tests is derived from the crate type.
func NewTask(code string, channel Channel, crateType CrateType) (Task, error) {
	if code == "" {
		return Task{}, ErrEmptyCode
	}
	return Task{channel: channel, crateType: crateType, code: code}, nil
}

func (t Task) Channel() Channel     { return t.channel }
func (t Task) CrateType() CrateType { return t.crateType }
func (t Task) Code() string         { return t.code }

// Tests reports whether the playground runs the code under the test harness.
func (t Task) Tests() bool { return t.crateType == Library }

// executeRequest is the JSON body of POST /execute.
type executeRequest struct {
	Channel   Channel   `json:"channel"`
	Mode      string    `json:"mode"`
	Edition   string    `json:"edition"`
	CrateType CrateType `json:"crateType"`
	Tests     bool      `json:"tests"`
	Code      string    `json:"code"`
	Backtrace bool      `json:"backtrace"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(executeRequest{
		Channel:   t.channel,
		Mode:      Mode,
		Edition:   Edition,
		CrateType: t.crateType,
		Tests:     t.Tests(),
		Code:      t.code,
		Backtrace: false,
	})
}

// ExecutionResult is the playground's answer to an execute call.
type ExecutionResult struct {
	Success bool   `json:"success"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
}
