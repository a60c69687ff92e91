package playground

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in   string
		want Channel
	}{
		{"stable", Stable},
		{"Beta", Beta},
		{"NIGHTLY", Nightly},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChannel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseChannel("foo")
	assert.Error(t, err)
}

func TestChannelMarshalText(t *testing.T) {
	for _, c := range Channels {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Channel
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	_, err := Channel(42).MarshalText()
	assert.Error(t, err)
}

func TestDetectCrateType(t *testing.T) {
	assert.Equal(t, Binary, DetectCrateType("fn main() { println!(\"hi\"); }"))
	assert.Equal(t, Library, DetectCrateType("#[test]\nfn t() { assert!(true); }"))
	assert.Equal(t, Library, DetectCrateType("pub fn add(a: i32, b: i32) -> i32 { a + b }"))
}

func TestParseCrateType(t *testing.T) {
	got, err := ParseCrateType("BIN")
	require.NoError(t, err)
	assert.Equal(t, Binary, got)

	got, err = ParseCrateType("library")
	require.NoError(t, err)
	assert.Equal(t, Library, got)

	_, err = ParseCrateType("dylib")
	assert.Error(t, err)
}

func TestTaskJSON(t *testing.T) {
	t.Run("library runs tests", func(t *testing.T) {
		task, err := NewTask("#[test]\nfn t() {}", Beta, Library)
		require.NoError(t, err)

		data, err := json.Marshal(task)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"channel": "beta",
			"mode": "debug",
			"edition": "2018",
			"crateType": "lib",
			"tests": true,
			"code": "#[test]\nfn t() {}",
			"backtrace": false
		}`, string(data))
	})

	t.Run("binary does not", func(t *testing.T) {
		task, err := NewTask("fn main() {}", Nightly, Binary)
		require.NoError(t, err)
		assert.False(t, task.Tests())

		data, err := json.Marshal(task)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"crateType":"bin"`)
		assert.Contains(t, string(data), `"tests":false`)
	})

	t.Run("invalid channel fails to encode", func(t *testing.T) {
		task, err := NewTask("fn main() {}", Channel(7), Binary)
		require.NoError(t, err)
		_, err = json.Marshal(task)
		assert.Error(t, err)
	})
}

func TestNewTaskEmptyCode(t *testing.T) {
	_, err := NewTask("", Stable, Binary)
	assert.ErrorIs(t, err, ErrEmptyCode)
}
