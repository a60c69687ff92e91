// Package reply shapes playground results into chat replies.
package reply

// Embed is a structured chat reply: a titled card with ordered fields.
type Embed struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Color       int     `json:"color" yaml:"color"`
	Fields      []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field is a labelled section of an Embed.
type Field struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Inline bool   `json:"inline" yaml:"inline"`
}

const (
	Title = "Rust Playground"

	// SuccessColor and FailureColor are RGB values.
	SuccessColor = 0xDEA584
	FailureColor = 0xFF2323

	failureDescription = "Error occured while evaluating **Rust**."
)

// Failure builds the error reply for a failed command.
func Failure(message string) Embed {
	return Embed{
		Title:       Title,
		Description: failureDescription,
		Color:       FailureColor,
		Fields:      []Field{{Name: "Message", Value: message}},
	}
}
