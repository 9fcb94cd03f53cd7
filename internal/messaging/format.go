package messaging

import (
	"github.com/muesli/reflow/wordwrap"
)

// wrap word-wraps text to width, preserving ANSI escape sequences. A width
// of zero leaves text untouched.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}
