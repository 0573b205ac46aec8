package gateway

import "strings"

// Outcome is the result of one gateway call: either non-empty text or
// unavailable. Callers treat every unavailable outcome the same way.
type Outcome struct {
	text string
	ok   bool
}

// Unavailable is the outcome for any failure or missing backend.
var Unavailable = Outcome{}

// Reply wraps text as an outcome. Text that trims to nothing is unavailable.
func Reply(text string) Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unavailable
	}
	return Outcome{text: text, ok: true}
}

// Text returns the reply text and whether the outcome carries one.
func (o Outcome) Text() (string, bool) {
	return o.text, o.ok
}

// Available reports whether the outcome carries text.
func (o Outcome) Available() bool {
	return o.ok
}
