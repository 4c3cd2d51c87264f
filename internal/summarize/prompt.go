package summarize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/teemow/inboxdigest/internal/gmail"
)

// previewChars limits how much body text per message goes into the prompt.
const previewChars = 500

// buildPrompt renders one chunk of messages into the summarization prompt.
func buildPrompt(msgs []*gmail.Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a helpful assistant that summarizes newsletter emails.
Below are %d emails from the last 24 hours. Please provide a concise summary of the key information,
organized by topic or theme. Focus on actionable insights and important updates.

`, len(msgs))

	for i, m := range msgs {
		fmt.Fprintf(&b, "Email %d:\nFrom: %s\nSubject: %s\nDate: %s\nPreview: %s...\n\n",
			i+1, m.From, m.Subject, m.Date, preview(m.Body))
	}

	b.WriteString("Please provide a well-organized summary with clear sections and bullet points.")
	return b.String()
}

// preview cuts the body without splitting a rune; the model API rejects
// strings that are not valid UTF-8.
func preview(body string) string {
	if len(body) <= previewChars {
		return body
	}
	cut := previewChars
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}
