package digest

import (
	"fmt"
	"html"
	"time"

	"github.com/teemow/inboxdigest/internal/ses"
)

const footer = "This is an automated digest from your newsletter subscriptions."

// Compose builds the digest email from the summary text. The digest is
// consumed exactly once by the sender and carries both a plain-text and an
// HTML rendering.
func Compose(summary, from, to string, now time.Time) ses.Message {
	subject := fmt.Sprintf("Daily Newsletter Digest - %s", now.Format("2006-01-02"))

	text := fmt.Sprintf("%s\n\n%s\n\n---\n%s\n", subject, summary, footer)

	htmlBody := fmt.Sprintf(`<html>
  <head></head>
  <body>
    <h2>%s</h2>
    <div style="white-space: pre-wrap; font-family: Arial, sans-serif;">
%s
    </div>
    <hr>
    <p style="color: #666; font-size: 12px;">
      %s
    </p>
  </body>
</html>
`, html.EscapeString(subject), html.EscapeString(summary), footer)

	return ses.Message{
		From:     from,
		To:       to,
		Subject:  subject,
		TextBody: text,
		HTMLBody: htmlBody,
	}
}
