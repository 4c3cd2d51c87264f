package gmail

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// maxBodyChars limits how much body text is kept per message; the
	// summarizer only needs a preview, not the full newsletter.
	maxBodyChars = 1000

	// fallbackBody stands in for messages without a decodable text part.
	fallbackBody = "(no readable text content)"

	defaultSubject = "No Subject"
	defaultSender  = "Unknown"
	defaultDate    = "Unknown"
)

// Message is one fetched mail message. Body always holds usable text: the
// decoded plain-text part, or fallbackBody with FallbackReason set when
// nothing could be decoded.
type Message struct {
	ID      string
	From    string
	Subject string
	Date    string
	Body    string

	// FallbackReason is non-empty when Body is a placeholder.
	FallbackReason string
}

// IsFallback reports whether the body is a placeholder.
func (m *Message) IsFallback() bool {
	return m.FallbackReason != ""
}

// FallbackMessage returns a placeholder for a message that could not be
// retrieved at all. It still contributes to the digest so the run never
// drops a listed message silently.
func FallbackMessage(id, reason string) *Message {
	return &Message{
		ID:             id,
		From:           defaultSender,
		Subject:        defaultSubject,
		Date:           defaultDate,
		Body:           fallbackBody,
		FallbackReason: reason,
	}
}

// parseMessage converts a raw API message into a Message, never failing:
// missing headers get defaults and an undecodable body becomes a fallback.
func parseMessage(msg *gmail.Message) *Message {
	m := &Message{
		ID:      msg.Id,
		From:    defaultSender,
		Subject: defaultSubject,
		Date:    defaultDate,
	}

	if msg.Payload != nil {
		if v := headerValue(msg.Payload.Headers, "From"); v != "" {
			m.From = v
		}
		if v := headerValue(msg.Payload.Headers, "Subject"); v != "" {
			m.Subject = v
		}
		if v := headerValue(msg.Payload.Headers, "Date"); v != "" {
			m.Date = v
		}
	}

	body, err := extractBody(msg.Payload)
	if err != nil {
		m.Body = fallbackBody
		m.FallbackReason = err.Error()
		return m
	}

	m.Body = truncate(body, maxBodyChars)
	return m
}

// headerValue returns the first header with the given name.
func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// extractBody finds and decodes the plain-text body of a message payload.
// Multi-part messages are walked recursively; single-part messages carry
// the data on the payload itself.
func extractBody(payload *gmail.MessagePart) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("message has no payload")
	}

	var data string
	walkParts(payload, func(part *gmail.MessagePart) {
		if data == "" && part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			data = part.Body.Data
		}
	})

	// Single-part messages without an explicit text/plain MIME type still
	// carry their data at the top level.
	if data == "" && payload.Body != nil && payload.Body.Data != "" && len(payload.Parts) == 0 {
		data = payload.Body.Data
	}

	if data == "" {
		return "", fmt.Errorf("no text/plain part found")
	}

	decoded, err := decodeBody(data)
	if err != nil {
		return "", err
	}
	return decoded, nil
}

// decodeBody decodes base64url body data (RFC 4648), tolerating unpadded
// and standard-alphabet input.
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err == nil {
		return string(decoded), nil
	}
	decoded, err = base64.RawURLEncoding.DecodeString(data)
	if err == nil {
		return string(decoded), nil
	}
	decoded, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode message body: %w", err)
	}
	return string(decoded), nil
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// truncate cuts s to at most n bytes without splitting a rune, so the
// result is always valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
