package ses

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
)

// Message is the provider-agnostic email payload.
type Message struct {
	From     string
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// MarshalRaw renders the message as a multipart/alternative MIME message
// suitable for a raw SES send. The plain-text part comes first so clients
// without HTML support pick it up.
func (m Message) MarshalRaw() ([]byte, error) {
	if m.From == "" {
		return nil, fmt.Errorf("sender is required")
	}
	if m.To == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if m.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.From)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", encodeRFC2047(m.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", w.Boundary())
	buf.WriteString("\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", `text/plain; charset="UTF-8"`)
	part, err := w.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err := part.Write([]byte(m.TextBody)); err != nil {
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}

	if m.HTMLBody != "" {
		htmlHeader := textproto.MIMEHeader{}
		htmlHeader.Set("Content-Type", `text/html; charset="UTF-8"`)
		part, err := w.CreatePart(htmlHeader)
		if err != nil {
			return nil, fmt.Errorf("failed to create html part: %w", err)
		}
		if _, err := part.Write([]byte(m.HTMLBody)); err != nil {
			return nil, fmt.Errorf("failed to write html part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}

	return buf.Bytes(), nil
}

// encodeRFC2047 encodes a header value according to RFC 2047 when it
// contains non-ASCII characters.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}
	if !needsEncoding {
		return s
	}
	return mime.BEncoding.Encode("UTF-8", s)
}
