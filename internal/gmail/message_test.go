package gmail

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"

	gmail "google.golang.org/api/gmail/v1"
)

func encodeBody(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func textPart(body string) *gmail.MessagePart {
	return &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: encodeBody(body)},
	}
}

func TestParseMessageHeaders(t *testing.T) {
	msg := &gmail.Message{
		Id: "msg1",
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "Subject", Value: "Weekly Update"},
				{Name: "Date", Value: "Mon, 31 Aug 2026 08:00:00 +0000"},
			},
			Body: &gmail.MessagePartBody{Data: encodeBody("hello")},
		},
	}

	m := parseMessage(msg)

	if m.ID != "msg1" {
		t.Errorf("ID = %q, want %q", m.ID, "msg1")
	}
	if m.From != "Alice <alice@example.com>" {
		t.Errorf("From = %q", m.From)
	}
	if m.Subject != "Weekly Update" {
		t.Errorf("Subject = %q", m.Subject)
	}
	if m.Date != "Mon, 31 Aug 2026 08:00:00 +0000" {
		t.Errorf("Date = %q", m.Date)
	}
	if m.Body != "hello" {
		t.Errorf("Body = %q", m.Body)
	}
	if m.IsFallback() {
		t.Errorf("unexpected fallback: %q", m.FallbackReason)
	}
}

func TestParseMessageHeaderDefaults(t *testing.T) {
	msg := &gmail.Message{
		Id: "msg2",
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: encodeBody("body")},
		},
	}

	m := parseMessage(msg)

	if m.From != defaultSender {
		t.Errorf("From = %q, want %q", m.From, defaultSender)
	}
	if m.Subject != defaultSubject {
		t.Errorf("Subject = %q, want %q", m.Subject, defaultSubject)
	}
	if m.Date != defaultDate {
		t.Errorf("Date = %q, want %q", m.Date, defaultDate)
	}
}

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    string
		wantErr bool
	}{
		{
			name:    "top level body",
			payload: textPart("plain body"),
			want:    "plain body",
		},
		{
			name: "multipart with text part",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encodeBody("<p>html</p>")}},
					textPart("text body"),
				},
			},
			want: "text body",
		},
		{
			name: "nested multipart",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts:    []*gmail.MessagePart{textPart("nested text")},
					},
				},
			},
			want: "nested text",
		},
		{
			name: "unpadded base64url data",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("unpadded"))},
			},
			want: "unpadded",
		},
		{
			name: "standard base64 data",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: base64.StdEncoding.EncodeToString([]byte("std+encoded/data>"))},
			},
			want: "std+encoded/data>",
		},
		{
			name:    "nil payload",
			payload: nil,
			wantErr: true,
		},
		{
			name: "no text part",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encodeBody("<p>html only</p>")}},
				},
			},
			wantErr: true,
		},
		{
			name: "undecodable data",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: "!!!not-base64!!!"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractBody(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractBody() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("extractBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMessageFallback(t *testing.T) {
	msg := &gmail.Message{
		Id: "msg3",
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Broken"},
			},
			Body: &gmail.MessagePartBody{Data: "!!!not-base64!!!"},
		},
	}

	m := parseMessage(msg)

	if !m.IsFallback() {
		t.Fatal("expected fallback message")
	}
	if m.Body != fallbackBody {
		t.Errorf("Body = %q, want %q", m.Body, fallbackBody)
	}
	if m.Subject != "Broken" {
		t.Errorf("Subject = %q, headers should survive a body failure", m.Subject)
	}
}

func TestParseMessageTruncatesBody(t *testing.T) {
	long := strings.Repeat("x", maxBodyChars*2)
	msg := &gmail.Message{
		Id:      "msg4",
		Payload: textPart(long),
	}

	m := parseMessage(msg)

	if len(m.Body) != maxBodyChars {
		t.Errorf("len(Body) = %d, want %d", len(m.Body), maxBodyChars)
	}
	if m.IsFallback() {
		t.Errorf("truncation must not be a fallback: %q", m.FallbackReason)
	}
}

func TestParseMessageTruncationKeepsValidUTF8(t *testing.T) {
	// A two-byte rune straddles the cut; the dangling lead byte must be
	// dropped, not kept.
	long := strings.Repeat("a", maxBodyChars-1) + "é" + strings.Repeat("b", maxBodyChars)
	msg := &gmail.Message{
		Id:      "msg5",
		Payload: textPart(long),
	}

	m := parseMessage(msg)

	if !utf8.ValidString(m.Body) {
		t.Errorf("Body is not valid UTF-8: tail %q", m.Body[len(m.Body)-4:])
	}
	if len(m.Body) != maxBodyChars-1 {
		t.Errorf("len(Body) = %d, want %d", len(m.Body), maxBodyChars-1)
	}
	if !strings.HasSuffix(m.Body, "a") {
		t.Errorf("Body should end before the split rune, got tail %q", m.Body[len(m.Body)-4:])
	}
}
