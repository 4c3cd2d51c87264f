package ses

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeAPI) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-message-id")}, nil
}

func testMessage() Message {
	return Message{
		From:     "digest@example.com",
		To:       "me@example.com",
		Subject:  "Daily Newsletter Digest - 2026-08-31",
		TextBody: "the summary",
		HTMLBody: "<h2>the summary</h2>",
	}
}

func TestSend(t *testing.T) {
	api := &fakeAPI{}
	s, err := NewSender(context.Background(), "us-east-1", WithAPI(api))
	require.NoError(t, err)

	id, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "ses-message-id", id)

	require.Len(t, api.inputs, 1)
	input := api.inputs[0]
	assert.Equal(t, "digest@example.com", aws.ToString(input.FromEmailAddress))
	require.Len(t, input.Destination.ToAddresses, 1)
	assert.Equal(t, "me@example.com", input.Destination.ToAddresses[0])

	raw := string(input.Content.Raw.Data)
	assert.Contains(t, raw, "Subject: Daily Newsletter Digest - 2026-08-31")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "the summary")
	assert.Contains(t, raw, "<h2>the summary</h2>")
}

func TestSendProviderError(t *testing.T) {
	api := &fakeAPI{err: fmt.Errorf("rejected")}
	s, err := NewSender(context.Background(), "us-east-1", WithAPI(api))
	require.NoError(t, err)

	_, err = s.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestMarshalRaw(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr string
	}{
		{name: "valid", mutate: func(m *Message) {}},
		{name: "missing sender", mutate: func(m *Message) { m.From = "" }, wantErr: "sender is required"},
		{name: "missing recipient", mutate: func(m *Message) { m.To = "" }, wantErr: "recipient is required"},
		{name: "missing subject", mutate: func(m *Message) { m.Subject = "" }, wantErr: "subject is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := testMessage()
			tt.mutate(&msg)

			raw, err := msg.MarshalRaw()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			s := string(raw)
			assert.Contains(t, s, "From: digest@example.com\r\n")
			assert.Contains(t, s, "To: me@example.com\r\n")
			assert.Contains(t, s, "MIME-Version: 1.0")
			// Text part precedes the HTML part.
			assert.Less(t, strings.Index(s, "text/plain"), strings.Index(s, "text/html"))
		})
	}
}

func TestMarshalRawTextOnly(t *testing.T) {
	msg := testMessage()
	msg.HTMLBody = ""

	raw, err := msg.MarshalRaw()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "text/html")
}

func TestEncodeRFC2047(t *testing.T) {
	assert.Equal(t, "Plain subject", encodeRFC2047("Plain subject"))

	encoded := encodeRFC2047("Tägliche Zusammenfassung")
	assert.True(t, strings.HasPrefix(encoded, "=?UTF-8?"), "got %q", encoded)
}
