package summarize

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxdigest/internal/gmail"
)

// fakeGenerator records prompts and answers from a script.
type fakeGenerator struct {
	prompts []string
	results []fakeResult
}

type fakeResult struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if call < len(f.results) {
		return f.results[call].text, f.results[call].err
	}
	return fmt.Sprintf("summary %d", call), nil
}

func testMessages(n int) []*gmail.Message {
	msgs := make([]*gmail.Message, n)
	for i := range msgs {
		msgs[i] = &gmail.Message{
			ID:      fmt.Sprintf("msg%d", i),
			From:    fmt.Sprintf("sender%d@example.com", i),
			Subject: fmt.Sprintf("subject %d", i),
			Date:    "Mon, 31 Aug 2026 08:00:00 +0000",
			Body:    fmt.Sprintf("body %d", i),
		}
	}
	return msgs
}

func TestSummarizeRequestCount(t *testing.T) {
	tests := []struct {
		name      string
		messages  int
		batchSize int
		wantCalls int
	}{
		{name: "fewer than one batch", messages: 3, batchSize: 5, wantCalls: 1},
		{name: "exact batches", messages: 10, batchSize: 5, wantCalls: 2},
		{name: "remainder batch", messages: 11, batchSize: 5, wantCalls: 3},
		{name: "batch of one", messages: 4, batchSize: 1, wantCalls: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			s := New(gen, tt.batchSize)

			_, err := s.Summarize(context.Background(), testMessages(tt.messages))
			require.NoError(t, err)
			assert.Len(t, gen.prompts, tt.wantCalls)
		})
	}
}

func TestSummarizePreservesChunkOrder(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{
		{text: "first section"},
		{text: "second section"},
		{text: "third section"},
	}}
	s := New(gen, 2)

	digest, err := s.Summarize(context.Background(), testMessages(5))
	require.NoError(t, err)

	first := strings.Index(digest, "first section")
	second := strings.Index(digest, "second section")
	third := strings.Index(digest, "third section")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestSummarizeFailedChunkGetsPlaceholder(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{
		{text: "good section"},
		{err: fmt.Errorf("model overloaded")},
		{text: "last section"},
	}}
	s := New(gen, 2)

	digest, err := s.Summarize(context.Background(), testMessages(6))
	require.NoError(t, err)

	assert.Contains(t, digest, "good section")
	assert.Contains(t, digest, "Summary unavailable for 2 message(s)")
	assert.Contains(t, digest, "last section")
	// The placeholder sits between the surviving sections.
	assert.Less(t, strings.Index(digest, "good section"), strings.Index(digest, "Summary unavailable"))
	assert.Less(t, strings.Index(digest, "Summary unavailable"), strings.Index(digest, "last section"))
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := New(&fakeGenerator{}, 5)

	_, err := s.Summarize(context.Background(), nil)
	require.Error(t, err)
}

func TestSummarizeDefaultBatchSize(t *testing.T) {
	gen := &fakeGenerator{}
	s := New(gen, 0)

	_, err := s.Summarize(context.Background(), testMessages(DefaultBatchSize+1))
	require.NoError(t, err)
	assert.Len(t, gen.prompts, 2)
}

func TestBuildPrompt(t *testing.T) {
	msgs := testMessages(2)
	msgs[0].Body = strings.Repeat("a", previewChars*2)

	prompt := buildPrompt(msgs)

	assert.Contains(t, prompt, "Below are 2 emails")
	assert.Contains(t, prompt, "From: sender0@example.com")
	assert.Contains(t, prompt, "Subject: subject 1")
	assert.Contains(t, prompt, "Date: Mon, 31 Aug 2026")
	// Preview is cut at previewChars.
	assert.NotContains(t, prompt, strings.Repeat("a", previewChars+1))
	assert.Contains(t, prompt, strings.Repeat("a", previewChars))
}

func TestBuildPromptPreviewKeepsValidUTF8(t *testing.T) {
	msgs := testMessages(1)
	// A two-byte rune straddles the preview cut.
	msgs[0].Body = strings.Repeat("a", previewChars-1) + "é" + strings.Repeat("b", previewChars)

	prompt := buildPrompt(msgs)

	assert.True(t, utf8.ValidString(prompt), "prompt must stay valid UTF-8")
	assert.Contains(t, prompt, strings.Repeat("a", previewChars-1)+"...")
	assert.NotContains(t, prompt, "é")
}

func TestChunkMessages(t *testing.T) {
	msgs := testMessages(7)

	chunks := chunkMessages(msgs, 3)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 3)
	assert.Len(t, chunks[2], 1)
	assert.Equal(t, "msg0", chunks[0][0].ID)
	assert.Equal(t, "msg6", chunks[2][0].ID)
}
