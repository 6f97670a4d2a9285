package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/newsletter-agent/internal/types"
)

// fakeClient is a canned-response Client for synthesis tests.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func testDocs() []types.ScrapedDocument {
	return []types.ScrapedDocument{
		{Title: "Go Channels Explained", URL: "https://example.com/channels", Content: "Channels synchronize goroutines."},
		{Title: "Channel Internals", URL: "https://example.com/internals", Content: "The hchan struct holds the buffer."},
	}
}

func TestSynthesize_Success(t *testing.T) {
	client := &fakeClient{
		response: `{"title": "Inside Go Channels", "summary": "Channels are typed conduits.", "references": [{"title": "Go Channels Explained", "url": "https://example.com/channels"}]}`,
	}

	report, err := Synthesize(context.Background(), client, "Go channels", testDocs())
	require.NoError(t, err)
	assert.Equal(t, "Inside Go Channels", report.Title)
	assert.Equal(t, "Channels are typed conduits.", report.Summary)
	require.Len(t, report.References, 1)
	assert.Equal(t, "https://example.com/channels", report.References[0].URL)
}

func TestSynthesize_PromptContainsTopicAndArticles(t *testing.T) {
	client := &fakeClient{
		response: `{"title": "t", "summary": "s", "references": []}`,
	}

	_, err := Synthesize(context.Background(), client, "Go channels", testDocs())
	require.NoError(t, err)
	require.Len(t, client.prompts, 1)

	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Go channels")
	assert.Contains(t, prompt, "[Article 1]: Go Channels Explained")
	assert.Contains(t, prompt, "[Article 2]: Channel Internals")
	assert.Contains(t, prompt, "https://example.com/internals")
	assert.NotContains(t, prompt, "{{.Topic}}", "placeholders must be substituted")
}

func TestSynthesize_StripsMarkdownFences(t *testing.T) {
	client := &fakeClient{
		response: "```json\n{\"title\": \"t\", \"summary\": \"s\", \"references\": []}\n```",
	}

	report, err := Synthesize(context.Background(), client, "topic", testDocs())
	require.NoError(t, err)
	assert.Equal(t, "t", report.Title)
}

func TestSynthesize_RejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "missing summary", response: `{"title": "t", "references": []}`},
		{name: "empty title", response: `{"title": "", "summary": "s", "references": []}`},
		{name: "reference missing url", response: `{"title": "t", "summary": "s", "references": [{"title": "r"}]}`},
		{name: "not json", response: "I could not produce JSON today."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: tt.response}
			_, err := Synthesize(context.Background(), client, "topic", testDocs())
			require.Error(t, err)
		})
	}
}

func TestSynthesize_GenerationError(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("quota exceeded")}

	_, err := Synthesize(context.Background(), client, "topic", testDocs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSynthesize_NoDocuments(t *testing.T) {
	client := &fakeClient{}
	_, err := Synthesize(context.Background(), client, "topic", nil)
	require.Error(t, err)
	assert.Empty(t, client.prompts)
}

func TestBuildSynthesisPrompt_TruncatesLongArticles(t *testing.T) {
	docs := []types.ScrapedDocument{
		{Title: "Long", URL: "https://example.com/long", Content: strings.Repeat("a", maxArticleChars+500)},
	}

	prompt := buildSynthesisPrompt("topic", docs)
	assert.Contains(t, prompt, strings.Repeat("a", maxArticleChars))
	assert.NotContains(t, prompt, strings.Repeat("a", maxArticleChars+1))
}
