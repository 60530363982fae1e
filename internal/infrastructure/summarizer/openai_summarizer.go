// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package summarizer condenses raw transcript text with a chat completion
// model. Summarization is best effort; the pipeline stores the raw transcript
// whenever the model is unavailable.
package summarizer

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/logging"
)

const systemPrompt = "You are a meeting assistant. Summarize the following meeting transcript. " +
	"Capture the key discussion points, decisions, and action items. Keep the summary concise."

// IChatCompleter is the subset of the OpenAI client used by the summarizer.
type IChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAISummarizer summarizes transcripts through the chat completions API.
type OpenAISummarizer struct {
	client IChatCompleter
	model  string
}

var _ domain.Summarizer = (*OpenAISummarizer)(nil)

// NewOpenAISummarizer creates a summarizer backed by the given API key. When
// model is empty a default chat model is used.
func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAISummarizer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Summarize condenses the transcript text. On any failure the input is
// returned unchanged so transcript processing never blocks on the model.
func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) string {
	if text == "" {
		return text
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		slog.WarnContext(ctx, "transcript summarization failed, keeping raw transcript", logging.ErrKey, err)
		return text
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		slog.WarnContext(ctx, "transcript summarization returned no content, keeping raw transcript")
		return text
	}

	return resp.Choices[0].Message.Content
}

// NoopSummarizer passes transcript text through unchanged. Used when no model
// is configured.
type NoopSummarizer struct{}

var _ domain.Summarizer = (*NoopSummarizer)(nil)

// Summarize returns the input unchanged.
func (s *NoopSummarizer) Summarize(_ context.Context, text string) string {
	return text
}
