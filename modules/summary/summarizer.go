// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// summaryPrompt instructs the model to summarize in the article's own
// language, which matters for the Arabic-first catalog.
const summaryPrompt = "You are an editorial assistant. Summarize the following article " +
	"in 2-3 sentences, in the same language as the article. Return only the summary text."

// Summarizer condenses article content into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// UpstreamError reports a non-2xx response from the summary provider. The
// status is propagated to the admin client; the provider body never is.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("summary provider returned status %d", e.Status)
}

// openAISummarizer implements Summarizer against the OpenAI chat API.
type openAISummarizer struct {
	client openai.Client
	model  string
}

func newOpenAISummarizer(apiKey, model string, opts ...option.RequestOption) *openAISummarizer {
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &openAISummarizer{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}
}

func (s *openAISummarizer) Summarize(ctx context.Context, content string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summaryPrompt),
			openai.UserMessage(content),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{Status: apiErr.StatusCode}
		}
		return "", fmt.Errorf("summary completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary completion: no choices returned")
	}
	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("summary completion: empty response")
	}
	return summary, nil
}
