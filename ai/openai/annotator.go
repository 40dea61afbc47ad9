// Copyright 2026 Openquill
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openquill/answerbase/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Annotator implements ai.Annotator using OpenAI-compatible chat APIs.
//
// The model is forced through a function tool so the response shape is
// parseable without free-text scraping; if a model answers in plain content
// anyway, the content is fence-stripped and repaired before unmarshaling.
type Annotator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

var annotationTools = []llms.Tool{
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        annotationToolName,
			Description: "Report per-entry relevance explanations and an overall summary.",
			Parameters:  annotationParameters,
		},
	},
}

// newAnnotator is an internal constructor that returns the concrete type.
func newAnnotator(config *ai.Config) (*Annotator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Annotator{
		client:  client,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-annotator"),
	}, nil
}

// NewAnnotator creates an annotator using the provided configuration.
//
// Returns ai.Annotator interface to enforce abstraction.
func NewAnnotator(config *ai.Config) (ai.Annotator, error) {
	return newAnnotator(config)
}

// Annotate generates relevance explanations for ranked candidates.
func (a *Annotator) Annotate(ctx context.Context, query string, candidates []ai.Candidate) (*ai.Annotation, error) {
	if len(candidates) == 0 {
		return &ai.Annotation{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildUserPrompt(query, candidates))},
		},
	}

	response, err := a.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithTools(annotationTools),
		llms.WithToolChoice(llms.ToolChoice{
			Type:     "function",
			Function: &llms.FunctionReference{Name: annotationToolName},
		}),
	)
	if err != nil {
		a.logger.Error("failed to generate annotation", "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		return nil, fmt.Errorf("annotator: no choices returned from model")
	}

	raw := toolCallArguments(response.Choices[0])
	if raw == "" {
		// Some models ignore forced tool choice and answer in content.
		raw = stripFences(response.Choices[0].Content)
	}
	raw = repairJSON(raw)

	var annotation ai.Annotation
	if err := json.Unmarshal([]byte(raw), &annotation); err != nil {
		a.logger.Warn("error parsing annotation response", "response", raw, "err", err)
		return nil, err
	}

	a.logger.Debug("annotation generated",
		"candidates", len(candidates),
		"explanations", len(annotation.Explanations))
	return &annotation, nil
}

// toolCallArguments returns the first explain_relevance tool-call payload.
func toolCallArguments(choice *llms.ContentChoice) string {
	for _, call := range choice.ToolCalls {
		if call.FunctionCall != nil && call.FunctionCall.Name == annotationToolName {
			return call.FunctionCall.Arguments
		}
	}
	return ""
}

// stripFences removes markdown code fences around a JSON payload.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
