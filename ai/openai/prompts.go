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
	"fmt"
	"strings"

	"github.com/openquill/answerbase/ai"
)

const annotationToolName = "explain_relevance"

const systemPrompt = `You are a search assistant for a knowledge base.
You are given a user's question and a numbered list of knowledge-base entries
that were already ranked as the best matches.

Your job:
1. For each entry, write one short sentence explaining why it is relevant to
   the user's question.
2. Write one short overall summary (two sentences at most) of what the
   entries collectively say about the question.

Rules:
- Use ONLY the supplied entry titles, keywords, and summaries. Never invent
  facts that are not in the supplied content.
- Refer to entries by their exact title.
- Respond by calling the explain_relevance function.`

// annotationParameters is the JSON schema for the explain_relevance tool.
var annotationParameters = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary": map[string]any{
			"type":        "string",
			"description": "Short overall summary of what the entries say about the question.",
		},
		"explanations": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"node_title": map[string]any{
						"type":        "string",
						"description": "Exact title of the entry being explained.",
					},
					"relevance": map[string]any{
						"type":        "string",
						"description": "One sentence on why this entry answers the question.",
					},
				},
				"required":             []string{"node_title", "relevance"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"summary", "explanations"},
	"additionalProperties": false,
}

// buildUserPrompt renders the query and candidate list for the model.
func buildUserPrompt(query string, candidates []ai.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nEntries:\n", query)
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. Title: %s\n", i+1, c.Title)
		if c.Keywords != "" {
			fmt.Fprintf(&b, "   Keywords: %s\n", c.Keywords)
		}
		if c.Summary != "" {
			fmt.Fprintf(&b, "   Summary: %s\n", c.Summary)
		}
	}
	return b.String()
}
