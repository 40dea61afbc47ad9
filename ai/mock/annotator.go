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


// Package mock provides test doubles for the ai package.
package mock

import (
	"context"
	"sync"

	"github.com/openquill/answerbase/ai"
)

// MockAnnotator is a test double for ai.Annotator.
// By default it echoes each candidate title back with a canned explanation;
// set AnnotateFunc to inject custom behavior or failures.
type MockAnnotator struct {
	mu    sync.Mutex
	calls int

	// AnnotateFunc, when set, replaces the default behavior.
	AnnotateFunc func(ctx context.Context, query string, candidates []ai.Candidate) (*ai.Annotation, error)
}

var _ ai.Annotator = (*MockAnnotator)(nil)

// NewMockAnnotator creates a new mock annotator with default behavior.
func NewMockAnnotator() *MockAnnotator {
	return &MockAnnotator{}
}

// Annotate records the call and delegates to AnnotateFunc if set.
func (m *MockAnnotator) Annotate(ctx context.Context, query string, candidates []ai.Candidate) (*ai.Annotation, error) {
	m.mu.Lock()
	m.calls++
	fn := m.AnnotateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, query, candidates)
	}

	annotation := &ai.Annotation{Summary: "mock summary for " + query}
	for _, c := range candidates {
		annotation.Explanations = append(annotation.Explanations, ai.NodeExplanation{
			NodeTitle: c.Title,
			Relevance: "mock relevance for " + c.Title,
		})
	}
	return annotation, nil
}

// CallCount returns how many times Annotate was invoked.
func (m *MockAnnotator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
