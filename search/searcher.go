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


// Package search ranks published nodes against free-text queries and
// category filters, with optional best-effort enrichment.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/openquill/answerbase/ai"
	"github.com/openquill/answerbase/core"
	"github.com/openquill/answerbase/storage"
)

const (
	// maxCandidates is the internal over-fetch ceiling: ranking cost is
	// bounded by scoring at most this many candidates per search.
	maxCandidates = 50

	// maxLimit and defaultLimit clamp the caller's requested result count.
	maxLimit     = 50
	defaultLimit = 10

	noResultsGuidance = "No results found. Try rephrasing your question."
)

// Recorder receives analytics events. Calls must never block the search
// path; implementations are fire-and-forget.
type Recorder interface {
	RecordSearch(query string, resultIDs []string, took time.Duration)
}

// Request is one search invocation.
type Request struct {
	Query    string
	Category string
	Limit    int
}

// ResultNode is the caller-facing projection of a ranked node. Internal
// ranking scores and the raw search blob are never exposed.
type ResultNode struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Layer1    string `json:"layer1,omitempty"`
	Category  string `json:"category,omitempty"`
	Relevance string `json:"relevance,omitempty"`
}

// Response is an ordered result set plus an optional user-facing summary.
// Summary carries the enrichment summary when available, or guidance text
// when nothing matched.
type Response struct {
	Nodes   []ResultNode `json:"nodes"`
	Summary string       `json:"summary,omitempty"`
}

// Searcher orchestrates candidate fetch, scoring, and enrichment.
type Searcher struct {
	nodes     storage.NodeRepository
	annotator ai.Annotator
	recorder  Recorder
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithAnnotator enables best-effort enrichment of search results.
func WithAnnotator(annotator ai.Annotator) Option {
	return func(s *Searcher) {
		s.annotator = annotator
	}
}

// WithRecorder enables fire-and-forget analytics recording.
func WithRecorder(recorder Recorder) Option {
	return func(s *Searcher) {
		s.recorder = recorder
	}
}

// WithLogger sets the logger used by the searcher.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// NewSearcher creates a Searcher reading from the given repository.
func NewSearcher(nodes storage.NodeRepository, opts ...Option) *Searcher {
	s := &Searcher{
		nodes:  nodes,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "searcher")
	return s
}

// Search runs one query. A storage failure is the only hard error path;
// enrichment and analytics failures degrade to an unannotated response.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	query := strings.TrimSpace(req.Query)
	category := strings.TrimSpace(req.Category)
	if query == "" && category == "" {
		return nil, ErrEmptyQuery
	}

	candidates, err := s.nodes.ListNodes(ctx, storage.NodeQuery{
		PublishedOnly: true,
		Category:      category,
		Contains:      query,
		Limit:         maxCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("search: fetching candidates: %w", err)
	}

	ranked := rank(candidates, query, clampLimit(req.Limit))

	if len(ranked) == 0 {
		s.record(query, nil, time.Since(start))
		return &Response{Nodes: []ResultNode{}, Summary: noResultsGuidance}, nil
	}

	response := &Response{Nodes: make([]ResultNode, 0, len(ranked))}
	for _, node := range ranked {
		response.Nodes = append(response.Nodes, ResultNode{
			Id:       node.Id,
			Title:    node.Title,
			Layer1:   node.Layer1,
			Category: node.Category,
		})
	}

	if s.annotator != nil {
		s.annotate(ctx, query, ranked, response)
	}

	ids := make([]string, len(ranked))
	for i, node := range ranked {
		ids[i] = node.Id
	}
	s.record(query, ids, time.Since(start))

	return response, nil
}

// rank scores candidates against the query, orders them score-descending
// (stable on the recency order of the fetch), and truncates to limit.
// An empty query keeps the recency order untouched.
func rank(candidates []*core.Node, query string, limit int) []*core.Node {
	ranked := candidates
	if query != "" {
		scores := make(map[*core.Node]int, len(candidates))
		for _, node := range candidates {
			scores[node] = Score(node, query)
		}
		ranked = make([]*core.Node, len(candidates))
		copy(ranked, candidates)
		sort.SliceStable(ranked, func(i, j int) bool {
			return scores[ranked[i]] > scores[ranked[j]]
		})
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// annotate enriches the response in place. Best-effort: any failure logs a
// warning and leaves the relevance and summary fields unset.
func (s *Searcher) annotate(ctx context.Context, query string, ranked []*core.Node, response *Response) {
	candidates := make([]ai.Candidate, len(ranked))
	for i, node := range ranked {
		candidates[i] = ai.Candidate{
			ID:       node.Id,
			Title:    node.Title,
			Keywords: node.Keywords,
			Summary:  node.Layer1,
		}
	}

	annotation, err := s.annotator.Annotate(ctx, query, candidates)
	if err != nil {
		s.logger.Warn("annotation failed, returning unannotated results", "err", err)
		return
	}

	byTitle := make(map[string]string, len(annotation.Explanations))
	for _, e := range annotation.Explanations {
		byTitle[strings.ToLower(e.NodeTitle)] = e.Relevance
	}
	for i := range response.Nodes {
		if relevance, ok := byTitle[strings.ToLower(response.Nodes[i].Title)]; ok {
			response.Nodes[i].Relevance = relevance
		}
	}
	response.Summary = annotation.Summary
}

func (s *Searcher) record(query string, ids []string, took time.Duration) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordSearch(query, ids, took)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
