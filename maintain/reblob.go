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


// Package maintain holds offline maintenance operations over the node
// store. These run from the CLI, never from the serving path.
package maintain

import (
	"context"
	"fmt"
	"io"

	"github.com/openquill/answerbase/core"
	"github.com/openquill/answerbase/storage"
)

// Config holds configuration for the reblob operation.
type Config struct {
	// ReportInterval is how often to report progress (number of nodes).
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 100,
	}
}

// Report summarizes a reblob run.
type Report struct {
	// Total is the number of nodes examined.
	Total int

	// Rewritten is the number of nodes whose stored blob was stale.
	Rewritten int
}

// Reblobber recomputes the search blob for every stored node.
//
// Needed after the blob formula changes or after bulk data surgery outside
// the normal write path. Up-to-date nodes are left untouched so their
// recency position is preserved.
type Reblobber struct {
	repo     storage.NodeRepository
	config   *Config
	progress io.Writer
}

// NewReblobber creates a new reblobber.
// progress: where to write progress output (typically os.Stderr)
func NewReblobber(repo storage.NodeRepository, config *Config, progress io.Writer) *Reblobber {
	if config == nil {
		config = DefaultConfig()
	}
	return &Reblobber{
		repo:     repo,
		config:   config,
		progress: progress,
	}
}

// Run executes the reblob operation over every node in the store.
func (r *Reblobber) Run(ctx context.Context) (*Report, error) {
	nodes, err := r.repo.ListNodes(ctx, storage.NodeQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	report := &Report{Total: len(nodes)}
	if len(nodes) == 0 {
		fmt.Fprintf(r.progress, "No nodes found in database (0 nodes)\n")
		return report, nil
	}

	for i, node := range nodes {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		expected := core.SearchBlob(node.Title, node.Layer1, node.Keywords, node.AltPhrasings)
		if node.SearchBlob != expected {
			if _, err := r.repo.PutNode(ctx, node); err != nil {
				return report, fmt.Errorf("failed to rewrite node %s: %w", node.Id, err)
			}
			report.Rewritten++
		}

		if r.config.ReportInterval > 0 && (i+1)%r.config.ReportInterval == 0 {
			fmt.Fprintf(r.progress, "Processed %d/%d nodes (%d rewritten)\n",
				i+1, report.Total, report.Rewritten)
		}
	}

	fmt.Fprintf(r.progress, "Done: %d nodes examined, %d rewritten\n",
		report.Total, report.Rewritten)
	return report, nil
}
