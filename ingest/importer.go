package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openquill/answerbase/core"
	"github.com/openquill/answerbase/storage"
)

// Importer commits parsed nodes to storage with all-or-nothing semantics:
// while any row or document has errors, nothing at all is written.
type Importer struct {
	nodes  storage.NodeRepository
	logger *slog.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithLogger sets the logger used by the importer.
func WithLogger(logger *slog.Logger) ImporterOption {
	return func(i *Importer) {
		i.logger = logger
	}
}

// NewImporter creates an Importer writing through the given repository.
func NewImporter(nodes storage.NodeRepository, opts ...ImporterOption) *Importer {
	i := &Importer{
		nodes:  nodes,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.With("component", "importer")
	return i
}

// ImportReport is the outcome of a commit attempt. Committed is false when
// parse errors blocked the whole batch; Rows echoes the per-row parse
// results for CSV imports.
type ImportReport struct {
	Committed bool
	Created   int
	Updated   int
	Unchanged int
	Rows      []RowResult
	Errors    []string
}

// ImportCSV parses CSV text and commits the batch.
// A single failing row blocks every row, including the valid ones; the
// report carries each row's result so authors can fix and retry the file.
func (i *Importer) ImportCSV(ctx context.Context, text string) (*ImportReport, error) {
	parsed := ParseCSVNodes(text)

	report := &ImportReport{Rows: parsed.Results}
	if parsed.HasErrors {
		for _, r := range parsed.Results {
			if !r.Success {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: %s", r.Row, r.Error))
			}
		}
		i.logger.Warn("csv import blocked by row errors", "rows", len(parsed.Results), "errors", len(report.Errors))
		return report, nil
	}

	if err := i.commit(ctx, parsed.Nodes, report); err != nil {
		return nil, err
	}
	report.Committed = true
	i.logger.Info("csv import committed",
		"created", report.Created, "updated", report.Updated, "unchanged", report.Unchanged)
	return report, nil
}

// ImportMarkdown parses one writer-template document and commits its node.
func (i *Importer) ImportMarkdown(ctx context.Context, doc string) (*ImportReport, error) {
	parsed := ParseNodeMarkdown(doc)

	report := &ImportReport{Errors: parsed.Errors}
	if !parsed.Success {
		i.logger.Warn("markdown import blocked by parse errors", "errors", len(parsed.Errors))
		return report, nil
	}

	if err := i.commit(ctx, []*core.Node{parsed.Node}, report); err != nil {
		return nil, err
	}
	report.Committed = true
	i.logger.Info("markdown import committed", "id", parsed.Node.Id,
		"created", report.Created, "updated", report.Updated, "unchanged", report.Unchanged)
	return report, nil
}

// commit writes each node, skipping ones whose content fingerprint matches
// what is already stored so a re-import of an unchanged file is a no-op.
func (i *Importer) commit(ctx context.Context, nodes []*core.Node, report *ImportReport) error {
	for _, node := range nodes {
		existing, err := i.nodes.GetNode(ctx, node.Id)
		switch {
		case err == nil:
			if core.Fingerprint(existing) == core.Fingerprint(node) {
				report.Unchanged++
				continue
			}
			if _, err := i.nodes.PutNode(ctx, node); err != nil {
				return err
			}
			report.Updated++
		case errors.Is(err, storage.ErrNotFound):
			if _, err := i.nodes.PutNode(ctx, node); err != nil {
				return err
			}
			report.Created++
		default:
			return err
		}
	}
	return nil
}
