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


package ingest

import (
	"strings"

	"github.com/openquill/answerbase/core"
)

// DocResult is the outcome of parsing one writer-template document.
// Node is set only when Success is true; Errors lists every problem found
// in one pass so authors can fix a document in a single round trip.
type DocResult struct {
	Success bool
	Node    *core.Node
	Errors  []string
}

// ParseNodeMarkdown parses a writer-template Markdown document into a node.
//
// The document is split into numbered sections first. A missing metadata
// section is unrecoverable and returns immediately; every other problem is
// collected and reported together. Section 4 (editorial notes) is optional.
func ParseNodeMarkdown(doc string) *DocResult {
	var errs []string

	sections := SplitSections(doc)

	meta, ok := sections["0"]
	if !ok {
		return &DocResult{Errors: []string{`Missing section: "## 0) Node Metadata"`}}
	}

	nodeID := extractInlineCode(meta, "Node ID")
	if nodeID == "" {
		errs = append(errs, `Missing or empty "Node ID".`)
	}

	title := extractAfterLabel(meta, "Title (Question)")
	if title == "" {
		errs = append(errs, `Missing or empty "Title (Question)".`)
	}

	altPhrasings := extractBulletList(meta, "Alt Phrasings")
	category := extractAfterLabel(meta, "Category")
	keywords := strings.Join(extractBulletList(meta, "Keywords"), ", ")

	status := extractInlineCode(meta, "Status")
	published := strings.EqualFold(status, "published")

	metaRelated := extractBulletList(meta, "Related Questions")

	layer1Section, ok := sections["1"]
	if !ok {
		errs = append(errs, `Missing section: "## 1) Layer 1"`)
	}
	layer1 := strings.TrimSpace(layer1Section)

	layer2Section, hasLayer2 := sections["2"]
	if !hasLayer2 {
		errs = append(errs, `Missing section: "## 2) Layer 2"`)
	}
	var reasoning []core.ReasoningBullet
	if hasLayer2 {
		reasoning = parseReasoning(layer2Section)
		if len(reasoning) == 0 {
			errs = append(errs, `Layer 2 has no reasoning bullets. Use "#### Heading" format.`)
		}
	}

	layer3Section, hasLayer3 := sections["3"]
	if !hasLayer3 {
		errs = append(errs, `Missing section: "## 3) Layer 3"`)
	}
	var resources []core.Resource
	var sourcesList []core.Source
	var layer3Related []string
	if hasLayer3 {
		resources = parseDigDeeper(layer3Section)
		sourcesList = parseSources(layer3Section)
		layer3Related = extractBulletListUnderHeading(layer3Section, "Related Questions")
	}

	related := mergeRelated(metaRelated, layer3Related)

	var editorialNotes map[string]string
	if editSection, ok := sections["4"]; ok {
		editorialNotes = parseEditorialNotes(editSection)
	}

	if len(errs) > 0 {
		return &DocResult{Errors: errs}
	}

	node := &core.Node{
		Id:           nodeID,
		Title:        title,
		Category:     category,
		Keywords:     keywords,
		AltPhrasings: altPhrasings,
		Layer1:       layer1,
		Layer2:       core.Layer2{Reasoning: reasoning},
		Layer3: core.Layer3{
			Resources:        resources,
			Sources:          sourcesList,
			RelatedQuestions: related,
			EditorialNotes:   editorialNotes,
		},
		Published: published,
	}
	core.RebuildSearchBlob(node)

	return &DocResult{Success: true, Node: node}
}

// mergeRelated combines related-question references from the metadata block
// and the Layer 3 sub-section: metadata first, order preserved, duplicates
// dropped after normalization. References may be written as `node-id`.
func mergeRelated(metaRefs, layer3Refs []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ref := range append(append([]string{}, metaRefs...), layer3Refs...) {
		ref = core.NormalizeNodeRef(stripBackticks(ref))
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
