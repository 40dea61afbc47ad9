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


// Package ingest turns semi-structured authoring input into validated
// canonical nodes.
//
// Two input formats are supported:
//   - CSV bulk import (ParseCSVNodes): one node per row under a header
//     contract, with per-row validation results collected rather than thrown.
//   - Writer-template Markdown (ParseNodeMarkdown): a single document with
//     numbered "## N)" sections, parsed by a small library of line-scanner
//     field extractors.
//
// SerializeNodeMarkdown is the inverse of the Markdown parser, so exported
// documents can be re-imported losslessly.
//
// The Importer commits parsed batches to storage with all-or-nothing
// semantics: nothing is written while any row or document has errors.
package ingest
