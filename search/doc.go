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


// Package search ranks published knowledge-base nodes against a query.
//
// The Searcher type fetches candidates from storage, scores them with a
// weighted substring scorer over several per-node signals (title match
// tiers, alt phrasings, keywords, search blob, quick answer), and returns
// the top results. An optional Annotator enriches results with generated
// relevance notes; annotation failures degrade to plain results. An
// optional Recorder logs each search as an analytics event without
// blocking the caller.
package search
