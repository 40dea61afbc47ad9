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


// Package storage provides the storage abstraction layer for answerbase.
//
// It defines repository interfaces that decouple storage implementation from
// the ingestion and search logic, so different backends (BadgerDB,
// in-memory) can be used interchangeably.
//
// Public constructors return interfaces:
//
//	repos, err := badger.NewRepositories("/path/to/db")  // storage.NodeRepository etc.
//
// Internal constructors may return concrete types since they are only used
// within the implementation package.
//
// All repository implementations must be thread-safe. All methods accept
// context.Context; pass context.Background() when no timeout is needed.
package storage
