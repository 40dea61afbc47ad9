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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidNode indicates a Node failed validation.
	ErrInvalidNode = errors.New("invalid node")

	// ErrMissingID indicates the node id is empty.
	ErrMissingID = errors.New("node id is required")

	// ErrInvalidID indicates the node id does not match ^[a-z0-9-]+$.
	ErrInvalidID = errors.New("node id must be lowercase letters, numbers, and hyphens only")

	// ErrMissingTitle indicates the node title is empty or whitespace.
	ErrMissingTitle = errors.New("node title is required")
)
