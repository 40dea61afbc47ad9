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

import (
	"fmt"
	"regexp"
	"strings"
)

var nodeIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateNode validates a Node at the point of committing it, regardless
// of how it was authored (form submit, CSV row, Markdown import, API write).
//
// Gate conditions:
//   - Id must be present and match ^[a-z0-9-]+$
//   - Title must contain non-whitespace text
//
// Everything richer (layers, keywords, phrasings) is optional content and
// is NOT validated here.
func ValidateNode(n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: node is nil", ErrInvalidNode)
	}
	if err := ValidateNodeID(n.Id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNode, err)
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrMissingTitle)
	}
	return nil
}

// ValidateNodeID checks that an id is present and well-formed.
func ValidateNodeID(id string) error {
	if id == "" {
		return ErrMissingID
	}
	if !nodeIDPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}
