// Copyright 2025 Poiesic Systems
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
	"strings"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Title must not be blank
//   - Upvotes, Views and AnswerCount must not be negative
//   - CreatedAt must not be in the future
//
// NOT validated:
//   - Content (a question may be title-only)
//   - ID (0 is valid, storage assigns one from its sequence)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}

	if doc.Upvotes < 0 || doc.Views < 0 || doc.AnswerCount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrNegativeCounter)
	}

	if !IsValidTimestamp(doc.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
