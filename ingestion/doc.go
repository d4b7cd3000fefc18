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


// Package ingestion imports question corpora into a document repository.
//
// A corpus is a YAML file listing questions:
//
//	questions:
//	  - title: How do I reverse a slice?
//	    content: Looking for the idiomatic way in Go
//	    tags: [go, slices]
//	    subject: golang
//	    author: gopher
//	    upvotes: 12
//	    answers: 2
//	    solved: true
//	    created_at: 2024-05-01T10:00:00Z
//
// The Importer converts entries to core.Document values, validates them and
// writes them in batches on an ants worker pool. Batch writes that fail with
// a data-access error are retried with exponential backoff. Subject and
// author names become content-derived IDs, so the same name always maps to
// the same ID across imports.
package ingestion
