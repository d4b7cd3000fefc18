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


// Package search ranks questions from free text or structured criteria.
//
// The Searcher type implements a two-phase lookup:
//   - Exact search delegates a phrase match to the candidate source
//   - Fuzzy search runs only when exact search finds nothing or fails; it fetches a
//     bounded candidate set for the longest query token and ranks it by
//     weighted title/content token similarity
//
// RelatedQuestions scores questions of the same subject against a source
// question by title, content and tag overlap.
//
// Data-access failures never reach the caller. Every public operation logs
// the failure and reports it to the SearchMonitor. A failed exact step is
// treated as no match; any other failure returns an empty slice.
package search
