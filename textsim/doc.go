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


// Package textsim provides the text normalization, tokenization and
// similarity primitives used to rank search candidates.
//
// The pipeline is:
//   - Normalize: lower-case, map "c#"/"c++", drop everything except ASCII
//     letters, digits and whitespace
//   - Tokenize: split normalized text, keep tokens of at least 3 characters
//     that are not stop words
//   - GenerateTrigrams: 3-character windows of tokens with at least 4 characters
//   - CalculateSimilarity: trigram Jaccard index, or a containment ratio when
//     a token is too short to have trigrams
//
// Every function is pure and safe for concurrent use.
package textsim
