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


package search

import "errors"

var (
	// ErrCandidateSourceRequired is returned when a candidate source is not provided.
	ErrCandidateSourceRequired = errors.New("candidate source required")

	// ErrInvalidConfig is returned when scoring configuration fails validation.
	ErrInvalidConfig = errors.New("invalid search config")
)
