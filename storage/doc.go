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


// Package storage provides the storage abstraction layer for qasearch.
//
// This package defines the interfaces that decouple the search engine from
// the persistence collaborator. The engine depends only on CandidateSource;
// DocumentRepository adds the write and lookup operations used by ingestion
// and the CLI.
//
// # Architecture
//
//   - CandidateSource: structured search and paged scans, the only surface
//     the search engine consumes
//   - DocumentRepository: CandidateSource plus document management
//
// # Usage
//
// Create a repository instance:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := badger.NewDocumentRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer func() { repo.Close(); backend.Close() }()
//
// # Errors
//
// Adapters mark every read or write failure with ErrDataAccess. Missing
// records are reported with ErrNotFound.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
