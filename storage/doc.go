// Copyright 2025 Openmuse Labs
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


// Package storage provides the local bookkeeping layer for the loader.
//
// The loader keeps two kinds of records outside the vector database: the
// content hash recorded for each ingested source file, and the last source
// repository commit processed. This package defines repository interfaces
// that decouple that bookkeeping from its BadgerDB implementation.
//
// Public constructors return interface types to enforce abstraction:
//
//	hashes, err := badger.NewHashStore(backend)  // returns storage.HashStore
//
// Use in tests with in-memory storage:
//
//	hashes, commits, backend, err := badger.NewMemoryStores()
//	defer backend.Close()
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
