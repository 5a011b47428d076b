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


// Package ingestion implements the batch loading pipeline.
//
// A run scans a directory of JSON art-object documents, skips files whose
// content hash is unchanged since the last run, chunks the remaining
// documents with a token-aware splitter, embeds chunk batches on a worker
// pool, and upserts the resulting points into the vector store. File hashes
// are recorded after their documents land so an interrupted run re-processes
// only what it did not finish.
//
// When the source directory is a git checkout, incremental mode skips the
// entire run if HEAD matches the last recorded commit, and otherwise narrows
// the scan to files changed since that commit.
//
// Per-document failures (unreadable files, malformed JSON) are logged and
// skipped; embedding or upsert failures fail their document and surface in
// the run report.
package ingestion
