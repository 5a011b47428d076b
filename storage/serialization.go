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


package storage

import (
	"fmt"

	"github.com/openmuse/curio/core"
)

// MarshalFileHash serializes a FileHash to bytes.
func MarshalFileHash(record *core.FileHash) []byte {
	buf := make([]byte, core.FileHashMUS.Size(*record))
	core.FileHashMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalFileHash deserializes a FileHash from bytes.
func UnmarshalFileHash(data []byte) (*core.FileHash, error) {
	record, _, err := core.FileHashMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalCommitRecord serializes a CommitRecord to bytes.
func MarshalCommitRecord(record *core.CommitRecord) []byte {
	buf := make([]byte, core.CommitRecordMUS.Size(*record))
	core.CommitRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalCommitRecord deserializes a CommitRecord from bytes.
func UnmarshalCommitRecord(data []byte) (*core.CommitRecord, error) {
	record, _, err := core.CommitRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
