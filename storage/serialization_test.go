package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuse/curio/core"
)

func TestFileHashSerializationRoundTrip(t *testing.T) {
	orig := &core.FileHash{
		Path:      "objects/obj-99.json",
		Hash:      "deadbeef",
		UpdatedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	data := MarshalFileHash(orig)
	got, err := UnmarshalFileHash(data)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestCommitRecordSerializationRoundTrip(t *testing.T) {
	orig := &core.CommitRecord{
		Hash:       "3f786850e387550fdab836ed7e6dc881de23001b",
		IngestedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	data := MarshalCommitRecord(orig)
	got, err := UnmarshalCommitRecord(data)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestUnmarshalFileHashCorrupt(t *testing.T) {
	_, err := UnmarshalFileHash([]byte{0xff})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
