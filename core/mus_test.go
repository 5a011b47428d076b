package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHashMUSRoundTrip(t *testing.T) {
	orig := FileHash{
		Path:      "objects/obj-1.json",
		Hash:      "0a1b2c3d",
		UpdatedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	}

	bs := make([]byte, FileHashMUS.Size(orig))
	n := FileHashMUS.Marshal(orig, bs)
	require.Equal(t, len(bs), n)

	got, n, err := FileHashMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, orig, got)
}

func TestCommitRecordMUSRoundTrip(t *testing.T) {
	orig := CommitRecord{
		Hash:       "3f786850e387550fdab836ed7e6dc881de23001b",
		IngestedAt: time.Date(2025, 7, 15, 8, 0, 0, 0, time.UTC),
	}

	bs := make([]byte, CommitRecordMUS.Size(orig))
	n := CommitRecordMUS.Marshal(orig, bs)
	require.Equal(t, len(bs), n)

	got, n, err := CommitRecordMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, orig, got)
}

func TestFileHashMUSUnmarshalTruncated(t *testing.T) {
	orig := FileHash{Path: "objects/obj-1.json", Hash: "0a1b2c3d", UpdatedAt: time.Now()}
	bs := make([]byte, FileHashMUS.Size(orig))
	FileHashMUS.Marshal(orig, bs)

	_, _, err := FileHashMUS.Unmarshal(bs[:3])
	assert.Error(t, err)
}
