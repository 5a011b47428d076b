package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Serializers for the records persisted in the hash store. Timestamps are
// stored as microseconds since the Unix epoch.
var (
	FileHashMUS     = fileHashMUS{}
	CommitRecordMUS = commitRecordMUS{}
)

type fileHashMUS struct{}

func (fileHashMUS) Marshal(v FileHash, bs []byte) (n int) {
	n = ord.String.Marshal(v.Path, bs)
	n += ord.String.Marshal(v.Hash, bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (fileHashMUS) Unmarshal(bs []byte) (v FileHash, n int, err error) {
	v.Path, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Hash, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var usec int64
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(usec).UTC()
	return
}

func (fileHashMUS) Size(v FileHash) (size int) {
	size = ord.String.Size(v.Path)
	size += ord.String.Size(v.Hash)
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return size
}

type commitRecordMUS struct{}

func (commitRecordMUS) Marshal(v CommitRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Hash, bs)
	n += varint.Int64.Marshal(v.IngestedAt.UnixMicro(), bs[n:])
	return n
}

func (commitRecordMUS) Unmarshal(bs []byte) (v CommitRecord, n int, err error) {
	v.Hash, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	var usec int64
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.IngestedAt = time.UnixMicro(usec).UTC()
	return
}

func (commitRecordMUS) Size(v CommitRecord) (size int) {
	size = ord.String.Size(v.Hash)
	size += varint.Int64.Size(v.IngestedAt.UnixMicro())
	return size
}
