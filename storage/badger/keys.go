package badger

import "fmt"

// Key prefixes for different data types
const (
	fileHashPrefix = "filehash"
	lastCommitKey  = "commit:last"
)

// makeFileHashKey generates a key for a file hash record by path.
func makeFileHashKey(path string) []byte {
	return []byte(fmt.Sprintf("%s:%s", fileHashPrefix, path))
}
