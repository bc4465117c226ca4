package officeindex

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// computeFileHash returns the hex-encoded SHA-256 digest of path, read in
// hashChunkBytes chunks so large files never load fully into memory.
func computeFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	digest := sha256.New()
	buf := make([]byte, hashChunkBytes)
	if _, err := io.CopyBuffer(digest, file, buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
