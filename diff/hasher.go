package diff

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// EntryStreamer источник байтов элемента; archive.Entry реализует его
type EntryStreamer interface {
	StreamTo(w io.Writer) (int64, error)
}

// Hasher вычисляет дайджест содержимого элемента
type Hasher interface {
	Digest(entry EntryStreamer) (string, error)
}

// SHA256Hasher потоковый SHA-256 в hex
type SHA256Hasher struct{}

// Digest реализует Hasher
func (SHA256Hasher) Digest(entry EntryStreamer) (string, error) {
	h := sha256.New()
	if _, err := entry.StreamTo(h); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
