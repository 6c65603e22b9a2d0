package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mdvrp-service/internal/loader"
	"os"
)

// Fingerprint returns the hex sha256 of the file content.
// Failures match loader.ErrIO.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %q: %w: %w", path, loader.ErrIO, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fingerprint %q: %w: %w", path, loader.ErrIO, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
