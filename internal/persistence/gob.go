// Package persistence stores gob snapshots on disk.
package persistence

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// SaveGob encodes object into filePath. The snapshot is written to a temporary file
// in the same directory and renamed over the target, so readers never see a partial file.
func SaveGob(filePath string, object any) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filePath, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Printf("Warning: failed to remove temp file %s: %v", tmpPath, rmErr)
			}
		}
	}()

	if err := gob.NewEncoder(tmp).Encode(object); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", filePath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to move snapshot into place at %s: %w", filePath, err)
	}
	committed = true
	return nil
}

// LoadGob decodes a gob-encoded file from filePath into objectPointer.
// A missing file yields os.ErrNotExist so callers can treat it as a fresh start.
func LoadGob(filePath string, objectPointer any) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("Warning: failed to close file %s: %v", filePath, closeErr)
		}
	}()

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}
