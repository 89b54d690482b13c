// Package copier streams candidate bytes into a staging directory while
// computing each member's sha256 fingerprint, per spec.md §4.4.
//
// Grounded on registry/storage/driver/filesystem/driver.go's PutContent:
// write through a temp file, compute a digest as bytes stream past, then
// only make the result visible once writing succeeds.
package copier

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/epistemic/pack/digestutil"
)

// Record is the outcome of copying one candidate: its member path, content
// digest, and size in bytes.
type Record struct {
	MemberPath string
	BytesHash  string
	Size       int64
}

// CopyOne streams sourcePath into stagingRoot/memberPath, creating parent
// directories as needed, and returns the copied member's fingerprint.
//
// The destination is written via a uniquely named temp file in the same
// directory and renamed into place only after the full copy succeeds, so a
// reader never observes a partially written member (mirroring PutContent's
// temp-file-then-move discipline, scaled down to a same-filesystem rename
// since staging and destination always share a root).
func CopyOne(sourcePath, stagingRoot, memberPath string) (Record, error) {
	destPath := filepath.Join(stagingRoot, filepath.FromSlash(memberPath))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o777); err != nil {
		return Record{}, fmt.Errorf("copier: creating parent dirs for %s: %w", memberPath, err)
	}

	tempPath := destPath + "." + uuid.NewString() + ".tmp"
	tempFile, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("copier: creating temp file for %s: %w", memberPath, err)
	}

	rec, copyErr := copyAndHash(sourcePath, tempFile, memberPath)
	closeErr := tempFile.Close()
	if copyErr != nil {
		os.Remove(tempPath)
		return Record{}, copyErr
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return Record{}, fmt.Errorf("copier: closing temp file for %s: %w", memberPath, closeErr)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return Record{}, fmt.Errorf("copier: promoting %s into staging: %w", memberPath, err)
	}

	return rec, nil
}

func copyAndHash(sourcePath string, dst io.Writer, memberPath string) (Record, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return Record{}, fmt.Errorf("copier: opening %s: %w", sourcePath, err)
	}
	defer src.Close()

	hasher := digestutil.NewHasher(dst)
	n, err := io.Copy(hasher, src)
	if err != nil {
		return Record{}, fmt.Errorf("copier: copying %s: %w", sourcePath, err)
	}

	return Record{
		MemberPath: memberPath,
		BytesHash:  hasher.Sum().String(),
		Size:       n,
	}, nil
}
