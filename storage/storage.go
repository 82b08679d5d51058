package storage

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloudvault/apperr"
)

// StorageAPI stores blobs under relative, slash separated paths.
// Delete and DeleteTree treat a missing target as success.
type StorageAPI interface {
	// Save writes the whole stream and returns the size of the stored artifact
	Save(path string, reader io.Reader) (int64, error)
	Open(path string) (io.ReadCloser, error)
	Delete(path string) error
	DeleteTree(dir string) error
	EnsureDir(dir string) error
	GetBucket() *Bucket
}

var errEscapesRoot = errors.New("path escapes storage root")

func NewStorage(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket), nil
	case StorageTypeS3:
		return NewS3Storage(bucket)
	}
	return nil, fmt.Errorf("storage type unavailable for bucket %q", bucket.Name)
}

// cleanPath normalises p and refuses anything that would leave the root
func cleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, `\`, "/")
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return "", apperr.Wrap(apperr.ErrIOFailure, fmt.Errorf("%w: %q", errEscapesRoot, p))
		}
	}
	cleaned := path.Clean("/" + p)
	if cleaned == "/" {
		return "", apperr.Wrap(apperr.ErrIOFailure, fmt.Errorf("%w: %q", errEscapesRoot, p))
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}
