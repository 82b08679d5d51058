package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cloudvault/apperr"
)

type DiskStorage struct {
	// BasePath is a directory that is writable by the current process
	BasePath  string
	bucket    Bucket
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

func NewDiskStorage(bucket *Bucket) *DiskStorage {
	return &DiskStorage{
		BasePath: bucket.Path,
		bucket:   *bucket,
		dirs:     make(map[string]bool, 10),
	}
}

func (s *DiskStorage) GetBucket() *Bucket {
	return &s.bucket
}

func (s *DiskStorage) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if ok := s.dirs[dir]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	s.dirs[dir] = true
	return nil
}

// forgetDirs drops cached directories at or below dir after it was removed
func (s *DiskStorage) forgetDirs(dir string) {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	for d := range s.dirs {
		if d == dir || strings.HasPrefix(d, dir+string(filepath.Separator)) {
			delete(s.dirs, d)
		}
	}
}

func (s *DiskStorage) getFullPath(path string) (string, error) {
	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.BasePath, filepath.FromSlash(rel)), nil
}

func (s *DiskStorage) EnsureDir(dir string) error {
	fullPath, err := s.getFullPath(dir)
	if err != nil {
		return err
	}
	if err = s.createDir(fullPath); err != nil {
		return apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return nil
}

// Save writes into a temporary sibling and renames it into place, so a failed
// write never leaves a partial blob under the final name.
func (s *DiskStorage) Save(path string, reader io.Reader) (int64, error) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return 0, err
	}
	if err = s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, apperr.Wrap(apperr.ErrIOFailure, err)
	}
	file, err := os.CreateTemp(filepath.Dir(fileName), ".upload-*")
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrIOFailure, err)
	}
	tmpName := file.Name()
	_, err = io.Copy(file, reader)
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, fileName)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return 0, apperr.Wrap(apperr.ErrIOFailure, err)
	}
	// Size comes from the stored artifact, not from what the client declared
	fi, err := os.Stat(fileName)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return fi.Size(), nil
}

func (s *DiskStorage) Open(path string) (io.ReadCloser, error) {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrNotFound, err)
		}
		return nil, apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return file, nil
}

func (s *DiskStorage) Delete(path string) error {
	fileName, err := s.getFullPath(path)
	if err != nil {
		return err
	}
	if err = os.Remove(fileName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return nil
}

func (s *DiskStorage) DeleteTree(dir string) error {
	dirName, err := s.getFullPath(dir)
	if err != nil {
		return err
	}
	s.forgetDirs(dirName)
	// RemoveAll returns nil when the directory does not exist
	if err = os.RemoveAll(dirName); err != nil {
		return apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return nil
}
