package manager

import (
	"io"

	"cloudvault/apperr"
	"cloudvault/models"
	"cloudvault/naming"
	"cloudvault/storage"
	"cloudvault/store"

	"go.uber.org/zap"
)

// Files handles single file uploads in the flat files root
type Files struct {
	store   *store.Store
	blobs   storage.StorageAPI
	allowed naming.ExtensionSet
	log     *zap.Logger
	orphans *orphans
}

// Upload stores content under a fresh storage name and records it for owner.
// Name and extension errors are returned before anything is written.
func (m *Files) Upload(owner uint64, rawName string, content io.Reader) (models.File, error) {
	originalName, ext, err := naming.Parse(rawName, m.allowed)
	if err != nil {
		return models.File{}, err
	}
	storageName, err := naming.GenerateStorageName(originalName, naming.ScopeFile)
	if err != nil {
		return models.File{}, err
	}
	size, err := m.blobs.Save(storageName, content)
	if err != nil {
		return models.File{}, err
	}
	f := models.File{
		UserID:       owner,
		StorageName:  storageName,
		OriginalName: originalName,
		FileType:     ext,
		Size:         size,
	}
	if err = m.store.CreateFile(&f); err != nil {
		m.discard(storageName)
		return models.File{}, err
	}
	m.log.Info("file uploaded", zap.Uint64("owner", owner), zap.Uint64("file", f.ID), zap.Int64("size", size))
	return f, nil
}

// discard removes a blob whose record was never committed
func (m *Files) discard(path string) {
	if err := m.blobs.Delete(path); err != nil {
		m.orphans.report(m.blobs, path, err)
	}
}

func (m *Files) owned(owner, id uint64) (models.File, error) {
	f, err := m.store.FileByID(id)
	if err != nil {
		return models.File{}, err
	}
	if f.UserID != owner {
		return models.File{}, apperr.Errorf(apperr.ErrForbidden, "file %d", id)
	}
	return f, nil
}

// Download opens owner's file. The caller closes the stream.
func (m *Files) Download(owner, id uint64) (models.File, io.ReadCloser, error) {
	f, err := m.owned(owner, id)
	if err != nil {
		return models.File{}, nil, err
	}
	rc, err := m.blobs.Open(f.GetPath())
	if err != nil {
		return models.File{}, nil, err
	}
	return f, rc, nil
}

// Delete removes the blob, then the record. The record is removed even when
// the blob cannot be.
func (m *Files) Delete(owner, id uint64) error {
	f, err := m.owned(owner, id)
	if err != nil {
		return err
	}
	if err = m.blobs.Delete(f.GetPath()); err != nil {
		m.orphans.report(m.blobs, f.GetPath(), err)
	}
	if err = m.store.DeleteFile(owner, id); err != nil {
		return err
	}
	m.log.Info("file deleted", zap.Uint64("owner", owner), zap.Uint64("file", id))
	return nil
}

func (m *Files) List(owner uint64) ([]models.File, error) {
	return m.store.ListFiles(owner)
}

func (m *Files) Stats(owner uint64) (store.FileStats, error) {
	return m.store.FileStats(owner, naming.ImageTypes, naming.DocumentTypes)
}
