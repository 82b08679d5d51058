package manager

import (
	"io"
	"strings"

	"cloudvault/apperr"
	"cloudvault/models"
	"cloudvault/naming"
	"cloudvault/storage"
	"cloudvault/store"

	"go.uber.org/zap"
)

// Albums manages albums and their photos. Each album owns the directory
// models.AlbumDir(id) in the albums root.
type Albums struct {
	store   *store.Store
	blobs   storage.StorageAPI
	allowed naming.ExtensionSet
	log     *zap.Logger
	orphans *orphans
}

func normalize(title string, description *string) (string, *string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil, apperr.Errorf(apperr.ErrValidation, "album title is required")
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		if d == "" {
			description = nil
		} else {
			description = &d
		}
	}
	return title, description, nil
}

// Create adds an empty album. Its directory is created after the row
// commits; a failure there is only logged as uploads create it again.
func (m *Albums) Create(owner uint64, title string, description *string) (models.Album, error) {
	title, description, err := normalize(title, description)
	if err != nil {
		return models.Album{}, err
	}
	a := models.Album{UserID: owner, Title: title, Description: description}
	if err = m.store.CreateAlbum(&a); err != nil {
		return models.Album{}, err
	}
	if err = m.blobs.EnsureDir(a.Dir()); err != nil {
		m.log.Warn("album directory not created", zap.Uint64("album", a.ID), zap.Error(err))
	}
	return a, nil
}

// Rename reports NotFound for albums owner does not have
func (m *Albums) Rename(owner, id uint64, title string, description *string) (models.Album, error) {
	title, description, err := normalize(title, description)
	if err != nil {
		return models.Album{}, err
	}
	return m.store.UpdateAlbum(owner, id, title, description)
}

// AddPhoto writes the photo under the album directory, then records it.
// The first photo of an empty album becomes the cover.
func (m *Albums) AddPhoto(owner, albumID uint64, rawName string, content io.Reader) (models.Photo, error) {
	album, err := m.store.AlbumForOwner(owner, albumID)
	if err != nil {
		return models.Photo{}, err
	}
	originalName, _, err := naming.Parse(rawName, m.allowed)
	if err != nil {
		return models.Photo{}, err
	}
	storageName, err := naming.GenerateStorageName(originalName, naming.ScopePhoto)
	if err != nil {
		return models.Photo{}, err
	}
	p := models.Photo{
		AlbumID:      album.ID,
		StorageName:  storageName,
		OriginalName: originalName,
	}
	if _, err = m.blobs.Save(p.GetPath(), content); err != nil {
		return models.Photo{}, err
	}
	// The album is locked and checked again, it may have gone in the meantime
	if err = m.store.AddPhoto(owner, album.ID, &p); err != nil {
		if rmErr := m.blobs.Delete(p.GetPath()); rmErr != nil {
			m.orphans.report(m.blobs, p.GetPath(), rmErr)
		}
		return models.Photo{}, err
	}
	m.log.Info("photo added", zap.Uint64("album", album.ID), zap.Uint64("photo", p.ID))
	return p, nil
}

func (m *Albums) SetCover(owner, albumID, photoID uint64) error {
	return m.store.SetCover(owner, albumID, photoID)
}

// DeletePhoto commits the row removal first so no record ever points at a
// missing blob; the blob is then removed on a best-effort basis.
func (m *Albums) DeletePhoto(owner, photoID uint64) error {
	p, err := m.store.DeletePhoto(owner, photoID)
	if err != nil {
		return err
	}
	if err = m.blobs.Delete(p.GetPath()); err != nil {
		m.orphans.report(m.blobs, p.GetPath(), err)
	}
	m.log.Info("photo deleted", zap.Uint64("album", p.AlbumID), zap.Uint64("photo", p.ID))
	return nil
}

// DeleteAlbum removes the album directory, then the album and its photo rows
func (m *Albums) DeleteAlbum(owner, albumID uint64) error {
	album, err := m.store.AlbumForOwner(owner, albumID)
	if err != nil {
		return err
	}
	if err = m.blobs.DeleteTree(album.Dir()); err != nil {
		m.orphans.report(m.blobs, album.Dir(), err)
	}
	if err = m.store.DeleteAlbum(owner, albumID); err != nil {
		return err
	}
	m.log.Info("album deleted", zap.Uint64("owner", owner), zap.Uint64("album", albumID))
	return nil
}

func (m *Albums) List(owner uint64) ([]models.Album, error) {
	return m.store.ListAlbums(owner)
}

// View returns owner's album with its photos, newest first
func (m *Albums) View(owner, albumID uint64) (models.Album, []models.Photo, error) {
	album, err := m.store.AlbumForOwner(owner, albumID)
	if err != nil {
		return models.Album{}, nil, err
	}
	photos, err := m.store.ListPhotos(album.ID)
	if err != nil {
		return models.Album{}, nil, err
	}
	return album, photos, nil
}

// OpenPhoto streams owner's photo. The caller closes the stream.
func (m *Albums) OpenPhoto(owner, photoID uint64) (models.Photo, io.ReadCloser, error) {
	p, err := m.store.PhotoForOwner(owner, photoID)
	if err != nil {
		return models.Photo{}, nil, err
	}
	rc, err := m.blobs.Open(p.GetPath())
	if err != nil {
		return models.Photo{}, nil, err
	}
	return p, rc, nil
}
