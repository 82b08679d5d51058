package store

import (
	"cloudvault/apperr"
	"cloudvault/models"
)

type FileStats struct {
	Total     int64 `json:"total_files"`
	Images    int64 `json:"image_count"`
	Documents int64 `json:"document_count"`
	Bytes     int64 `json:"total_size"`
}

func (s *Store) CreateFile(f *models.File) error {
	return s.db.Create(f).Error
}

// FileByID loads a file regardless of owner. Callers compare owner ids.
func (s *Store) FileByID(id uint64) (f models.File, err error) {
	err = s.db.First(&f, id).Error
	return f, notFound(err, "file")
}

// DeleteFile removes the row only when it belongs to owner
func (s *Store) DeleteFile(owner, id uint64) error {
	result := s.db.Where("id = ? AND user_id = ?", id, owner).Delete(&models.File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.Errorf(apperr.ErrNotFound, "file")
	}
	return nil
}

// ListFiles returns owner's files, newest first
func (s *Store) ListFiles(owner uint64) (files []models.File, err error) {
	err = s.db.Where("user_id = ?", owner).Order("created_at DESC, id DESC").Find(&files).Error
	return
}

// FileStats counts owner's files; images and documents are the file types
// counted into the respective buckets.
func (s *Store) FileStats(owner uint64, images, documents []string) (stats FileStats, err error) {
	if len(images) == 0 {
		images = []string{""}
	}
	if len(documents) == 0 {
		documents = []string{""}
	}
	err = s.db.Model(&models.File{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN file_type IN ? THEN 1 ELSE 0 END), 0) AS images, "+
			"COALESCE(SUM(CASE WHEN file_type IN ? THEN 1 ELSE 0 END), 0) AS documents, "+
			"COALESCE(SUM(size), 0) AS bytes", images, documents).
		Where("user_id = ?", owner).
		Scan(&stats).Error
	return
}
