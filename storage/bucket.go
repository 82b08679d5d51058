package storage

import (
	"fmt"
	"strings"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

// Bucket describes one storage root: a directory on disk or a key prefix in an S3 bucket
type Bucket struct {
	Name        string
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	Region      string
	Endpoint    string // custom S3 endpoint (minio etc), empty for AWS
	S3Key       string
	S3Secret    string
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath maps a storage path to the object key inside the S3 bucket
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	path = strings.TrimLeft(path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

func ParseStorageType(s string) (StorageType, error) {
	switch strings.ToLower(s) {
	case "", "file":
		return StorageTypeFile, nil
	case "s3":
		return StorageTypeS3, nil
	}
	return 0, fmt.Errorf("unknown storage type %q", s)
}
