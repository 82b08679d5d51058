package manager

import (
	"sync/atomic"

	"cloudvault/logging"
	"cloudvault/naming"
	"cloudvault/storage"
	"cloudvault/store"

	"go.uber.org/zap"
)

// OrphanEvent describes a blob left behind because its removal failed after
// (or while) the metadata pointing to it was deleted.
type OrphanEvent struct {
	Bucket string
	// Prefix is the bucket root (a directory, or a key prefix when several
	// roots share one S3 bucket). Path is relative to it.
	Prefix string
	Path   string
	Err    error
}

type OrphanHook func(OrphanEvent)

type Deps struct {
	Store *store.Store
	// FileBlobs is the flat files root, AlbumBlobs holds one directory per album
	FileBlobs       storage.StorageAPI
	AlbumBlobs      storage.StorageAPI
	FileExtensions  naming.ExtensionSet
	PhotoExtensions naming.ExtensionSet
	Log             *zap.Logger
	// OnOrphan is called in addition to the WARN log and the Orphans counter
	OnOrphan OrphanHook
}

type Manager struct {
	Files   *Files
	Albums  *Albums
	orphans *orphans
}

func New(d Deps) *Manager {
	log := logging.OrNop(d.Log)
	if d.FileExtensions == nil {
		d.FileExtensions = naming.NewExtensionSet(naming.DefaultFileExtensions...)
	}
	if d.PhotoExtensions == nil {
		d.PhotoExtensions = naming.NewExtensionSet(naming.DefaultPhotoExtensions...)
	}
	o := &orphans{log: log.Named("orphans"), hook: d.OnOrphan}
	return &Manager{
		Files: &Files{
			store:   d.Store,
			blobs:   d.FileBlobs,
			allowed: d.FileExtensions,
			log:     log.Named("files"),
			orphans: o,
		},
		Albums: &Albums{
			store:   d.Store,
			blobs:   d.AlbumBlobs,
			allowed: d.PhotoExtensions,
			log:     log.Named("albums"),
			orphans: o,
		},
		orphans: o,
	}
}

// Orphans returns how many blob removals have failed since startup
func (m *Manager) Orphans() int64 {
	return m.orphans.count.Load()
}

type orphans struct {
	log   *zap.Logger
	hook  OrphanHook
	count atomic.Int64
}

func (o *orphans) report(blobs storage.StorageAPI, path string, err error) {
	b := blobs.GetBucket()
	o.count.Add(1)
	o.log.Warn("blob removal failed, blob orphaned",
		zap.String("bucket", b.Name), zap.String("prefix", b.Path),
		zap.String("path", path), zap.Error(err))
	if o.hook != nil {
		o.hook(OrphanEvent{Bucket: b.Name, Prefix: b.Path, Path: path, Err: err})
	}
}
