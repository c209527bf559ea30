package adapter

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/models"
	"go.etcd.io/bbolt"
)

// localFolderFile is the bbolt file created inside the configured folder.
const localFolderFile = "go-pass-sync.db"

// Bucket names
var (
	recordsBucket  = []byte("records")
	modTimesBucket = []byte("mod_times")
)

// localFolderBackend keeps records in a bbolt file inside a folder that some
// other tool replicates (a removable drive, a desktop sync client). The file
// is opened on first use and held until Close.
type localFolderBackend struct {
	dir  string
	path string

	mu     sync.Mutex
	db     *bbolt.DB
	closed bool

	now    func() time.Time
	logger *logger.Logger
}

func newLocalFolderBackend(desc models.BackendDescriptor, o options) (Backend, error) {
	dir := filepath.Clean(desc.Setting(FieldPath))
	return &localFolderBackend{
		dir:    dir,
		path:   filepath.Join(dir, localFolderFile),
		now:    o.now,
		logger: o.logger,
	}, nil
}

func (l *localFolderBackend) Type() models.BackendType { return models.BackendLocalFolder }

func (l *localFolderBackend) open() (*bbolt.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}
	if l.db != nil {
		return l.db, nil
	}

	if err := os.MkdirAll(l.dir, 0o700); err != nil {
		return nil, mapLocalError("create sync folder", err)
	}

	db, err := bbolt.Open(l.path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, mapLocalError("open sync file", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(recordsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(modTimesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, mapLocalError("init sync file", err)
	}

	l.logger.Debug().Str("func", "localFolderBackend.open").Str("path", l.path).Msg("opened local sync file")
	l.db = db
	return db, nil
}

// Authenticate implements [Backend]. Access is granted when the sync file can
// be opened; a permission failure is a denial.
func (l *localFolderBackend) Authenticate(_ context.Context, _ InteractiveContext) (bool, error) {
	_, err := l.open()
	if errors.Is(err, ErrForbidden) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsAuthenticated implements [Backend].
func (l *localFolderBackend) IsAuthenticated(_ context.Context) bool {
	_, err := l.open()
	return err == nil
}

// Upload implements [Backend]. The handle is "<file>#<id>".
func (l *localFolderBackend) Upload(ctx context.Context, id string, record []byte) (string, error) {
	if err := validObjectName(id); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	db, err := l.open()
	if err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(l.now().UnixNano()))

	err = db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(recordsBucket).Put([]byte(id), record); err != nil {
			return err
		}
		return tx.Bucket(modTimesBucket).Put([]byte(id), ts)
	})
	if err != nil {
		return "", mapLocalError("store record", err)
	}
	return l.path + "#" + id, nil
}

// Download implements [Backend].
func (l *localFolderBackend) Download(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db, err := l.open()
	if err != nil {
		return nil, err
	}

	var out []byte
	err = db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(recordsBucket).Get([]byte(id)); v != nil {
			// values are only valid for the life of the transaction
			out = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, mapLocalError("read record", err)
	}
	return out, nil
}

// List implements [Backend].
func (l *localFolderBackend) List(ctx context.Context) ([]models.RemoteFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db, err := l.open()
	if err != nil {
		return nil, err
	}

	var files []models.RemoteFile
	err = db.View(func(tx *bbolt.Tx) error {
		times := tx.Bucket(modTimesBucket)
		return tx.Bucket(recordsBucket).ForEach(func(k, v []byte) error {
			f := models.RemoteFile{FileName: string(k), SizeBytes: int64(len(v))}
			if ts := times.Get(k); len(ts) == 8 {
				f.ModifiedTime = time.Unix(0, int64(binary.BigEndian.Uint64(ts))).UTC()
			}
			files = append(files, f)
			return nil
		})
	})
	if err != nil {
		return nil, mapLocalError("list records", err)
	}
	return files, nil
}

// Delete implements [Backend].
func (l *localFolderBackend) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	db, err := l.open()
	if err != nil {
		return false, err
	}

	var existed bool
	err = db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b.Get([]byte(id)) == nil {
			return nil
		}
		existed = true
		if err := b.Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(modTimesBucket).Delete([]byte(id))
	})
	if err != nil {
		return false, mapLocalError("delete record", err)
	}
	return existed, nil
}

// GetStorageQuota implements [Backend]. Usage is the size of the sync file;
// the free space of the underlying volume is not reported.
func (l *localFolderBackend) GetStorageQuota(_ context.Context) (models.StorageQuota, error) {
	db, err := l.open()
	if err != nil {
		return models.StorageQuota{}, err
	}

	var size int64
	err = db.View(func(tx *bbolt.Tx) error {
		size = tx.Size()
		return nil
	})
	if err != nil {
		return models.StorageQuota{}, mapLocalError("read sync file size", err)
	}
	return models.StorageQuota{UsedBytes: size}, nil
}

// Close implements [Backend].
func (l *localFolderBackend) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func mapLocalError(op string, err error) error {
	switch {
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("local folder %s: %w: %w", op, ErrForbidden, err)
	case errors.Is(err, bbolt.ErrTimeout):
		// another process holds the file lock
		return fmt.Errorf("local folder %s: %w: %w", op, ErrUnavailable, err)
	case errors.Is(err, bbolt.ErrDatabaseReadOnly):
		return fmt.Errorf("local folder %s: %w: %w", op, ErrForbidden, err)
	default:
		return fmt.Errorf("local folder %s: %w: %w", op, ErrProvider, err)
	}
}
