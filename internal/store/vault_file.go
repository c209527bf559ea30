package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
)

// vaultFile is the file-backed [VaultSource]. The vault itself is produced
// and encrypted at rest by the password manager; the sync engine treats it
// as an opaque payload.
type vaultFile struct {
	path   string
	logger *logger.Logger
}

// NewVaultFile constructs a [VaultSource] reading and replacing the file at path.
func NewVaultFile(path string, logger *logger.Logger) VaultSource {
	return &vaultFile{
		path:   path,
		logger: logger,
	}
}

func (v *vaultFile) Path() string {
	return v.path
}

func (v *vaultFile) ModTime(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(v.path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, ErrVaultNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("stat vault file: %w", err)
	}
	return info.ModTime(), nil
}

func (v *vaultFile) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(v.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrVaultNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "vaultFile.Load").
			Str("path", v.path).
			Msg("failed to read vault file")
		return nil, fmt.Errorf("read vault file: %w", err)
	}
	return data, nil
}

// Apply writes payload into a temporary file next to the vault and renames
// it over the vault, so readers observe either the old or the new payload.
func (v *vaultFile) Apply(ctx context.Context, payload []byte) error {
	log := logger.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(v.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(v.path)+".*.tmp")
	if err != nil {
		log.Err(err).Str("func", "vaultFile.Apply").Msg("failed to create temporary vault file")
		return fmt.Errorf("create temporary vault file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temporary vault file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temporary vault file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary vault file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temporary vault file: %w", err)
	}

	if err = os.Rename(tmpName, v.path); err != nil {
		log.Err(err).
			Str("func", "vaultFile.Apply").
			Str("path", v.path).
			Msg("failed to replace vault file")
		return fmt.Errorf("replace vault file: %w", err)
	}

	log.Debug().
		Str("func", "vaultFile.Apply").
		Int("size", len(payload)).
		Msg("vault file replaced")
	return nil
}
