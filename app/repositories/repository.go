package repositories

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Open opens the badger store at path. An empty path opens an in-memory
// store, which is what the tests use.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.
		WithLogger(nil).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open store at %q", path)
	}
	return db, nil
}

// Clean removes the store directory. It reports false when nothing existed.
func Clean(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(path); err != nil {
		return false, errors.Wrap(err, "remove store")
	}
	return true, nil
}

// Backup writes a full backup of db to a timestamped file in dir.
func Backup(db *badger.DB, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "create backup directory")
	}

	backupFile := filepath.Join(dir, "backup_"+time.Now().Format("20060102T150405")+".db")
	f, err := os.Create(backupFile)
	if err != nil {
		return "", errors.Wrap(err, "create backup file")
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return "", errors.Wrap(err, "backup store")
	}
	return backupFile, nil
}

// Restore loads a backup stream produced by Backup into db.
func Restore(db *badger.DB, r io.Reader) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("restore panicked: %v", rec)
			err = errors.Errorf("panic occurred during restore: %v", rec)
		}
	}()
	if err := db.Load(r, 4); err != nil {
		return errors.Wrap(err, "load backup")
	}
	return nil
}

// RestoreFile restores db from a backup file, refusing empty files.
func RestoreFile(db *badger.DB, backupFile string) error {
	f, err := os.Open(backupFile)
	if err != nil {
		return errors.Wrap(err, "open backup file")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat backup file")
	}
	if fi.Size() == 0 {
		return errors.Errorf("backup file is empty: %s", backupFile)
	}
	return Restore(db, f)
}
