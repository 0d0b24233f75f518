package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
)

const (
	backupSuffix = ".backup"
	lockSuffix   = ".lock"

	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStore keeps the task collection in one JSON file with a
// single-generation backup beside it.
type FileStore struct {
	path   string
	logger *zap.Logger
	lock   *fileLock
	now    func() time.Time
}

// NewFileStore creates a FileStore for the file at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		path:   path,
		logger: logger.With(zap.String("file", path)),
		lock:   newFileLock(path + lockSuffix),
		now:    time.Now,
	}
}

// Path returns the live store file path.
func (s *FileStore) Path() string {
	return s.path
}

// BackupPath returns the path holding the previous generation.
func (s *FileStore) BackupPath() string {
	return s.path + backupSuffix
}

// Load reads and normalizes the collection. A missing file is created empty.
// Any other failure is logged and an empty collection is returned so the
// caller stays usable.
func (s *FileStore) Load() []*task.Task {
	empty := []*task.Task{}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		s.logger.Error("error loading tasks", zap.Error(err))
		return empty
	}

	locked := true
	if err := s.lock.acquire(); err != nil {
		s.logger.Warn("reading tasks without lock", zap.Error(err))
		locked = false
	} else {
		defer func() { _ = s.lock.release() }()
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if werr := writeAtomic(s.path, []byte("[]\n")); werr != nil {
			s.logger.Error("error creating task file", zap.Error(werr))
		}
		return empty
	}
	if err != nil {
		s.logger.Error("error loading tasks", zap.Error(err))
		return empty
	}

	tasks, upgraded, err := Decode(data, s.now(), s.logger)
	if err != nil {
		s.logger.Error("error loading tasks", zap.Error(err))
		return empty
	}
	s.logger.Debug("loaded tasks", zap.Int("count", len(tasks)))
	if tasks == nil {
		return empty
	}

	// Write upgraded records back so generated IDs and created stamps
	// survive to the next run. The pre-upgrade file becomes the backup.
	if upgraded && locked {
		if err = s.saveLocked(tasks, data); err != nil {
			s.logger.Warn("error writing upgraded tasks", zap.Error(err))
		} else {
			s.logger.Info("upgraded task file", zap.Int("count", len(tasks)))
		}
	}
	return tasks
}

// Save copies the current file to the backup, then replaces the file with
// tasks. Each write goes through a temp file and rename, so the live file is
// always either the old or the new content in full.
func (s *FileStore) Save(tasks []*task.Task) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return todoerrors.PersistenceError{Op: "create directory for", Path: s.path, Err: err}
	}

	if err := s.lock.acquire(); err != nil {
		return todoerrors.PersistenceError{Op: "lock", Path: s.path, Err: err}
	}
	defer func() { _ = s.lock.release() }()

	current, err := os.ReadFile(s.path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		// First save; nothing to back up.
		current = nil
	default:
		return todoerrors.PersistenceError{Op: "read", Path: s.path, Err: err}
	}
	return s.saveLocked(tasks, current)
}

// saveLocked backs up current (when non-nil) and writes tasks. The caller
// holds the file lock.
func (s *FileStore) saveLocked(tasks []*task.Task, current []byte) error {
	data, err := Encode(tasks)
	if err != nil {
		return todoerrors.PersistenceError{Op: "encode", Path: s.path, Err: err}
	}

	if current != nil {
		if werr := writeAtomic(s.BackupPath(), current); werr != nil {
			return todoerrors.PersistenceError{Op: "back up", Path: s.path, Err: werr}
		}
	}

	if err = writeAtomic(s.path, data); err != nil {
		return todoerrors.PersistenceError{Op: "write", Path: s.path, Err: err}
	}
	s.logger.Debug("saved tasks", zap.Int("count", len(tasks)))
	return nil
}

// writeAtomic writes data to a temp file in the same directory and renames
// it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()

	_, err = tmp.Write(data)
	if err1 := tmp.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err == nil {
		err = os.Chmod(name, filePerm)
	}
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err = os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
