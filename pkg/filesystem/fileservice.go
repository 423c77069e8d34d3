package filesystem

import (
	"io"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/types"
)

// FileService is the record-level view of a filesystem used by handlers.
// Enumeration results are ordered by name.
type FileService struct {
	fs types.FS
}

// NewFileService wraps a filesystem implementation.
func NewFileService(fsys types.FS) *FileService {
	return &FileService{fs: fsys}
}

// FS exposes the underlying filesystem.
func (s *FileService) FS() types.FS {
	return s.fs
}

// ListFiles returns the regular files directly inside dir whose base name
// matches pattern. A missing directory yields no files.
func (s *FileService) ListFiles(dir, pattern string) ([]string, error) {
	entries, err := s.readDir(dir)
	if err != nil || entries == nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "bad file pattern %q", pattern)
		}
		if matched {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// ListDirectories returns the immediate subdirectories of dir.
func (s *FileService) ListDirectories(dir string) ([]string, error) {
	entries, err := s.readDir(dir)
	if err != nil || entries == nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}
	return dirs, nil
}

func (s *FileService) readDir(dir string) ([]fs.DirEntry, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", dir)
	}
	return entries, nil
}

// Exists reports whether path exists.
func (s *FileService) Exists(path string) bool {
	_, err := s.fs.Stat(path)
	return err == nil
}

// EnsureFileExists fails with ErrNotFound when path is missing.
func (s *FileService) EnsureFileExists(path string) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, "file not found: %s", path)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "%s is a directory", path)
	}
	return nil
}

// OpenRead opens path for reading. The caller must close the reader.
func (s *FileService) OpenRead(path string) (io.ReadCloser, error) {
	if err := s.EnsureFileExists(path); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", path)
	}
	return f, nil
}

// WriteFile writes data to path, creating parent directories.
func (s *FileService) WriteFile(path string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create directory for %s", path)
	}
	if err := s.fs.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	return nil
}
